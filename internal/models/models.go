package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKey identifies one cart row: the product plus its variant signature.
type LineKey struct {
	ID      ProductID `json:"id"`
	Variant string    `json:"variant,omitempty"`
	Size    string    `json:"size,omitempty"`
	Color   string    `json:"color,omitempty"`
}

type CartLineItem struct {
	ID       ProductID       `json:"id"`
	Name     string          `json:"name"`
	Image    string          `json:"image,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Variant  string          `json:"variant,omitempty"`
	Size     string          `json:"size,omitempty"`
	Color    string          `json:"color,omitempty"`
	InStock  bool            `json:"inStock"`
}

func (i CartLineItem) Key() LineKey {
	return LineKey{ID: i.ID, Variant: i.Variant, Size: i.Size, Color: i.Color}
}

func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type WishlistEntry struct {
	ID            ProductID        `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Image         string           `json:"image,omitempty"`
	InStock       bool             `json:"inStock"`
}

type AddressType string

const (
	AddressTypeHome  AddressType = "home"
	AddressTypeWork  AddressType = "work"
	AddressTypeOther AddressType = "other"
)

type Address struct {
	ID        string      `json:"id"`
	Type      AddressType `json:"type" validate:"required,oneof=home work other"`
	Name      string      `json:"name" validate:"required"`
	Street    string      `json:"street" validate:"required"`
	Apartment string      `json:"apartment,omitempty"`
	City      string      `json:"city" validate:"required"`
	State     string      `json:"state" validate:"required"`
	ZipCode   string      `json:"zipCode" validate:"required"`
	Country   string      `json:"country" validate:"required"`
	Phone     string      `json:"phone,omitempty"`
	IsDefault bool        `json:"isDefault"`
}

type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
)

type ShippingDetails struct {
	FirstName      string         `json:"firstName" validate:"required"`
	LastName       string         `json:"lastName" validate:"required"`
	Email          string         `json:"email" validate:"required"`
	Phone          string         `json:"phone,omitempty"`
	Address        string         `json:"address" validate:"required"`
	Apartment      string         `json:"apartment,omitempty"`
	City           string         `json:"city" validate:"required"`
	State          string         `json:"state" validate:"required"`
	ZipCode        string         `json:"zipCode" validate:"required"`
	Country        string         `json:"country" validate:"required"`
	ShippingMethod ShippingMethod `json:"shippingMethod,omitempty" validate:"omitempty,oneof=standard express overnight"`
}

type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPayPal PaymentMethod = "paypal"
	PaymentApple  PaymentMethod = "apple"
	PaymentGoogle PaymentMethod = "google"
)

type PaymentDetails struct {
	Method                PaymentMethod `json:"paymentMethod" validate:"required,oneof=card paypal apple google"`
	CardNumber            string        `json:"cardNumber,omitempty" validate:"required_if=Method card"`
	ExpiryMonth           string        `json:"expiryMonth,omitempty" validate:"required_if=Method card"`
	ExpiryYear            string        `json:"expiryYear,omitempty" validate:"required_if=Method card"`
	CVV                   string        `json:"cvv,omitempty" validate:"required_if=Method card"`
	CardName              string        `json:"cardName,omitempty" validate:"required_if=Method card"`
	BillingSameAsShipping bool          `json:"billingSameAsShipping"`
}

// PaymentSummary is what an order keeps of the payment step. Card numbers
// are reduced to their last four digits and the CVV is never retained.
type PaymentSummary struct {
	Method                PaymentMethod `json:"paymentMethod"`
	CardLast              string        `json:"cardLast4,omitempty"`
	CardName              string        `json:"cardName,omitempty"`
	BillingSameAsShipping bool          `json:"billingSameAsShipping"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Status      string          `json:"status"`
	ShipTo      ShippingDetails `json:"shipTo"`
	Payment     PaymentSummary  `json:"payment"`
	Items       []CartLineItem  `json:"items"`
	PromoCode   string          `json:"promoCode,omitempty"`
	Totals
	OrderDate time.Time `json:"orderDate"`
}

func (o Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type User struct {
	ID                   string    `json:"id"`
	FirstName            string    `json:"firstName"`
	LastName             string    `json:"lastName"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone,omitempty"`
	Provider             string    `json:"provider,omitempty"`
	TwoFactorEnabled     bool      `json:"twoFactorEnabled"`
	NewsletterSubscribed bool      `json:"newsletterSubscribed"`
	CreatedAt            time.Time `json:"createdAt"`
}

// Session is the view of the persisted authentication keys.
type Session struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Email           string `json:"email,omitempty"`
	Token           string `json:"-"`
	User            *User  `json:"user,omitempty"`
	GuestMode       bool   `json:"guestMode"`

	// ExpiresAt is set only when the token was issued by this process.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type Product struct {
	ID            ProductID        `json:"id"`
	Name          string           `json:"name"`
	Brand         string           `json:"brand"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"reviewCount"`
	Stock         int              `json:"stock"`
	Image         string           `json:"image"`
	InStock       bool             `json:"inStock"`
	IsNew         bool             `json:"isNew"`
	IsOnSale      bool             `json:"isOnSale"`
	FreeShipping  bool             `json:"freeShipping"`
	Variants      []string         `json:"variants,omitempty"`
}

func (p Product) WishlistEntry() WishlistEntry {
	return WishlistEntry{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		InStock:       p.InStock,
	}
}

func (p Product) LineItem(variant string) CartLineItem {
	return CartLineItem{
		ID:      p.ID,
		Name:    p.Name,
		Image:   p.Image,
		Price:   p.Price,
		Variant: variant,
		InStock: p.InStock,
	}
}
