package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/validation"
)

var shippingMessages = map[string]string{
	"firstName":            "First name is required",
	"lastName":             "Last name is required",
	"email":                "Email is required",
	"address":              "Address is required",
	"city":                 "City is required",
	"state":                "State is required",
	"zipCode":              "ZIP code is required",
	"country":              "Country is required",
	"shippingMethod.oneof": "Please choose a shipping method",
}

var paymentMessages = map[string]string{
	"paymentMethod":       "Please select a payment method",
	"paymentMethod.oneof": "Unsupported payment method",
	"cardNumber":          "Card number is required",
	"expiryMonth":         "Expiry month is required",
	"expiryYear":          "Expiry year is required",
	"cvv":                 "CVV is required",
	"cardName":            "Cardholder name is required",
}

var (
	shippingValidator = validation.New(shippingMessages)
	paymentValidator  = validation.New(paymentMessages)
)

func (w *Wizard) validateShipping() error {
	return shippingValidator.Struct(w.shipping)
}

func (w *Wizard) validatePayment() error {
	return paymentValidator.Struct(w.payment)
}

// ShippingOption is a delivery choice shown on the shipping step. Price is
// informational; order totals use the pricing engine's threshold rule.
type ShippingOption struct {
	Method      models.ShippingMethod `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Price       decimal.Decimal       `json:"price"`
}

func ShippingOptions() []ShippingOption {
	return []ShippingOption{
		{Method: models.ShippingStandard, Name: "Standard Shipping", Description: "5-7 business days", Price: decimal.Zero},
		{Method: models.ShippingExpress, Name: "Express Shipping", Description: "2-3 business days", Price: decimal.RequireFromString("9.99")},
		{Method: models.ShippingOvernight, Name: "Overnight Shipping", Description: "Next business day", Price: decimal.RequireFromString("24.99")},
	}
}
