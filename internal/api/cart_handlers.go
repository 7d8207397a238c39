package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/pricing"
	"github.com/safar/go-storefront/internal/simulate"
	"github.com/safar/go-storefront/internal/validation"
)

type cartView struct {
	Items     []models.CartLineItem `json:"items"`
	Count     int                   `json:"count"`
	Totals    models.Totals         `json:"totals"`
	PromoCode string                `json:"promoCode,omitempty"`
	Adding    bool                  `json:"adding"`
}

type addToCartRequest struct {
	ProductID models.ProductID `json:"productId"`
	Quantity  int              `json:"quantity"`
	Variant   string           `json:"variant"`
	Size      string           `json:"size"`
	Color     string           `json:"color"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) cartView(dev *Device) cartView {
	return cartView{
		Items:     dev.Cart.Items(),
		Count:     dev.Cart.TotalQuantity(),
		Totals:    pricing.Rounded(dev.Checkout.Quote()),
		PromoCode: dev.Checkout.PromoCode(),
		Adding:    dev.Latency.Pending(simulate.OpAddToCart),
	}
}

func (h *Handler) getCart(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.cartView(device(c)))
}

func (h *Handler) addToCart(c *gin.Context) {
	dev := device(c)

	var req addToCartRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !product.InStock {
		h.fail(c, errOutOfStock)
		return
	}
	if catalog.RequiresOptions(product) {
		fe := validation.FieldErrors{}
		if req.Variant == "" {
			fe["variant"] = "Please select a color"
		}
		if req.Size == "" {
			fe["size"] = "Please select a size"
		}
		if err := fe.OrNil(); err != nil {
			h.fail(c, err)
			return
		}
	}

	if err := dev.Latency.Wait(c.Request.Context(), simulate.OpAddToCart); err != nil {
		h.fail(c, err)
		return
	}

	item := product.LineItem(req.Variant)
	item.Size = req.Size
	item.Color = req.Color
	if err := dev.Cart.AddItem(c.Request.Context(), item, req.Quantity); err != nil {
		h.fail(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, h.cartView(dev))
}

func (h *Handler) updateCartItem(c *gin.Context) {
	dev := device(c)

	var req quantityRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	if err := dev.Cart.SetQuantity(c.Request.Context(), lineKey(c), req.Quantity); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, h.cartView(dev))
}

func (h *Handler) removeCartItem(c *gin.Context) {
	dev := device(c)
	if err := dev.Cart.RemoveItem(c.Request.Context(), lineKey(c)); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, h.cartView(dev))
}

func (h *Handler) clearCart(c *gin.Context) {
	dev := device(c)
	if err := dev.Cart.Clear(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, h.cartView(dev))
}

func (h *Handler) saveForLater(c *gin.Context) {
	dev := device(c)
	if err := dev.Wishlist.SaveForLater(c.Request.Context(), dev.Cart, lineKey(c)); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, h.cartView(dev))
}

// lineKey reads the cart row identity from the path id and the variant
// query parameters.
func lineKey(c *gin.Context) models.LineKey {
	return models.LineKey{
		ID:      models.ProductID(c.Param("id")),
		Variant: c.Query("variant"),
		Size:    c.Query("size"),
		Color:   c.Query("color"),
	}
}
