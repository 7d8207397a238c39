package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-storefront/internal/checkout"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/pricing"
)

type checkoutView struct {
	Step            int                       `json:"step"`
	StepName        string                    `json:"stepName"`
	CanAdvance      bool                      `json:"canAdvance"`
	Submitting      bool                      `json:"submitting"`
	Shipping        models.ShippingDetails    `json:"shipping"`
	ShippingOptions []checkout.ShippingOption `json:"shippingOptions"`
	PromoCode       string                    `json:"promoCode,omitempty"`
	Totals          models.Totals             `json:"totals"`
	Order           *models.Order             `json:"order,omitempty"`
}

type promoRequest struct {
	Code string `json:"code"`
}

func checkoutState(dev *Device) checkoutView {
	w := dev.Checkout
	v := checkoutView{
		Step:            int(w.Step()),
		StepName:        w.Step().String(),
		CanAdvance:      w.CanAdvance(),
		Submitting:      w.Submitting(),
		Shipping:        w.Shipping(),
		ShippingOptions: checkout.ShippingOptions(),
		PromoCode:       w.PromoCode(),
		Totals:          pricing.Rounded(w.Quote()),
	}
	if order, ok := w.Order(); ok {
		order.Totals = pricing.Rounded(order.Totals)
		v.Order = &order
		v.Totals = order.Totals
	}
	return v
}

func (h *Handler) getCheckout(c *gin.Context) {
	respondJSON(c, http.StatusOK, checkoutState(device(c)))
}

func (h *Handler) checkoutNext(c *gin.Context) {
	dev := device(c)
	if err := dev.Checkout.Advance(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, checkoutState(dev))
}

func (h *Handler) checkoutBack(c *gin.Context) {
	dev := device(c)
	if err := dev.Checkout.Back(); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, checkoutState(dev))
}

func (h *Handler) setShipping(c *gin.Context) {
	dev := device(c)

	var req models.ShippingDetails
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := dev.Checkout.SetShipping(req); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, checkoutState(dev))
}

func (h *Handler) setPayment(c *gin.Context) {
	dev := device(c)

	var req models.PaymentDetails
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := dev.Checkout.SetPayment(req); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, checkoutState(dev))
}

func (h *Handler) applyPromo(c *gin.Context) {
	dev := device(c)

	var req promoRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	if _, err := dev.Checkout.ApplyPromo(req.Code); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, checkoutState(dev))
}

func (h *Handler) clearPromo(c *gin.Context) {
	dev := device(c)
	dev.Checkout.ClearPromo()
	respondJSON(c, http.StatusOK, checkoutState(dev))
}

func (h *Handler) submitOrder(c *gin.Context) {
	dev := device(c)

	order, err := dev.Checkout.Submit(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	order.Totals = pricing.Rounded(order.Totals)
	respondJSON(c, http.StatusCreated, order)
}

func (h *Handler) resetCheckout(c *gin.Context) {
	dev := device(c)
	if err := dev.Checkout.Reset(); err != nil {
		h.fail(c, err)
		return
	}
	respondJSON(c, http.StatusOK, checkoutState(dev))
}
