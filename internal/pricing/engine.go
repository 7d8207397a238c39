// Package pricing computes cart totals. Everything here is a pure function
// of the ledger snapshot; nothing is cached between reads.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/models"
)

type Engine struct {
	freeShippingThreshold decimal.Decimal
	flatShippingFee       decimal.Decimal
	taxRate               decimal.Decimal
	promos                PromoTable
}

func NewEngine(cfg config.PricingConfig, promos PromoTable) *Engine {
	return &Engine{
		freeShippingThreshold: cfg.FreeShippingThreshold,
		flatShippingFee:       cfg.FlatShippingFee,
		taxRate:               cfg.TaxRate,
		promos:                promos,
	}
}

func (e *Engine) Promos() PromoTable { return e.promos }

func (e *Engine) ResolvePromo(code string) (Promo, error) {
	return e.promos.Resolve(code)
}

func Subtotal(items []models.CartLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Shipping is free strictly above the threshold. The flat fee applies to
// every other subtotal, an empty cart included.
func (e *Engine) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(e.freeShippingThreshold) {
		return decimal.Zero
	}
	return e.flatShippingFee
}

// Tax applies to the subtotal only, never to shipping.
func (e *Engine) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(e.taxRate)
}

// Quote prices items with an optional promo. The total is floored at zero.
func (e *Engine) Quote(items []models.CartLineItem, promo *Promo) models.Totals {
	subtotal := Subtotal(items)
	shipping := e.Shipping(subtotal)
	tax := e.Tax(subtotal)

	discount := decimal.Zero
	if promo != nil {
		discount = promo.Discount(subtotal)
	}

	total := subtotal.Add(shipping).Add(tax).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return models.Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}
}

// Round is the presentation rounding: two places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func Display(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Rounded returns a copy of t rounded for presentation.
func Rounded(t models.Totals) models.Totals {
	return models.Totals{
		Subtotal: Round(t.Subtotal),
		Shipping: Round(t.Shipping),
		Tax:      Round(t.Tax),
		Discount: Round(t.Discount),
		Total:    Round(t.Total),
	}
}
