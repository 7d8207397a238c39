package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPromoCode = errors.New("invalid promo code")

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// Promo is one entry of the promo table. Amount is a rate (0.10) for
// percentage codes and a money amount for fixed codes.
type Promo struct {
	Code   string          `json:"code"`
	Kind   DiscountKind    `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// Discount for the given subtotal. Fixed amounts are not scaled or capped.
func (p Promo) Discount(subtotal decimal.Decimal) decimal.Decimal {
	switch p.Kind {
	case DiscountPercentage:
		return subtotal.Mul(p.Amount)
	case DiscountFixed:
		return p.Amount
	default:
		return decimal.Zero
	}
}

// PromoTable is static configuration data, keyed by upper-cased code.
type PromoTable map[string]Promo

func DefaultPromos() PromoTable {
	return NewPromoTable(
		Promo{Code: "SAVE10", Kind: DiscountPercentage, Amount: decimal.RequireFromString("0.10")},
		Promo{Code: "WELCOME20", Kind: DiscountPercentage, Amount: decimal.RequireFromString("0.20")},
		Promo{Code: "FREESHIP", Kind: DiscountFixed, Amount: decimal.NewFromInt(15)},
	)
}

func NewPromoTable(promos ...Promo) PromoTable {
	t := make(PromoTable, len(promos))
	for _, p := range promos {
		p.Code = normalizeCode(p.Code)
		t[p.Code] = p
	}
	return t
}

// Resolve looks a user-entered code up case-insensitively. Surrounding
// whitespace is ignored; anything else must match exactly.
func (t PromoTable) Resolve(code string) (Promo, error) {
	p, ok := t[normalizeCode(code)]
	if !ok {
		return Promo{}, ErrInvalidPromoCode
	}
	return p, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
