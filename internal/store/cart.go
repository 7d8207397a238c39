package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/safar/go-storefront/internal/kvstore"
	"github.com/safar/go-storefront/internal/models"
)

func (r *Repository) LoadCart(ctx context.Context) ([]models.CartLineItem, error) {
	var items []models.CartLineItem
	if _, err := r.getJSON(ctx, kvstore.KeyCartItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SaveCart writes the line items and the derived count in one SetMany.
// cartCount is only a cache of the items' quantity sum.
func (r *Repository) SaveCart(ctx context.Context, items []models.CartLineItem) error {
	if items == nil {
		items = []models.CartLineItem{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	err = r.kv.SetMany(ctx, map[string]string{
		kvstore.KeyCartItems: string(raw),
		kvstore.KeyCartCount: strconv.Itoa(TotalQuantity(items)),
	})
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *Repository) ClearCart(ctx context.Context) error {
	err := r.kv.SetMany(ctx, map[string]string{
		kvstore.KeyCartItems: "",
		kvstore.KeyCartCount: "0",
	})
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// CartCount derives the badge count from the stored items, never from the
// cached cartCount key.
func (r *Repository) CartCount(ctx context.Context) (int, error) {
	items, err := r.LoadCart(ctx)
	if err != nil {
		return 0, err
	}
	return TotalQuantity(items), nil
}

// ReconcileCartCount rewrites a stale or unreadable cartCount cache. It
// reports whether a repair was needed.
func (r *Repository) ReconcileCartCount(ctx context.Context) (bool, error) {
	want, err := r.CartCount(ctx)
	if err != nil {
		return false, err
	}

	raw, ok, err := r.kv.Get(ctx, kvstore.KeyCartCount)
	if err != nil {
		return false, fmt.Errorf("load cart count: %w", err)
	}
	if !ok && want == 0 {
		return false, nil
	}
	if ok {
		if got, convErr := strconv.Atoi(raw); convErr == nil && got == want {
			return false, nil
		}
	}

	if err := r.kv.Set(ctx, kvstore.KeyCartCount, strconv.Itoa(want)); err != nil {
		return false, fmt.Errorf("save cart count: %w", err)
	}
	return true, nil
}

func TotalQuantity(items []models.CartLineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
