package store

import (
	"context"
	"fmt"

	"github.com/safar/go-storefront/internal/kvstore"
	"github.com/safar/go-storefront/internal/models"
)

func (r *Repository) LoadAddresses(ctx context.Context) ([]models.Address, error) {
	var addrs []models.Address
	if _, err := r.getJSON(ctx, kvstore.KeyAddresses, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

// SaveAddresses replaces the whole address set in one write, which is what
// keeps the single-default invariant atomic.
func (r *Repository) SaveAddresses(ctx context.Context, addrs []models.Address) error {
	if addrs == nil {
		addrs = []models.Address{}
	}
	return r.setJSON(ctx, kvstore.KeyAddresses, addrs)
}

func (r *Repository) LoadOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if _, err := r.getJSON(ctx, kvstore.KeyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AppendOrder adds a placed order to the history. Orders already recorded
// (same id) are left alone so redelivery is harmless.
func (r *Repository) AppendOrder(ctx context.Context, order models.Order) error {
	orders, err := r.LoadOrders(ctx)
	if err != nil {
		return err
	}

	for _, o := range orders {
		if o.ID == order.ID {
			return nil
		}
	}

	if err := r.setJSON(ctx, kvstore.KeyOrders, append(orders, order)); err != nil {
		return fmt.Errorf("append order %s: %w", order.OrderNumber, err)
	}
	return nil
}

func (r *Repository) LoadRecentlyViewed(ctx context.Context) ([]models.ProductID, error) {
	var ids []models.ProductID
	if _, err := r.getJSON(ctx, kvstore.KeyRecentlyViewed, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) SaveRecentlyViewed(ctx context.Context, ids []models.ProductID) error {
	return r.setJSON(ctx, kvstore.KeyRecentlyViewed, ids)
}
