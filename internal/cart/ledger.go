// Package cart owns the authoritative list of cart line items for one
// device. Every mutation is persisted before it becomes visible.
package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

type Repository interface {
	LoadCart(ctx context.Context) ([]models.CartLineItem, error)
	SaveCart(ctx context.Context, items []models.CartLineItem) error
	ClearCart(ctx context.Context) error
}

type Ledger struct {
	mu     sync.Mutex
	repo   Repository
	items  []models.CartLineItem
	logger *zap.Logger
}

// Open loads the persisted cart. Rows with a non-positive quantity are
// dropped and rows sharing a key are merged; if that changed anything the
// cleaned cart is written back.
func Open(ctx context.Context, repo Repository, logger *zap.Logger) (*Ledger, error) {
	stored, err := repo.LoadCart(ctx)
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}

	l := &Ledger{repo: repo, logger: logger.Named("cart")}

	cleaned := normalize(stored)
	if len(cleaned) != len(stored) {
		l.logger.Warn("repairing stored cart",
			zap.Int("stored_lines", len(stored)),
			zap.Int("kept_lines", len(cleaned)))
		if err := repo.SaveCart(ctx, cleaned); err != nil {
			return nil, fmt.Errorf("open cart: %w", err)
		}
	}
	l.items = cleaned

	return l, nil
}

// AddItem merges into an existing line with the same key or appends a new
// one. qty < 1 is ignored.
func (l *Ledger) AddItem(ctx context.Context, item models.CartLineItem, qty int) error {
	if qty < 1 {
		l.logger.Debug("ignoring add with non-positive quantity",
			zap.String("product_id", item.ID.String()), zap.Int("quantity", qty))
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.copyItems()
	if i := indexOf(next, item.Key()); i >= 0 {
		next[i].Quantity += qty
	} else {
		item.Quantity = qty
		next = append(next, item)
	}

	if err := l.commit(ctx, next); err != nil {
		return fmt.Errorf("add item %s: %w", item.ID, err)
	}

	l.logger.Info("item added",
		zap.String("product_id", item.ID.String()),
		zap.Int("quantity", qty),
		zap.Int("cart_count", store.TotalQuantity(next)))
	return nil
}

// SetQuantity replaces a line's quantity; qty <= 0 removes the line. The
// ledger enforces no upper bound. Unknown keys are a no-op.
func (l *Ledger) SetQuantity(ctx context.Context, key models.LineKey, qty int) error {
	if qty <= 0 {
		return l.RemoveItem(ctx, key)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := indexOf(l.items, key)
	if i < 0 {
		return nil
	}

	next := l.copyItems()
	next[i].Quantity = qty

	if err := l.commit(ctx, next); err != nil {
		return fmt.Errorf("set quantity %s: %w", key.ID, err)
	}
	return nil
}

// RemoveItem is idempotent.
func (l *Ledger) RemoveItem(ctx context.Context, key models.LineKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := indexOf(l.items, key)
	if i < 0 {
		return nil
	}

	next := make([]models.CartLineItem, 0, len(l.items)-1)
	next = append(next, l.items[:i]...)
	next = append(next, l.items[i+1:]...)

	if err := l.commit(ctx, next); err != nil {
		return fmt.Errorf("remove item %s: %w", key.ID, err)
	}

	l.logger.Info("item removed", zap.String("product_id", key.ID.String()))
	return nil
}

func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.repo.ClearCart(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	l.items = nil
	return nil
}

// TotalQuantity is the badge count: the sum of quantities, not the number
// of lines.
func (l *Ledger) TotalQuantity() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return store.TotalQuantity(l.items)
}

// Items returns a copy safe for the caller to keep.
func (l *Ledger) Items() []models.CartLineItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.copyItems()
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *Ledger) Find(key models.LineKey) (models.CartLineItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := indexOf(l.items, key); i >= 0 {
		return l.items[i], true
	}
	return models.CartLineItem{}, false
}

func (l *Ledger) commit(ctx context.Context, next []models.CartLineItem) error {
	if err := l.repo.SaveCart(ctx, next); err != nil {
		return err
	}
	l.items = next
	return nil
}

func (l *Ledger) copyItems() []models.CartLineItem {
	out := make([]models.CartLineItem, len(l.items))
	copy(out, l.items)
	return out
}

func indexOf(items []models.CartLineItem, key models.LineKey) int {
	for i := range items {
		if items[i].Key() == key {
			return i
		}
	}
	return -1
}

func normalize(items []models.CartLineItem) []models.CartLineItem {
	out := make([]models.CartLineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if i := indexOf(out, item.Key()); i >= 0 {
			out[i].Quantity += item.Quantity
			continue
		}
		out = append(out, item)
	}
	return out
}
