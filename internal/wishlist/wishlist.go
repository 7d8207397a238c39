// Package wishlist manages saved-for-later products. Membership is
// boolean: an entry has no quantity.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/cart"
	"github.com/safar/go-storefront/internal/models"
)

var ErrNotInWishlist = errors.New("item not in wishlist")

type Repository interface {
	LoadWishlist(ctx context.Context) ([]models.WishlistEntry, error)
	SaveWishlist(ctx context.Context, entries []models.WishlistEntry) error
}

type Wishlist struct {
	mu     sync.Mutex
	repo   Repository
	logger *zap.Logger
}

func New(repo Repository, logger *zap.Logger) *Wishlist {
	return &Wishlist{repo: repo, logger: logger.Named("wishlist")}
}

func (w *Wishlist) Items(ctx context.Context) ([]models.WishlistEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := w.repo.LoadWishlist(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.WishlistEntry{}
	}
	return entries, nil
}

func (w *Wishlist) Contains(ctx context.Context, id models.ProductID) (bool, error) {
	entries, err := w.Items(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(entries, id) >= 0, nil
}

// Add stores entry unless its id is already present. It reports whether the
// entry was added.
func (w *Wishlist) Add(ctx context.Context, entry models.WishlistEntry) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := w.repo.LoadWishlist(ctx)
	if err != nil {
		return false, err
	}
	if indexOf(entries, entry.ID) >= 0 {
		return false, nil
	}

	if err := w.repo.SaveWishlist(ctx, append(entries, entry)); err != nil {
		return false, fmt.Errorf("add %s to wishlist: %w", entry.ID, err)
	}

	w.logger.Info("wishlist entry added", zap.String("product_id", entry.ID.String()))
	return true, nil
}

// Toggle flips membership and reports whether the entry is now present.
func (w *Wishlist) Toggle(ctx context.Context, entry models.WishlistEntry) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := w.repo.LoadWishlist(ctx)
	if err != nil {
		return false, err
	}

	present := false
	if i := indexOf(entries, entry.ID); i >= 0 {
		entries = append(entries[:i], entries[i+1:]...)
	} else {
		entries = append(entries, entry)
		present = true
	}

	if err := w.repo.SaveWishlist(ctx, entries); err != nil {
		return false, fmt.Errorf("toggle %s: %w", entry.ID, err)
	}
	return present, nil
}

// Remove is idempotent.
func (w *Wishlist) Remove(ctx context.Context, id models.ProductID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.remove(ctx, id)
	return err
}

// MoveToCart adds the entry to the ledger with quantity 1, then drops it
// from the wishlist.
func (w *Wishlist) MoveToCart(ctx context.Context, id models.ProductID, ledger *cart.Ledger) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := w.repo.LoadWishlist(ctx)
	if err != nil {
		return err
	}

	i := indexOf(entries, id)
	if i < 0 {
		return ErrNotInWishlist
	}
	entry := entries[i]

	err = ledger.AddItem(ctx, models.CartLineItem{
		ID:      entry.ID,
		Name:    entry.Name,
		Image:   entry.Image,
		Price:   entry.Price,
		InStock: entry.InStock,
	}, 1)
	if err != nil {
		return fmt.Errorf("move %s to cart: %w", id, err)
	}

	if _, err := w.remove(ctx, id); err != nil {
		return fmt.Errorf("move %s to cart: %w", id, err)
	}
	return nil
}

// SaveForLater moves a cart line into the wishlist.
func (w *Wishlist) SaveForLater(ctx context.Context, ledger *cart.Ledger, key models.LineKey) error {
	item, ok := ledger.Find(key)
	if !ok {
		return nil
	}

	_, err := w.Add(ctx, models.WishlistEntry{
		ID:      item.ID,
		Name:    item.Name,
		Price:   item.Price,
		Image:   item.Image,
		InStock: item.InStock,
	})
	if err != nil {
		return err
	}

	return ledger.RemoveItem(ctx, key)
}

func (w *Wishlist) remove(ctx context.Context, id models.ProductID) (bool, error) {
	entries, err := w.repo.LoadWishlist(ctx)
	if err != nil {
		return false, err
	}

	i := indexOf(entries, id)
	if i < 0 {
		return false, nil
	}

	entries = append(entries[:i], entries[i+1:]...)
	if err := w.repo.SaveWishlist(ctx, entries); err != nil {
		return false, fmt.Errorf("remove %s from wishlist: %w", id, err)
	}
	return true, nil
}

func indexOf(entries []models.WishlistEntry, id models.ProductID) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}
