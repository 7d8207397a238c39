package wishlist

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/cart"
	"github.com/safar/go-storefront/internal/kvstore"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

func watch() models.WishlistEntry {
	return models.WishlistEntry{
		ID:      "2",
		Name:    "Smart Fitness Watch",
		Price:   decimal.RequireFromString("199.99"),
		InStock: true,
	}
}

func setup(t *testing.T) (*Wishlist, *cart.Ledger) {
	t.Helper()
	repo := store.New(kvstore.NewMemory())
	ledger, err := cart.Open(context.Background(), repo, zap.NewNop())
	if err != nil {
		t.Fatalf("cart.Open: %v", err)
	}
	return New(repo, zap.NewNop()), ledger
}

func TestAddRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	w, _ := setup(t)

	added, err := w.Add(ctx, watch())
	if err != nil || !added {
		t.Fatalf("Add: added=%v err=%v", added, err)
	}
	added, err = w.Add(ctx, watch())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added {
		t.Error("Expected duplicate add to report false")
	}

	items, err := w.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(items))
	}
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	w, _ := setup(t)

	present, err := w.Toggle(ctx, watch())
	if err != nil || !present {
		t.Fatalf("first Toggle: present=%v err=%v", present, err)
	}

	present, err = w.Toggle(ctx, watch())
	if err != nil || present {
		t.Fatalf("second Toggle: present=%v err=%v", present, err)
	}

	ok, err := w.Contains(ctx, watch().ID)
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if ok {
		t.Error("Expected entry removed after second toggle")
	}
}

func TestMoveToCart(t *testing.T) {
	ctx := context.Background()
	w, ledger := setup(t)

	if _, err := w.Add(ctx, watch()); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := w.MoveToCart(ctx, watch().ID, ledger); err != nil {
		t.Fatalf("MoveToCart: %v", err)
	}

	if got := ledger.TotalQuantity(); got != 1 {
		t.Errorf("Expected 1 item in cart, got %d", got)
	}
	if ok, _ := w.Contains(ctx, watch().ID); ok {
		t.Error("Expected entry removed from wishlist")
	}

	if err := w.MoveToCart(ctx, watch().ID, ledger); !errors.Is(err, ErrNotInWishlist) {
		t.Errorf("Expected ErrNotInWishlist, got %v", err)
	}
}

func TestSaveForLater(t *testing.T) {
	ctx := context.Background()
	w, ledger := setup(t)

	item := models.CartLineItem{ID: "2", Name: "Smart Fitness Watch", Price: decimal.RequireFromString("199.99"), InStock: true}
	if err := ledger.AddItem(ctx, item, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := w.SaveForLater(ctx, ledger, item.Key()); err != nil {
		t.Fatalf("SaveForLater: %v", err)
	}

	if ledger.Len() != 0 {
		t.Errorf("Expected cart line removed, got %d lines", ledger.Len())
	}
	if ok, _ := w.Contains(ctx, item.ID); !ok {
		t.Error("Expected item saved to wishlist")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	w, _ := setup(t)

	if _, err := w.Add(ctx, watch()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := w.Remove(ctx, watch().ID); err != nil {
			t.Fatalf("Remove #%d: %v", i+1, err)
		}
	}

	items, _ := w.Items(ctx)
	if len(items) != 0 {
		t.Errorf("Expected empty wishlist, got %d entries", len(items))
	}
}
