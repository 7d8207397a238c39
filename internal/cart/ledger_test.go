package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/kvstore"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/store"
)

func headphones() models.CartLineItem {
	return models.CartLineItem{
		ID:      "1",
		Name:    "Wireless Bluetooth Headphones",
		Price:   decimal.RequireFromString("79.99"),
		InStock: true,
	}
}

func openLedger(t *testing.T, kv kvstore.Store) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), store.New(kv), zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return l
}

func TestAddItemMergesSameKey(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, kvstore.NewMemory())

	if err := l.AddItem(ctx, headphones(), 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := l.AddItem(ctx, headphones(), 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if l.Len() != 1 {
		t.Fatalf("Expected 1 line, got %d", l.Len())
	}
	if got := l.TotalQuantity(); got != 3 {
		t.Errorf("Expected quantity 3, got %d", got)
	}
}

func TestAddItemDifferentVariantIsSeparateLine(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, kvstore.NewMemory())

	black := headphones()
	black.Variant = "Black"
	white := headphones()
	white.Variant = "White"

	if err := l.AddItem(ctx, black, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := l.AddItem(ctx, white, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if l.Len() != 2 {
		t.Errorf("Expected 2 lines, got %d", l.Len())
	}
}

func TestAddItemIgnoresNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, kvstore.NewMemory())

	for _, qty := range []int{0, -1} {
		if err := l.AddItem(ctx, headphones(), qty); err != nil {
			t.Fatalf("AddItem(%d): %v", qty, err)
		}
	}

	if l.Len() != 0 {
		t.Errorf("Expected empty cart, got %d lines", l.Len())
	}
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, kvstore.NewMemory())
	item := headphones()

	if err := l.AddItem(ctx, item, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := l.SetQuantity(ctx, item.Key(), 5); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if got := l.TotalQuantity(); got != 5 {
		t.Errorf("Expected quantity 5, got %d", got)
	}

	if err := l.SetQuantity(ctx, item.Key(), 0); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Expected line removed, got %d lines", l.Len())
	}

	if err := l.SetQuantity(ctx, models.LineKey{ID: "missing"}, 2); err != nil {
		t.Errorf("Expected unknown key to be a no-op, got %v", err)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, kvstore.NewMemory())
	item := headphones()

	if err := l.AddItem(ctx, item, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := l.RemoveItem(ctx, item.Key()); err != nil {
			t.Fatalf("RemoveItem #%d: %v", i+1, err)
		}
	}
	if l.Len() != 0 {
		t.Errorf("Expected empty cart, got %d lines", l.Len())
	}
}

func TestMutationsArePersistedWithCount(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	l := openLedger(t, kv)

	if err := l.AddItem(ctx, headphones(), 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if v, _, _ := kv.Get(ctx, kvstore.KeyCartCount); v != "2" {
		t.Errorf("Expected stored cartCount 2, got %q", v)
	}

	reopened := openLedger(t, kv)
	if got := reopened.TotalQuantity(); got != 2 {
		t.Errorf("Expected reopened quantity 2, got %d", got)
	}

	if err := reopened.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, kvstore.KeyCartItems); ok {
		t.Error("Expected cartItems removed after Clear")
	}
	if v, _, _ := kv.Get(ctx, kvstore.KeyCartCount); v != "0" {
		t.Errorf("Expected stored cartCount 0, got %q", v)
	}
}

func TestOpenNormalizesStoredCart(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()

	stored := []models.CartLineItem{headphones(), headphones(), headphones()}
	stored[0].Quantity = 1
	stored[1].Quantity = 2
	stored[2].Quantity = 0
	raw, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := kv.Set(ctx, kvstore.KeyCartItems, string(raw)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	l := openLedger(t, kv)
	if l.Len() != 1 {
		t.Fatalf("Expected 1 merged line, got %d", l.Len())
	}
	if got := l.TotalQuantity(); got != 3 {
		t.Errorf("Expected quantity 3, got %d", got)
	}
	if v, _, _ := kv.Get(ctx, kvstore.KeyCartCount); v != "3" {
		t.Errorf("Expected repaired cartCount 3, got %q", v)
	}
}

type failingRepo struct{}

func (failingRepo) LoadCart(context.Context) ([]models.CartLineItem, error) { return nil, nil }
func (failingRepo) SaveCart(context.Context, []models.CartLineItem) error {
	return errors.New("disk full")
}
func (failingRepo) ClearCart(context.Context) error { return nil }

func TestFailedWriteLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, failingRepo{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := l.AddItem(ctx, headphones(), 1); err == nil {
		t.Fatal("Expected AddItem to fail")
	}
	if l.Len() != 0 {
		t.Errorf("Expected in-memory cart untouched, got %d lines", l.Len())
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t, kvstore.NewMemory())

	if err := l.AddItem(ctx, headphones(), 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	items := l.Items()
	items[0].Quantity = 99

	if got := l.TotalQuantity(); got != 1 {
		t.Errorf("Expected ledger unaffected by caller mutation, got %d", got)
	}
}

func TestRandomSequencesKeepLedgerConsistent(t *testing.T) {
	keys := []models.LineKey{
		{ID: "1"},
		{ID: "1", Variant: "black"},
		{ID: "2", Variant: "blue", Size: "l"},
		{ID: "2", Variant: "blue", Size: "m"},
		{ID: "3"},
	}

	tests := []struct {
		seed  int64
		steps int
	}{
		{seed: 1, steps: 200},
		{seed: 7, steps: 200},
		{seed: 42, steps: 500},
	}

	for _, tt := range tests {
		t.Run(strconv.FormatInt(tt.seed, 10), func(t *testing.T) {
			ctx := context.Background()
			rng := rand.New(rand.NewSource(tt.seed))
			kv := kvstore.NewMemory()
			l := openLedger(t, kv)
			want := map[models.LineKey]int{}

			for step := 0; step < tt.steps; step++ {
				key := keys[rng.Intn(len(keys))]
				qty := rng.Intn(7) - 1

				var err error
				switch rng.Intn(3) {
				case 0:
					item := models.CartLineItem{ID: key.ID, Variant: key.Variant, Size: key.Size, Color: key.Color, Price: decimal.NewFromInt(10)}
					err = l.AddItem(ctx, item, qty)
					if qty > 0 {
						want[key] += qty
					}
				case 1:
					err = l.SetQuantity(ctx, key, qty)
					if qty <= 0 {
						delete(want, key)
					} else if _, ok := want[key]; ok {
						want[key] = qty
					}
				default:
					err = l.RemoveItem(ctx, key)
					delete(want, key)
				}
				if err != nil {
					t.Fatalf("step %d: %v", step, err)
				}

				items := l.Items()
				seen := map[models.LineKey]bool{}
				sum := 0
				for _, it := range items {
					if seen[it.Key()] {
						t.Fatalf("step %d: duplicate line %+v", step, it.Key())
					}
					seen[it.Key()] = true
					if it.Quantity < 1 {
						t.Fatalf("step %d: line %+v has quantity %d", step, it.Key(), it.Quantity)
					}
					if it.Quantity != want[it.Key()] {
						t.Fatalf("step %d: line %+v has quantity %d, expected %d", step, it.Key(), it.Quantity, want[it.Key()])
					}
					sum += it.Quantity
				}
				if len(items) != len(want) {
					t.Fatalf("step %d: expected %d lines, got %d", step, len(want), len(items))
				}
				if got := l.TotalQuantity(); got != sum {
					t.Fatalf("step %d: total quantity %d, lines sum to %d", step, got, sum)
				}
			}

			count, _, _ := kv.Get(ctx, kvstore.KeyCartCount)
			if count != strconv.Itoa(l.TotalQuantity()) {
				t.Errorf("Expected persisted count %d, got %q", l.TotalQuantity(), count)
			}
			if reopened := openLedger(t, kv); reopened.TotalQuantity() != l.TotalQuantity() || reopened.Len() != l.Len() {
				t.Errorf("Reopened ledger differs: %d lines/%d items, want %d/%d",
					reopened.Len(), reopened.TotalQuantity(), l.Len(), l.TotalQuantity())
			}
		})
	}
}
