package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/safar/go-storefront/internal/kvstore"
	"github.com/safar/go-storefront/internal/models"
)

func TestReconcileCartCount(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		seed       map[string]string
		wantRepair bool
		wantCount  string
	}{
		{
			name:       "consistent",
			seed:       map[string]string{kvstore.KeyCartItems: `[{"id":1,"quantity":2}]`, kvstore.KeyCartCount: "2"},
			wantRepair: false,
			wantCount:  "2",
		},
		{
			name:       "stale count",
			seed:       map[string]string{kvstore.KeyCartItems: `[{"id":1,"quantity":2},{"id":"abc","quantity":1}]`, kvstore.KeyCartCount: "7"},
			wantRepair: true,
			wantCount:  "3",
		},
		{
			name:       "unparsable count",
			seed:       map[string]string{kvstore.KeyCartItems: `[{"id":1,"quantity":1}]`, kvstore.KeyCartCount: "many"},
			wantRepair: true,
			wantCount:  "1",
		},
		{
			name:       "count without items",
			seed:       map[string]string{kvstore.KeyCartCount: "4"},
			wantRepair: true,
			wantCount:  "0",
		},
		{
			name:       "fresh device",
			seed:       map[string]string{},
			wantRepair: false,
			wantCount:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := kvstore.NewMemory()
			if len(tt.seed) > 0 {
				if err := kv.SetMany(ctx, tt.seed); err != nil {
					t.Fatalf("SetMany: %v", err)
				}
			}

			repaired, err := New(kv).ReconcileCartCount(ctx)
			if err != nil {
				t.Fatalf("ReconcileCartCount: %v", err)
			}
			if repaired != tt.wantRepair {
				t.Errorf("Expected repaired=%v, got %v", tt.wantRepair, repaired)
			}
			if v, _, _ := kv.Get(ctx, kvstore.KeyCartCount); v != tt.wantCount {
				t.Errorf("Expected cartCount %q, got %q", tt.wantCount, v)
			}
		})
	}
}

func TestCorruptCartIsReported(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	if err := kv.Set(ctx, kvstore.KeyCartItems, "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, err := New(kv).LoadCart(ctx); !errors.Is(err, ErrCorruptRecord) {
		t.Errorf("Expected ErrCorruptRecord, got %v", err)
	}
}

func TestLoadWishlistMergesLegacyKey(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	err := kv.SetMany(ctx, map[string]string{
		kvstore.KeyWishlistItems: `[{"id":1,"name":"Headphones","price":"79.99","inStock":true}]`,
		kvstore.KeyWishlist:      `[1, {"id":2,"name":"Watch","price":"199.99","inStock":true}, "7"]`,
	})
	if err != nil {
		t.Fatalf("SetMany: %v", err)
	}

	repo := New(kv)
	entries, err := repo.LoadWishlist(ctx)
	if err != nil {
		t.Fatalf("LoadWishlist: %v", err)
	}

	want := []models.ProductID{"1", "2", "7"}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(entries))
	}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("Entry %d: expected id %s, got %s", i, id, entries[i].ID)
		}
	}

	if err := repo.SaveWishlist(ctx, entries); err != nil {
		t.Fatalf("SaveWishlist: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, kvstore.KeyWishlist); ok {
		t.Error("Expected legacy wishlist key retired after save")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemory()
	repo := New(kv)

	if err := repo.SetGuestMode(ctx, true); err != nil {
		t.Fatalf("SetGuestMode: %v", err)
	}

	err := repo.SaveSession(ctx, SessionRecord{
		Token: "tok",
		Email: "admin@example.com",
		User:  &models.User{ID: "u1", FirstName: "Admin", Email: "admin@example.com"},
	})
	if err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	s, err := repo.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if !s.IsAuthenticated || s.Email != "admin@example.com" || s.Token != "tok" {
		t.Errorf("Unexpected session: %+v", s)
	}
	if s.GuestMode {
		t.Error("Expected sign-in to end guest mode")
	}
	if s.User == nil || s.User.FirstName != "Admin" {
		t.Errorf("Expected stored user, got %+v", s.User)
	}

	if err := repo.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}

	authed, err := repo.IsAuthenticated(ctx)
	if err != nil {
		t.Fatalf("IsAuthenticated: %v", err)
	}
	if authed {
		t.Error("Expected signed out")
	}
	if v, _, _ := kv.Get(ctx, kvstore.KeyUserEmail); v != "admin@example.com" {
		t.Errorf("Expected email kept after logout, got %q", v)
	}
}

func TestAppendOrderIgnoresDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := New(kvstore.NewMemory())
	order := models.Order{ID: "o1", OrderNumber: "ORD-1", Totals: models.Totals{Total: decimal.NewFromInt(10)}}

	for i := 0; i < 2; i++ {
		if err := repo.AppendOrder(ctx, order); err != nil {
			t.Fatalf("AppendOrder #%d: %v", i+1, err)
		}
	}

	orders, err := repo.LoadOrders(ctx)
	if err != nil {
		t.Fatalf("LoadOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("Expected 1 order, got %d", len(orders))
	}
}

func TestPaginate(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name       string
		page, size int
		wantItems  []int
		wantPages  int
	}{
		{"first page", 1, 2, []int{1, 2}, 3},
		{"last partial page", 3, 2, []int{5}, 3},
		{"past the end", 9, 2, []int{}, 3},
		{"defaults", 0, 0, []int{1, 2, 3, 4, 5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(all, tt.page, tt.size)
			if got.Items == nil {
				t.Fatal("Expected non-nil items")
			}
			if len(got.Items) != len(tt.wantItems) {
				t.Fatalf("Expected %v, got %v", tt.wantItems, got.Items)
			}
			for i := range tt.wantItems {
				if got.Items[i] != tt.wantItems[i] {
					t.Errorf("Expected %v, got %v", tt.wantItems, got.Items)
					break
				}
			}
			if got.TotalPages != tt.wantPages {
				t.Errorf("Expected %d pages, got %d", tt.wantPages, got.TotalPages)
			}
			if got.Total != 5 {
				t.Errorf("Expected total 5, got %d", got.Total)
			}
		})
	}
}
