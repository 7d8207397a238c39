package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/safar/go-storefront/internal/kvstore"
	"github.com/safar/go-storefront/internal/models"
)

// LoadWishlist reads wishlistItems and folds in anything still under the
// legacy wishlist key (written by the cart's save-for-later), which may hold
// full entries or bare ids.
func (r *Repository) LoadWishlist(ctx context.Context) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	if _, err := r.getJSON(ctx, kvstore.KeyWishlistItems, &entries); err != nil {
		return nil, err
	}

	var legacy []json.RawMessage
	if _, err := r.getJSON(ctx, kvstore.KeyWishlist, &legacy); err != nil {
		return nil, err
	}

	seen := make(map[models.ProductID]bool, len(entries))
	for _, e := range entries {
		seen[e.ID] = true
	}

	for _, raw := range legacy {
		entry, err := decodeLegacyWishlistEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, kvstore.KeyWishlist, err)
		}
		if entry.ID == "" || seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true
		entries = append(entries, entry)
	}

	return entries, nil
}

// SaveWishlist writes the canonical key and retires the legacy one.
func (r *Repository) SaveWishlist(ctx context.Context, entries []models.WishlistEntry) error {
	if entries == nil {
		entries = []models.WishlistEntry{}
	}

	raw, err := marshalString(entries)
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}

	err = r.kv.SetMany(ctx, map[string]string{
		kvstore.KeyWishlistItems: raw,
		kvstore.KeyWishlist:      "",
	})
	if err != nil {
		return fmt.Errorf("save wishlist: %w", err)
	}
	return nil
}

func decodeLegacyWishlistEntry(raw json.RawMessage) (models.WishlistEntry, error) {
	var entry models.WishlistEntry
	if len(raw) > 0 && raw[0] == '{' {
		err := json.Unmarshal(raw, &entry)
		return entry, err
	}

	var id models.ProductID
	if err := json.Unmarshal(raw, &id); err != nil {
		return entry, err
	}
	entry.ID = id
	return entry, nil
}

func marshalString(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
