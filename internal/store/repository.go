// Package store is the typed repository over the key-value substrate. Each
// logical record (cart, session, wishlist, addresses, orders) gets explicit
// load/save/clear methods so no caller touches raw keys.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/safar/go-storefront/internal/kvstore"
)

var ErrCorruptRecord = errors.New("corrupt record")

type Repository struct {
	kv kvstore.Store
}

func New(kv kvstore.Store) *Repository {
	return &Repository{kv: kv}
}

// getJSON decodes key into dst. It reports false when the key is absent.
func (r *Repository) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, key, err)
	}
	return true, nil
}

func (r *Repository) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r *Repository) getFlag(ctx context.Context, key string) (bool, error) {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	return ok && raw == "true", nil
}

// setFlag writes "true" or removes the key; absence means false.
func (r *Repository) setFlag(ctx context.Context, key string, on bool) error {
	var err error
	if on {
		err = r.kv.Set(ctx, key, "true")
	} else {
		err = r.kv.Remove(ctx, key)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
