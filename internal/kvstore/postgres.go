package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/go-storefront/internal/database"
)

// Postgres stores entries in kv_entries, one row per (namespace, key).
// Schema lives in migrations/001_kv_entries.up.sql.
type Postgres struct {
	db        *sql.DB
	namespace string
}

func NewPostgres(db *sql.DB, namespace string) *Postgres {
	return &Postgres{db: db, namespace: namespace}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`,
		p.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get entry %s: %w", key, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return database.WithRetry(ctx, p.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		return p.upsert(ctx, tx, key, value)
	})
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	_, err := p.db.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE namespace = $1 AND key = $2`,
		p.namespace, key)
	if err != nil {
		return fmt.Errorf("remove entry %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) SetMany(ctx context.Context, entries map[string]string) error {
	for k := range entries {
		if k == "" {
			return ErrEmptyKey
		}
	}

	return database.WithRetry(ctx, p.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		for k, v := range entries {
			if v == "" {
				if _, err := tx.ExecContext(ctx,
					`DELETE FROM kv_entries WHERE namespace = $1 AND key = $2`,
					p.namespace, k); err != nil {
					return fmt.Errorf("remove entry %s: %w", k, err)
				}
				continue
			}

			if err := p.upsert(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) upsert(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO kv_entries (namespace, key, value, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (namespace, key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		p.namespace, key, value)
	if err != nil {
		return fmt.Errorf("upsert entry %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
