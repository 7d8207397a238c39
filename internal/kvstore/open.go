package kvstore

import (
	"context"
	"fmt"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/database"
)

// Open builds the store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return NewMemory(), nil
	case config.StoreDriverFile:
		return OpenFile(cfg.Store.FilePath)
	case config.StoreDriverRedis:
		return OpenRedis(ctx, cfg.Redis)
	case config.StoreDriverPostgres:
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewPostgres(db, cfg.Store.Namespace), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
