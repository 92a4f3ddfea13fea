package database

import (
	"context"

	"OdontoSystem/config"
)

// Open builds the Store selected by cfg. With the postgres driver the schema
// is migrated first when DB_AUTO_MIGRATE is set.
func Open(ctx context.Context, cfg config.StoreConfig, verbose bool) (Store, error) {
	if cfg.StoreDriver == config.StoreDriverREST {
		return NewRESTStore(RESTConfig{
			BaseURL: cfg.SupabaseURL,
			APIKey:  cfg.SupabaseKey,
			Timeout: cfg.StoreTimeout,
		})
	}

	db, err := InitDB(ctx, cfg.DBURL, verbose)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}
	return NewGormStore(db, cfg.StoreTimeout), nil
}
