package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pokelaunch/internal/config"
	"pokelaunch/internal/storage"
	chstore "pokelaunch/internal/storage/clickhouse"
	"pokelaunch/internal/storage/memory"
	"pokelaunch/internal/storage/migrations"
	pgstore "pokelaunch/internal/storage/postgres"
)

// allStores holds the storage implementations.
type allStores struct {
	tokens    storage.TokenStore
	templates storage.TemplateStore
	snapshots storage.MarketSnapshotStore // nil without ClickHouse
}

// createStores connects the configured stores. With migrate set the
// embedded migrations run first.
func createStores(ctx context.Context, cfg *config.Config, migrate bool, log *zap.Logger) (*allStores, func(), error) {
	if cfg.Storage.UseMemory {
		log.Info("using in-memory storage")
		return &allStores{
			tokens:    memory.NewTokenStore(),
			templates: memory.NewTemplateStore(),
			snapshots: memory.NewMarketSnapshotStore(),
		}, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
	}

	stores := &allStores{
		tokens:    pgstore.NewTokenStore(pool),
		templates: pgstore.NewTemplateStore(pool),
	}
	cleanup := pool.Close

	// ClickHouse (optional market history)
	if cfg.Storage.ClickHouseDSN != "" {
		var chConn *chstore.Conn
		if migrate {
			chConn, err = migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickHouseDSN)
		} else {
			chConn, err = chstore.NewConn(ctx, cfg.Storage.ClickHouseDSN)
		}
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		stores.snapshots = chstore.NewMarketSnapshotStore(chConn)
		cleanup = func() {
			chConn.Close()
			pool.Close()
		}
	} else {
		log.Info("clickhouse not configured, market history disabled")
	}

	return stores, cleanup, nil
}
