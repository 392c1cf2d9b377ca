package migrations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pokelaunch/internal/observability"
	"pokelaunch/internal/storage/postgres"
)

// RunPostgresMigrations applies the embedded PostgreSQL migrations in order
// and then checks that every table in PostgresTables exists. Each migration
// must be idempotent.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	migs, err := Postgres()
	if err != nil {
		return err
	}

	start := time.Now()
	err = applyPostgres(ctx, pool, migs)
	observability.RecordDBQuery("postgres", "migrate", time.Since(start).Seconds(), err)
	if err != nil {
		return err
	}

	missing, err := pool.MissingTables(ctx, PostgresTables)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingTables, strings.Join(missing, ", "))
	}
	return nil
}

func applyPostgres(ctx context.Context, pool *postgres.Pool, migs []Migration) error {
	for _, m := range migs {
		for i, stmt := range m.Statements {
			if _, err := pool.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply %s statement %d: %w", m.Name, i+1, err)
			}
		}
	}
	return nil
}
