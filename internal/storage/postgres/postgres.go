// Package postgres holds the PostgreSQL system of record for tokens and
// card templates.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pokelaunch/internal/observability"
	"pokelaunch/internal/storage"
)

const (
	metricsLabel    = "postgres"
	applicationName = "pokelaunch"
)

// SQLSTATE codes that map onto storage sentinels.
const (
	codeNotNullViolation = "23502"
	codeUniqueViolation  = "23505"
	codeCheckViolation   = "23514"
	codeInvalidText      = "22P02"
)

// Pool is the shared pgx pool. Stores pass every statement through observe,
// which times it under an operation name and maps its error onto the
// storage sentinels.
type Pool struct {
	*pgxpool.Pool
}

// NewPool connects to dsn and pings the server. The connection reports
// itself as "pokelaunch" unless the DSN sets application_name.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if _, ok := config.ConnConfig.RuntimeParams["application_name"]; !ok {
		config.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	p := &Pool{Pool: pool}
	start := time.Now()
	if err := p.observe("ping", start, pool.Ping(ctx)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return p, nil
}

// Close closes the pool and zeroes its connection gauges.
func (p *Pool) Close() {
	p.Pool.Close()
	observability.SetDBPoolConns(metricsLabel, 0, 0)
}

// MissingTables returns those of tables that do not resolve in the current
// search path, sorted by name.
func (p *Pool) MissingTables(ctx context.Context, tables []string) ([]string, error) {
	start := time.Now()
	rows, err := p.Query(ctx, `
		SELECT name FROM unnest($1::text[]) AS name
		WHERE to_regclass(name) IS NULL
		ORDER BY name
	`, tables)
	var missing []string
	if err == nil {
		missing, err = pgx.CollectRows(rows, pgx.RowTo[string])
	}
	if err := p.observe("missing_tables", start, err); err != nil {
		return nil, fmt.Errorf("check tables: %w", err)
	}
	return missing, nil
}

// observe records the latency of op, refreshes the pool gauges and returns
// err translated by translateError. A missing row is an answer rather than
// a failure and is not counted as a query error.
func (p *Pool) observe(op string, start time.Time, err error) error {
	err = translateError(err)

	failed := err
	if errors.Is(err, storage.ErrNotFound) {
		failed = nil
	}
	observability.RecordDBQuery(metricsLabel, op, time.Since(start).Seconds(), failed)

	stat := p.Stat()
	observability.SetDBPoolConns(metricsLabel, stat.AcquiredConns(), stat.IdleConns())
	return err
}

// translateError maps pgx and server errors onto storage sentinels. The
// constraint or server message is kept in the wrapped text.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", storage.ErrDuplicateKey, pgErr.ConstraintName)
	case codeNotNullViolation, codeCheckViolation, codeInvalidText:
		return fmt.Errorf("%w: %s", storage.ErrInvalidInput, pgErr.Message)
	}
	return err
}
