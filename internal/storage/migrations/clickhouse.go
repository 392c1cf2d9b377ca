package migrations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pokelaunch/internal/observability"
	chstore "pokelaunch/internal/storage/clickhouse"
)

// RunClickhouseMigrations creates the database named in dsn, applies the
// embedded ClickHouse migrations and checks ClickhouseTables. It returns a
// connection to that database for the snapshot store.
func RunClickhouseMigrations(ctx context.Context, dsn string) (*chstore.Conn, error) {
	migs, err := Clickhouse()
	if err != nil {
		return nil, err
	}
	dbName, err := databaseFromDSN(dsn)
	if err != nil {
		return nil, err
	}

	if err := createDatabase(ctx, dsn, dbName); err != nil {
		return nil, err
	}

	conn, err := chstore.NewConnWithDatabase(ctx, dsn, dbName)
	if err != nil {
		return nil, fmt.Errorf("connect clickhouse %s: %w", dbName, err)
	}

	start := time.Now()
	err = applyClickhouse(ctx, conn, migs)
	observability.RecordDBQuery("clickhouse", "migrate", time.Since(start).Seconds(), err)
	if err == nil {
		err = checkClickhouseTables(ctx, conn)
	}
	if err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func createDatabase(ctx context.Context, dsn, dbName string) error {
	admin, err := chstore.NewConnWithDatabase(ctx, dsn, "")
	if err != nil {
		return fmt.Errorf("connect clickhouse admin: %w", err)
	}
	err = admin.Exec(ctx, "CREATE DATABASE IF NOT EXISTS "+quoteIdent(dbName))
	if err != nil {
		err = fmt.Errorf("create database %s: %w", dbName, err)
	}
	return errors.Join(err, admin.Close())
}

func applyClickhouse(ctx context.Context, conn *chstore.Conn, migs []Migration) error {
	for _, m := range migs {
		for i, stmt := range m.Statements {
			if err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply %s statement %d: %w", m.Name, i+1, err)
			}
		}
	}
	return nil
}

func checkClickhouseTables(ctx context.Context, conn *chstore.Conn) error {
	missing, err := conn.MissingTables(ctx, ClickhouseTables)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingTables, strings.Join(missing, ", "))
	}
	return nil
}

// databaseFromDSN returns the database the snapshot store should live in.
// The default database is refused so history never lands there by accident.
func databaseFromDSN(dsn string) (string, error) {
	opts, err := chstore.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	switch opts.Auth.Database {
	case "":
		return "", errors.New("clickhouse dsn missing database")
	case "default":
		return "", errors.New("clickhouse dsn must name a database other than default")
	}
	return opts.Auth.Database, nil
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
