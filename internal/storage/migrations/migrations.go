// Package migrations embeds the schema for the token store (PostgreSQL)
// and the market snapshot history (ClickHouse) and applies it on startup.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed postgres/*.sql clickhouse/*.sql
var files embed.FS

// Tables each backend must expose once its migrations have run.
var (
	PostgresTables   = []string{"templates", "tokens"}
	ClickhouseTables = []string{"market_snapshots"}
)

// ErrMissingTables is returned when migrations ran but an expected table
// is still absent.
var ErrMissingTables = errors.New("missing tables after migration")

// Migration is one embedded SQL file split into executable statements.
type Migration struct {
	Name       string
	Statements []string
}

// Postgres returns the PostgreSQL migrations in apply order.
func Postgres() ([]Migration, error) {
	return load(files, "postgres")
}

// Clickhouse returns the ClickHouse migrations in apply order.
func Clickhouse() ([]Migration, error) {
	return load(files, "clickhouse")
}

// load reads dir/*.sql from fsys in lexical order. Files with no
// statements are skipped.
func load(fsys fs.FS, dir string) ([]Migration, error) {
	names, err := fs.Glob(fsys, dir+"/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list %s migrations: %w", dir, err)
	}
	slices.Sort(names)

	var out []Migration
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		stmts, err := splitStatements(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse migration %s: %w", name, err)
		}
		if len(stmts) == 0 {
			continue
		}
		out = append(out, Migration{Name: path.Base(name), Statements: stmts})
	}
	return out, nil
}

// splitStatements cuts sql at semicolons that sit outside quotes and
// comments. Comments are dropped; quoted text is kept verbatim. The
// ClickHouse driver rejects multi-statement Exec, so both backends run
// statements one at a time.
func splitStatements(sql string) ([]string, error) {
	var (
		stmts []string
		cur   strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case ch == '-' && i+1 < len(sql) && sql[i+1] == '-':
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				i = len(sql)
				continue
			}
			i += end
			cur.WriteByte('\n')

		case ch == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				return nil, errors.New("unterminated block comment")
			}
			i += end + 3
			cur.WriteByte(' ')

		case ch == '\'' || ch == '"' || ch == '`':
			j, err := closingQuote(sql, i)
			if err != nil {
				return nil, err
			}
			cur.WriteString(sql[i : j+1])
			i = j

		case ch == ';':
			flush()

		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return stmts, nil
}

// closingQuote returns the index of the quote that closes the one at
// start. A doubled quote is an escaped quote.
func closingQuote(sql string, start int) (int, error) {
	q := sql[start]
	for i := start + 1; i < len(sql); i++ {
		if sql[i] != q {
			continue
		}
		if i+1 < len(sql) && sql[i+1] == q {
			i++
			continue
		}
		return i, nil
	}
	return 0, fmt.Errorf("unterminated %c quote at offset %d", q, start)
}
