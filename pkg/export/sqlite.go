package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/symserve/pkg/symbol"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS symbols (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,
    file TEXT NOT NULL,
    line INTEGER NOT NULL,
    context TEXT,
    language TEXT
);

CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file);
`

func openSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// WriteSQLite replaces the contents of the database at path with symbols.
func (e *Exporter) WriteSQLite(ctx context.Context, path string, symbols []symbol.Symbol) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM symbols"); err != nil {
		return fmt.Errorf("clearing symbols: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO symbols (name, kind, file, line, context, language) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range symbols {
		if _, err := stmt.ExecContext(ctx, s.Name, s.Kind.String(), s.File, s.Line, s.Context, e.registry.Language(s.File)); err != nil {
			return fmt.Errorf("inserting %s: %w", s.Name, err)
		}
	}

	meta := e.meta(len(symbols))
	for k, v := range map[string]string{
		"version":       meta.Version,
		"generator":     meta.Generator,
		"project":       meta.Project,
		"timestamp":     meta.Timestamp.Format(time.RFC3339),
		"total_symbols": fmt.Sprint(meta.TotalSymbols),
	} {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", k, v); err != nil {
			return fmt.Errorf("writing metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// LoadSQLite reads symbols written by WriteSQLite in their stored order.
// Unknown kind names load as symbol.Unknown.
func LoadSQLite(ctx context.Context, path string) ([]symbol.Symbol, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT name, kind, file, line, context FROM symbols ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying symbols: %w", err)
	}
	defer rows.Close()

	var out []symbol.Symbol
	for rows.Next() {
		var (
			s       symbol.Symbol
			kind    string
			snippet sql.NullString
		)
		if err := rows.Scan(&s.Name, &kind, &s.File, &s.Line, &snippet); err != nil {
			return nil, fmt.Errorf("scanning symbol: %w", err)
		}
		s.Kind, _ = symbol.ParseKind(kind)
		s.Context = snippet.String
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading symbols: %w", err)
	}
	return out, nil
}
