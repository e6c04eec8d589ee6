package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

type sqldb interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type SQLDB struct {
	*sql.DB
}

// NewSQLDB opens the sqlite file at path and prepares the products
// table. The parent directory is created when missing.
func NewSQLDB(ctx context.Context, path string) (SQLDB, error) {
	const op = "SQLDB"
	log := slog.With("op", op)

	if dir := filepath.Dir(path); dir != "." {
		err := os.MkdirAll(dir, 0o750)
		if err != nil && !errors.Is(err, os.ErrExist) {
			return SQLDB{}, fmt.Errorf("%s: failed to create dirs: %w", op, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return SQLDB{}, fmt.Errorf("%s: failed to open: %w", op, err)
	}

	s := SQLDB{db}
	if err := s.PingContext(ctx); err != nil {
		return SQLDB{}, fmt.Errorf("%s: database is unavailable: %w", op, err)
	}

	query := `
		CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			price REAL NOT NULL,
			status TEXT NOT NULL
		);
	`
	if _, err := s.ExecContext(ctx, query); err != nil {
		return SQLDB{}, fmt.Errorf("%s: failed to create products table: %w", op, err)
	}

	log.Info("database is available", "path", path)
	return s, nil
}

func (s SQLDB) Close() {
	const op = "SQLDB.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")

	if err := s.DB.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}
