package pool

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS pool_items (
	name       TEXT PRIMARY KEY,
	quantity   INTEGER NOT NULL CHECK (quantity >= 0),
	updated_at TEXT NOT NULL
);
`

// SQLiteStore persists the pool in a SQLite database, one row per item.
// Saves run in a single transaction.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path and initializes
// the schema.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

// Load reads every row.
func (s *SQLiteStore) Load(ctx context.Context) (Stock, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, quantity FROM pool_items`)
	if err != nil {
		return nil, fmt.Errorf("querying pool: %w", err)
	}
	defer rows.Close()

	stock := Stock{}
	for rows.Next() {
		var (
			name string
			qty  int
		)
		if err := rows.Scan(&name, &qty); err != nil {
			return nil, fmt.Errorf("scanning pool row: %w", err)
		}
		stock[name] = qty
	}
	return stock, rows.Err()
}

// Save upserts every item and deletes rows no longer present.
func (s *SQLiteStore) Save(ctx context.Context, stock Stock) error {
	return s.inTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := tx.QueryContext(ctx, `SELECT name FROM pool_items`)
		if err != nil {
			return fmt.Errorf("querying pool: %w", err)
		}
		var stale []string
		for existing.Next() {
			var name string
			if err := existing.Scan(&name); err != nil {
				existing.Close()
				return err
			}
			if _, ok := stock[name]; !ok {
				stale = append(stale, name)
			}
		}
		existing.Close()
		if err := existing.Err(); err != nil {
			return err
		}

		for _, name := range stale {
			if _, err := tx.ExecContext(ctx, `DELETE FROM pool_items WHERE name = ?`, name); err != nil {
				return fmt.Errorf("deleting %q: %w", name, err)
			}
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO pool_items (name, quantity, updated_at)
			VALUES (?, ?, datetime('now'))
			ON CONFLICT(name) DO UPDATE SET
				quantity = excluded.quantity,
				updated_at = excluded.updated_at
			WHERE pool_items.quantity != excluded.quantity
		`)
		if err != nil {
			return fmt.Errorf("preparing upsert: %w", err)
		}
		defer stmt.Close()

		for _, name := range stock.Items() {
			if _, err := stmt.ExecContext(ctx, name, stock[name]); err != nil {
				return fmt.Errorf("upserting %q: %w", name, err)
			}
		}
		return nil
	})
}

// inTransaction executes fn within a transaction, rolling back on error.
func (s *SQLiteStore) inTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
