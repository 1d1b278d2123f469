// Package sqlite is the durable store for users, carts, favorites, and
// orders.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa; cart reads happen concurrently with checkout writes. The pure-Go
// modernc driver avoids CGO, which keeps the Docker build trivial.
package sqlite

import (
	"database/sql"
	"fmt"

	// Register the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/dheras/foodcourt/internal/domain"
)

// schema is the DDL executed once on startup. Idempotent via IF NOT EXISTS.
//
// cart_lines and favorites use the surrogate id only for stable insertion
// order; the business uniqueness key is (user_id, product_id). Orders are
// append-only: rows are never updated or deleted.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    email       TEXT NOT NULL UNIQUE,
    img         TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cart_lines (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     TEXT    NOT NULL REFERENCES users(id),
    product_id  TEXT    NOT NULL,
    quantity    INTEGER NOT NULL CHECK (quantity > 0),
    UNIQUE (user_id, product_id)
);

CREATE TABLE IF NOT EXISTS favorites (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id     TEXT NOT NULL REFERENCES users(id),
    product_id  TEXT NOT NULL,
    UNIQUE (user_id, product_id)
);

CREATE TABLE IF NOT EXISTS orders (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(id),
    address       TEXT NOT NULL,
    total_amount  REAL NOT NULL,
    status        TEXT NOT NULL,
    created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at);

CREATE TABLE IF NOT EXISTS order_lines (
    order_id    TEXT    NOT NULL REFERENCES orders(id),
    position    INTEGER NOT NULL,
    product_id  TEXT    NOT NULL,
    quantity    INTEGER NOT NULL CHECK (quantity > 0),
    PRIMARY KEY (order_id, position)
);
`

// Store gives access to all storefront tables through one handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	store, err := sqlite.Open("./data/storefront.db")
func Open(path string) (*Store, error) {
	// WAL enables concurrent readers. foreign_keys=on enforces integrity.
	// busy_timeout waits for locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection; this also
	// serialises read-modify-write sequences against other writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

// unavailable wraps a low-level storage failure into the domain taxonomy
// so callers can distinguish retryable infrastructure errors.
func unavailable(err error, format string, args ...any) error {
	return domain.Unavailablef(err, "sqlite: "+format, args...)
}
