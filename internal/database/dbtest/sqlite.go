// Package dbtest opens throwaway in-memory databases for repository tests.
// The schema mirrors migrations/ in sqlite's dialect.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE stores (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    address     TEXT,
    created_at  TIMESTAMP NOT NULL
);

CREATE TABLE categories (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    sort_order  INT NOT NULL DEFAULT 0,
    created_at  TIMESTAMP NOT NULL
);

CREATE TABLE products (
    id               TEXT PRIMARY KEY,
    category_id      TEXT REFERENCES categories (id) ON DELETE SET NULL,
    name             TEXT NOT NULL,
    suggested_price  NUMERIC,
    member_price     NUMERIC,
    created_at       TIMESTAMP NOT NULL,
    updated_at       TIMESTAMP NOT NULL
);

CREATE TABLE store_inventory (
    id           TEXT PRIMARY KEY,
    store_id     TEXT NOT NULL REFERENCES stores (id) ON DELETE CASCADE,
    product_id   TEXT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    store_price  NUMERIC,
    stock        INT,
    is_listed    BOOLEAN NOT NULL DEFAULT 1,
    updated_at   TIMESTAMP NOT NULL,
    UNIQUE (store_id, product_id)
);

CREATE TABLE inventory_movements (
    id               TEXT PRIMARY KEY,
    store_id         TEXT NOT NULL,
    product_id       TEXT NOT NULL,
    movement_type    TEXT NOT NULL,
    quantity_change  INT NOT NULL,
    quantity_before  INT NOT NULL,
    quantity_after   INT NOT NULL,
    reference_type   TEXT,
    reference_id     TEXT,
    notes            TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMP NOT NULL
);

CREATE TABLE members (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    phone       TEXT NOT NULL,
    note        TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE orders (
    id              TEXT PRIMARY KEY,
    store_id        TEXT,
    total_amount    NUMERIC NOT NULL,
    payment_method  TEXT NOT NULL,
    member_id       TEXT REFERENCES members (id) ON DELETE SET NULL,
    discount        TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMP NOT NULL
);

CREATE TABLE order_items (
    id          TEXT PRIMARY KEY,
    order_id    TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    product_id  TEXT NOT NULL,
    name        TEXT NOT NULL,
    quantity    INT NOT NULL CHECK (quantity >= 1),
    price       NUMERIC NOT NULL CHECK (price >= 0),
    position    INT NOT NULL DEFAULT 0,
    created_at  TIMESTAMP NOT NULL
);

CREATE TABLE expenses (
    id          TEXT PRIMARY KEY,
    store_id    TEXT,
    amount      NUMERIC NOT NULL,
    reason      TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL
);
`

var seq atomic.Int64

// New returns a fresh schema-loaded database that is closed when t ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:dbtest%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", seq.Add(1))
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection keeps the in-memory database alive and serializes writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		t.Fatalf("load schema: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// MustExec runs a seed statement and fails the test on error.
func MustExec(t testing.TB, db *sqlx.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(db.Rebind(query), args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
