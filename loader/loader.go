// Package loader applies the sqlite schema and seeds the code sequences.
package loader

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"simas/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    sku           TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL,
    category      TEXT NOT NULL DEFAULT '',
    stock         INTEGER NOT NULL DEFAULT 0,
    min_stock     INTEGER NOT NULL DEFAULT 0,
    max_stock     INTEGER NOT NULL DEFAULT 0,
    stock_status  TEXT NOT NULL DEFAULT '',
    unit_price    REAL NOT NULL DEFAULT 0,
    location      TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stock_movements (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    product_id    INTEGER NOT NULL REFERENCES products(id),
    delta         INTEGER NOT NULL,
    reason        TEXT NOT NULL DEFAULT '',
    reference_no  TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements(product_id, created_at);

CREATE TABLE IF NOT EXISTS psb_orders (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    order_no      TEXT NOT NULL UNIQUE,
    customer_name TEXT NOT NULL,
    address       TEXT NOT NULL DEFAULT '',
    cluster       TEXT NOT NULL DEFAULT '',
    sto           TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT 'pending',
    technician    TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL,
    completed_at  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_psb_orders_status ON psb_orders(status);

CREATE TABLE IF NOT EXISTS code_sequences (
    name     TEXT PRIMARY KEY,
    last_no  INTEGER NOT NULL DEFAULT 0
);
`

// InitDatabase applies the schema and makes sure every sequence row exists.
func InitDatabase(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	for _, name := range []string{database.SeqPSBOrder} {
		if _, err := db.Exec(`INSERT OR IGNORE INTO code_sequences (name, last_no) VALUES (?, 0)`, name); err != nil {
			return fmt.Errorf("failed to seed sequence %s: %w", name, err)
		}
	}
	return nil
}
