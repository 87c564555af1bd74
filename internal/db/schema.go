package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Dates are stored as text in the
// formats the inventory client parses.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name ON categories(name);

CREATE TABLE IF NOT EXISTS employees (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    department TEXT
);

CREATE TABLE IF NOT EXISTS tools (
    id               INTEGER PRIMARY KEY,
    name             TEXT NOT NULL,
    category_id      INTEGER REFERENCES categories(id),
    loc_row          TEXT,
    loc_col          TEXT,
    loc_shelf        TEXT,
    description      TEXT,
    date_ajout       TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    purchase_date    TEXT,
    last_maintenance TEXT,
    last_checked_out TEXT,
    price            REAL,
    status           TEXT NOT NULL DEFAULT 'Disponible',
    photo            BLOB,
    photo_name       TEXT,
    photo_mime       TEXT
);

CREATE TABLE IF NOT EXISTS movements (
    id              INTEGER PRIMARY KEY,
    tool_id         INTEGER NOT NULL REFERENCES tools(id),
    employee_id     INTEGER NOT NULL REFERENCES employees(id),
    date_emprunt    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expected_return TEXT,
    return_date     TEXT,
    status          TEXT NOT NULL DEFAULT 'Checked Out'
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
