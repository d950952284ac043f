package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Resource status is deliberately not a column: it is derived from
// available_units and the maintenance flag, so it can never drift from the
// counts. The CHECK on available_units keeps 0 <= available <= total inside
// the engine itself.
const schema = `
CREATE TABLE IF NOT EXISTS admins (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL COLLATE NOCASE,
    phone         TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_admins_email_active
    ON admins(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS employees (
    id              INTEGER PRIMARY KEY,
    name            TEXT NOT NULL,
    email           TEXT NOT NULL COLLATE NOCASE,
    position        TEXT NOT NULL DEFAULT 'Developer',
    department      TEXT NOT NULL DEFAULT 'Software Development',
    hire_date       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    profile_picture BLOB,
    picture_mime    TEXT,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at      DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_email_active
    ON employees(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS resource_types (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL COLLATE NOCASE,
    description TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at  DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_resource_types_name_active
    ON resource_types(name) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS resources (
    id               INTEGER PRIMARY KEY,
    name             TEXT NOT NULL COLLATE NOCASE,
    resource_type_id INTEGER NOT NULL REFERENCES resource_types(id),
    description      TEXT,
    image            BLOB,
    image_mime       TEXT,
    purchase_date    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    total_units      INTEGER NOT NULL CHECK (total_units >= 0),
    available_units  INTEGER NOT NULL CHECK (available_units >= 0 AND available_units <= total_units),
    maintenance      INTEGER NOT NULL DEFAULT 0,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at       DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_resources_name_active
    ON resources(name) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS allocations (
    id             INTEGER PRIMARY KEY,
    employee_id    INTEGER NOT NULL REFERENCES employees(id),
    resource_id    INTEGER NOT NULL REFERENCES resources(id),
    allocated_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    return_date    DATETIME,
    status         TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'returned')),
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_allocations_employee ON allocations(employee_id, status);
CREATE INDEX IF NOT EXISTS idx_allocations_resource ON allocations(resource_id, status);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
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
