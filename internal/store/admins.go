package store

import (
	"context"
	"database/sql"
	"fmt"

	"resdesk/internal/model"
)

// CreateAdmin creates a new back-office account.
func CreateAdmin(ctx context.Context, db *sql.DB, name, email, phone, passwordHash, role string) (*model.Admin, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO admins (name, email, phone, password_hash, role) VALUES (?, ?, ?, ?, ?)`,
		name, email, phone, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating admin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting admin id: %w", err)
	}

	return GetAdmin(ctx, db, id)
}

// GetAdmin returns an admin by ID.
func GetAdmin(ctx context.Context, db *sql.DB, id int64) (*model.Admin, error) {
	a := &model.Admin{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, password_hash, role, created_at, deleted_at
		 FROM admins WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin: %w", err)
	}
	return a, nil
}

// GetAdminByEmail returns an admin by email, excluding soft-deleted accounts.
// The email column is NOCASE, so lookups are case-insensitive.
func GetAdminByEmail(ctx context.Context, db *sql.DB, email string) (*model.Admin, error) {
	a := &model.Admin{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, password_hash, role, created_at, deleted_at
		 FROM admins WHERE email = ? AND deleted_at IS NULL`, email,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin by email: %w", err)
	}
	return a, nil
}

// ListAdmins returns all non-deleted admins.
func ListAdmins(ctx context.Context, db *sql.DB) ([]model.Admin, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, email, phone, password_hash, role, created_at, deleted_at
		 FROM admins WHERE deleted_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning admin: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// UpdateAdmin updates an admin's details and role.
func UpdateAdmin(ctx context.Context, db *sql.DB, id int64, name, phone, role string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE admins SET name = ?, phone = ?, role = ? WHERE id = ? AND deleted_at IS NULL`,
		name, phone, role, id,
	)
	if err != nil {
		return fmt.Errorf("updating admin: %w", err)
	}
	return nil
}

// UpdateAdminPassword updates an admin's password hash.
func UpdateAdminPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE admins SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating admin password: %w", err)
	}
	return nil
}

// DeleteAdmin soft-deletes an admin.
func DeleteAdmin(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE admins SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting admin: %w", err)
	}
	return nil
}
