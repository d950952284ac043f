package store

import (
	"context"
	"database/sql"
	"fmt"

	"resdesk/internal/model"
)

// CreateResourceType creates a new resource type.
func CreateResourceType(ctx context.Context, db *sql.DB, name, description string) (*model.ResourceType, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO resource_types (name, description) VALUES (?, ?)`,
		name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource type: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting resource type id: %w", err)
	}

	return GetResourceType(ctx, db, id)
}

// GetResourceType returns a resource type by ID.
func GetResourceType(ctx context.Context, db *sql.DB, id int64) (*model.ResourceType, error) {
	t := &model.ResourceType{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, deleted_at
		 FROM resource_types WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &description, &t.CreatedAt, &t.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting resource type: %w", err)
	}
	t.Description = description.String
	return t, nil
}

// ListResourceTypes returns all non-deleted resource types.
func ListResourceTypes(ctx context.Context, db *sql.DB) ([]model.ResourceType, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, created_at, deleted_at
		 FROM resource_types WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing resource types: %w", err)
	}
	defer rows.Close()

	var types []model.ResourceType
	for rows.Next() {
		var t model.ResourceType
		var description sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &description, &t.CreatedAt, &t.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning resource type: %w", err)
		}
		t.Description = description.String
		types = append(types, t)
	}
	return types, rows.Err()
}

// UpdateResourceType updates a resource type.
func UpdateResourceType(ctx context.Context, db *sql.DB, id int64, name, description string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE resource_types SET name = ?, description = ? WHERE id = ? AND deleted_at IS NULL`,
		name, description, id,
	)
	if err != nil {
		return fmt.Errorf("updating resource type: %w", err)
	}
	return nil
}

// DeleteResourceType soft-deletes a resource type. Fails while any non-deleted
// resource still references it.
func DeleteResourceType(ctx context.Context, db *sql.DB, id int64) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resources WHERE resource_type_id = ? AND deleted_at IS NULL`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking resource type references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete resource type: still referenced by %d resources", count)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE resource_types SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting resource type: %w", err)
	}
	return nil
}
