package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"resdesk/internal/model"
)

// CreateResource creates a new resource pool. Every provisioned unit starts
// out available.
func CreateResource(ctx context.Context, db *sql.DB, name string, typeID int64, description string, purchaseDate time.Time, totalUnits int) (*model.Resource, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO resources (name, resource_type_id, description, purchase_date, total_units, available_units)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, typeID, description, purchaseDate, totalUnits, totalUnits,
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting resource id: %w", err)
	}

	return GetResource(ctx, db, id)
}

// GetResource returns a resource by ID with its type name joined.
func GetResource(ctx context.Context, db *sql.DB, id int64) (*model.Resource, error) {
	r := &model.Resource{}
	var description, imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT r.id, r.name, r.resource_type_id, r.description, r.image_mime,
		        r.purchase_date, r.total_units, r.available_units, r.maintenance,
		        r.created_at, r.updated_at, r.deleted_at, t.name AS type_name
		 FROM resources r
		 JOIN resource_types t ON t.id = r.resource_type_id
		 WHERE r.id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.ResourceTypeID, &description, &imageMime,
		&r.PurchaseDate, &r.TotalUnits, &r.AvailableUnits, &r.Maintenance,
		&r.CreatedAt, &r.UpdatedAt, &r.DeletedAt, &r.TypeName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting resource: %w", err)
	}
	r.Description = description.String
	r.ImageMime = imageMime.String
	r.Status = model.ResourceStatus(r.AvailableUnits, r.Maintenance)
	return r, nil
}

// ListResources returns all non-deleted resources with type names, newest
// first. When onlyAvailable is set, pools with no free units or under
// maintenance are skipped.
func ListResources(ctx context.Context, db *sql.DB, onlyAvailable bool) ([]model.Resource, error) {
	query := `SELECT r.id, r.name, r.resource_type_id, r.description, r.image_mime,
	                 r.purchase_date, r.total_units, r.available_units, r.maintenance,
	                 r.created_at, r.updated_at, r.deleted_at, t.name AS type_name
	          FROM resources r
	          JOIN resource_types t ON t.id = r.resource_type_id
	          WHERE r.deleted_at IS NULL`
	if onlyAvailable {
		query += ` AND r.maintenance = 0 AND r.available_units > 0`
	}
	query += ` ORDER BY r.created_at DESC, r.id DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		var r model.Resource
		var description, imageMime sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &r.ResourceTypeID, &description, &imageMime,
			&r.PurchaseDate, &r.TotalUnits, &r.AvailableUnits, &r.Maintenance,
			&r.CreatedAt, &r.UpdatedAt, &r.DeletedAt, &r.TypeName); err != nil {
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		r.Description = description.String
		r.ImageMime = imageMime.String
		r.Status = model.ResourceStatus(r.AvailableUnits, r.Maintenance)
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

// UpdateResource updates a resource's metadata. Unit counts are owned by the
// inventory guard and are deliberately not touched here.
func UpdateResource(ctx context.Context, db *sql.DB, id int64, name string, typeID int64, description string, purchaseDate time.Time) error {
	_, err := db.ExecContext(ctx,
		`UPDATE resources
		 SET name = ?, resource_type_id = ?, description = ?, purchase_date = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, typeID, description, purchaseDate, id,
	)
	if err != nil {
		return fmt.Errorf("updating resource: %w", err)
	}
	return nil
}

// SetResourceImage sets a resource's image data.
func SetResourceImage(ctx context.Context, db *sql.DB, id int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE resources SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting resource image: %w", err)
	}
	return nil
}

// GetResourceImage returns a resource's image data and MIME type.
func GetResourceImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM resources WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting resource image: %w", err)
	}
	return image, mime.String, nil
}
