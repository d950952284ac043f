package store

import (
	"context"
	"database/sql"
	"fmt"

	"resdesk/internal/model"
)

// CreateEmployee creates a new employee.
func CreateEmployee(ctx context.Context, db *sql.DB, name, email, position, department string) (*model.Employee, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO employees (name, email, position, department) VALUES (?, ?, ?, ?)`,
		name, email, position, department,
	)
	if err != nil {
		return nil, fmt.Errorf("creating employee: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting employee id: %w", err)
	}

	return GetEmployee(ctx, db, id)
}

// GetEmployee returns an employee by ID.
func GetEmployee(ctx context.Context, db *sql.DB, id int64) (*model.Employee, error) {
	e := &model.Employee{}
	var pictureMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, position, department, hire_date, picture_mime,
		        created_at, updated_at, deleted_at
		 FROM employees WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.Email, &e.Position, &e.Department, &e.HireDate,
		&pictureMime, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting employee: %w", err)
	}
	e.PictureMime = pictureMime.String
	return e, nil
}

// GetEmployeeByEmail returns an employee by email, excluding soft-deleted ones.
func GetEmployeeByEmail(ctx context.Context, db *sql.DB, email string) (*model.Employee, error) {
	e := &model.Employee{}
	var pictureMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, position, department, hire_date, picture_mime,
		        created_at, updated_at, deleted_at
		 FROM employees WHERE email = ? AND deleted_at IS NULL`, email,
	).Scan(&e.ID, &e.Name, &e.Email, &e.Position, &e.Department, &e.HireDate,
		&pictureMime, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting employee by email: %w", err)
	}
	e.PictureMime = pictureMime.String
	return e, nil
}

// ListEmployees returns all non-deleted employees, optionally filtered by
// department.
func ListEmployees(ctx context.Context, db *sql.DB, department string) ([]model.Employee, error) {
	var rows *sql.Rows
	var err error

	if department != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT id, name, email, position, department, hire_date, picture_mime,
			        created_at, updated_at, deleted_at
			 FROM employees WHERE deleted_at IS NULL AND department = ? ORDER BY name`, department,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, name, email, position, department, hire_date, picture_mime,
			        created_at, updated_at, deleted_at
			 FROM employees WHERE deleted_at IS NULL ORDER BY name`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var e model.Employee
		var pictureMime sql.NullString
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Position, &e.Department, &e.HireDate,
			&pictureMime, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		e.PictureMime = pictureMime.String
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// UpdateEmployee updates an employee's details.
func UpdateEmployee(ctx context.Context, db *sql.DB, id int64, name, email, position, department string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE employees SET name = ?, email = ?, position = ?, department = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, email, position, department, id,
	)
	if err != nil {
		return fmt.Errorf("updating employee: %w", err)
	}
	return nil
}

// SoftDeleteEmployee marks an employee as deleted. Callers must close the
// employee's open allocations first (see the alloc package).
func SoftDeleteEmployee(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE employees SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}
	return nil
}

// SetEmployeePicture sets an employee's profile picture.
func SetEmployeePicture(ctx context.Context, db *sql.DB, id int64, picture []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE employees SET profile_picture = ?, picture_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		picture, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting employee picture: %w", err)
	}
	return nil
}

// GetEmployeePicture returns an employee's profile picture and MIME type.
func GetEmployeePicture(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var picture []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT profile_picture, picture_mime FROM employees WHERE id = ?`, id,
	).Scan(&picture, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting employee picture: %w", err)
	}
	return picture, mime.String, nil
}
