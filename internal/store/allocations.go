package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"resdesk/internal/model"
)

// InsertAllocation appends an active allocation to the ledger.
func InsertAllocation(ctx context.Context, db *sql.DB, employeeID, resourceID int64, allocatedDate time.Time) (*model.Allocation, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO allocations (employee_id, resource_id, allocated_date) VALUES (?, ?, ?)`,
		employeeID, resourceID, allocatedDate,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting allocation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting allocation id: %w", err)
	}

	return GetAllocation(ctx, db, id)
}

// GetAllocation returns an allocation by ID with display fields joined.
func GetAllocation(ctx context.Context, db *sql.DB, id int64) (*model.Allocation, error) {
	a := &model.Allocation{}
	err := db.QueryRowContext(ctx,
		`SELECT a.id, a.employee_id, a.resource_id, a.allocated_date, a.return_date,
		        a.status, a.created_at,
		        e.name, e.email, e.position, r.name, t.name
		 FROM allocations a
		 JOIN employees e ON e.id = a.employee_id
		 JOIN resources r ON r.id = a.resource_id
		 JOIN resource_types t ON t.id = r.resource_type_id
		 WHERE a.id = ?`, id,
	).Scan(&a.ID, &a.EmployeeID, &a.ResourceID, &a.AllocatedDate, &a.ReturnDate,
		&a.Status, &a.CreatedAt,
		&a.EmployeeName, &a.EmployeeEmail, &a.EmployeePosition, &a.ResourceName, &a.ResourceTypeName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting allocation: %w", err)
	}
	return a, nil
}

// CloseAllocation marks an active allocation as returned. The status check
// and the transition are one conditional UPDATE, so of two racing returns
// exactly one observes closed=true. Returns false when the allocation was not
// active (already returned, or absent).
func CloseAllocation(ctx context.Context, db *sql.DB, id int64, returnDate time.Time) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE allocations SET status = ?, return_date = ?
		 WHERE id = ? AND status = ?`,
		model.AllocationStatusReturned, returnDate, id, model.AllocationStatusActive,
	)
	if err != nil {
		return false, fmt.Errorf("closing allocation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking closed rows: %w", err)
	}
	return rows > 0, nil
}

// HasActiveAllocation reports whether the employee currently holds a unit of
// the resource.
func HasActiveAllocation(ctx context.Context, db *sql.DB, employeeID, resourceID int64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM allocations
		 WHERE employee_id = ? AND resource_id = ? AND status = ?`,
		employeeID, resourceID, model.AllocationStatusActive,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking active allocation: %w", err)
	}
	return count > 0, nil
}

// ListAllocations returns ledger entries with display fields joined, most
// recent first. Zero/empty filter values are ignored.
func ListAllocations(ctx context.Context, db *sql.DB, employeeID, resourceID int64, status string) ([]model.Allocation, error) {
	query := `SELECT a.id, a.employee_id, a.resource_id, a.allocated_date, a.return_date,
	                 a.status, a.created_at,
	                 e.name, e.email, e.position, r.name, t.name
	          FROM allocations a
	          JOIN employees e ON e.id = a.employee_id
	          JOIN resources r ON r.id = a.resource_id
	          JOIN resource_types t ON t.id = r.resource_type_id
	          WHERE 1=1`
	var args []any

	if employeeID > 0 {
		query += ` AND a.employee_id = ?`
		args = append(args, employeeID)
	}
	if resourceID > 0 {
		query += ` AND a.resource_id = ?`
		args = append(args, resourceID)
	}
	if status != "" {
		query += ` AND a.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY a.allocated_date DESC, a.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}
	defer rows.Close()

	var allocations []model.Allocation
	for rows.Next() {
		var a model.Allocation
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.ResourceID, &a.AllocatedDate, &a.ReturnDate,
			&a.Status, &a.CreatedAt,
			&a.EmployeeName, &a.EmployeeEmail, &a.EmployeePosition, &a.ResourceName, &a.ResourceTypeName); err != nil {
			return nil, fmt.Errorf("scanning allocation: %w", err)
		}
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

// ListActiveAllocationRefs returns (allocation, resource) ID pairs for every
// active allocation matching the employee or resource filter. Used by the
// cascade paths, which need the resource ID to release units per record.
func ListActiveAllocationRefs(ctx context.Context, db *sql.DB, employeeID, resourceID int64) ([][2]int64, error) {
	query := `SELECT id, resource_id FROM allocations WHERE status = ?`
	args := []any{model.AllocationStatusActive}

	if employeeID > 0 {
		query += ` AND employee_id = ?`
		args = append(args, employeeID)
	}
	if resourceID > 0 {
		query += ` AND resource_id = ?`
		args = append(args, resourceID)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing active allocations: %w", err)
	}
	defer rows.Close()

	var refs [][2]int64
	for rows.Next() {
		var allocationID, resID int64
		if err := rows.Scan(&allocationID, &resID); err != nil {
			return nil, fmt.Errorf("scanning active allocation: %w", err)
		}
		refs = append(refs, [2]int64{allocationID, resID})
	}
	return refs, rows.Err()
}

// CountActiveAllocations returns the number of open ledger entries for a
// resource. Useful for reconciling the ledger against the unit counts.
func CountActiveAllocations(ctx context.Context, db *sql.DB, resourceID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM allocations WHERE resource_id = ? AND status = ?`,
		resourceID, model.AllocationStatusActive,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting active allocations: %w", err)
	}
	return count, nil
}
