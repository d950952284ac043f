// Package inventory is the sole mutator of resource unit counts. Every
// mutation is a single conditional UPDATE checked via RowsAffected, never a
// read-then-write pair, so two requests racing for the last unit can never
// both win regardless of how many server processes share the database.
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Sentinel outcomes of count mutations. ErrNoCapacity and ErrFrozen are
// expected business conditions, not faults.
var (
	ErrNoCapacity = errors.New("no available units")
	ErrFrozen     = errors.New("resource is under maintenance")
	ErrNotFound   = errors.New("resource not found")
)

// Reserve atomically takes one unit from the resource's pool. The
// availability check and the decrement are a single conditional UPDATE; when
// no row matches, a follow-up read only classifies the failure.
func Reserve(ctx context.Context, db *sql.DB, resourceID int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE resources
		 SET available_units = available_units - 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL AND maintenance = 0 AND available_units > 0`,
		resourceID,
	)
	if err != nil {
		return fmt.Errorf("reserving unit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking reserved rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Nothing matched: find out why. The classification read is advisory
	// only; the decision not to reserve was already made atomically above.
	var maintenance bool
	var deleted sql.NullTime
	err = db.QueryRowContext(ctx,
		`SELECT maintenance, deleted_at FROM resources WHERE id = ?`, resourceID,
	).Scan(&maintenance, &deleted)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("classifying failed reservation: %w", err)
	}
	if deleted.Valid {
		return ErrNotFound
	}
	if maintenance {
		return ErrFrozen
	}
	return ErrNoCapacity
}

// Release atomically returns one unit to the resource's pool, clamped at
// total_units. The clamp is silent: a concurrent total_units reduction must
// not turn a legitimate return into an error. Releases are accepted for
// soft-deleted resources so that an in-flight drain can finish.
func Release(ctx context.Context, db *sql.DB, resourceID int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE resources
		 SET available_units = MIN(available_units + 1, total_units), updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		resourceID,
	)
	if err != nil {
		return fmt.Errorf("releasing unit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking released rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Resize changes the total unit count of a pool. Growing the pool makes the
// new units immediately available; shrinking clamps the available count but
// leaves open allocations alone, so they can still be returned (the return
// path clamps at the new total). RHS expressions see the pre-update row, so
// the whole adjustment is one atomic statement.
func Resize(ctx context.Context, db *sql.DB, resourceID int64, totalUnits int) error {
	if totalUnits < 0 {
		return fmt.Errorf("total units must not be negative")
	}

	result, err := db.ExecContext(ctx,
		`UPDATE resources
		 SET available_units = MAX(0, MIN(available_units + (? - total_units), ?)),
		     total_units = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		totalUnits, totalUnits, totalUnits, resourceID,
	)
	if err != nil {
		return fmt.Errorf("resizing pool: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking resized rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetMaintenance toggles the maintenance flag. Maintenance suspends new
// reservations regardless of available units; counts are untouched.
func SetMaintenance(ctx context.Context, db *sql.DB, resourceID int64, on bool) error {
	result, err := db.ExecContext(ctx,
		`UPDATE resources SET maintenance = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		on, resourceID,
	)
	if err != nil {
		return fmt.Errorf("setting maintenance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking maintenance rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Freeze soft-deletes the resource, which blocks all further reservations.
// Counts are untouched; open allocations are drained by the caller.
func Freeze(ctx context.Context, db *sql.DB, resourceID int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE resources SET deleted_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		resourceID,
	)
	if err != nil {
		return fmt.Errorf("freezing resource: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking frozen rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
