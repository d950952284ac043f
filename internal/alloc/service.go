// Package alloc orchestrates the allocation ledger and the inventory guard
// into operations that are atomic from the caller's point of view: either the
// count mutation and the ledger entry both happen, or neither is observable
// as successful. The database cannot update both tables in one statement, so
// the allocate path compensates a reserved unit when the ledger write fails,
// and the return path surfaces a reconciliation error when the count side
// fails after the ledger committed.
package alloc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resdesk/internal/inventory"
	"resdesk/internal/model"
	"resdesk/internal/store"
)

// Config makes the behaviors that varied across versions of the system
// explicit instead of environment-dependent.
type Config struct {
	// DefaultUnitCount is the pool size for resources created without an
	// explicit count.
	DefaultUnitCount int

	// RejectDuplicateActive refuses a second active allocation of the same
	// resource to the same employee. This is business policy, not a
	// correctness invariant; the counts stay consistent either way.
	RejectDuplicateActive bool

	// ReleaseRetries bounds retries of a failed compensating release before
	// escalating to a reconciliation error.
	ReleaseRetries int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultUnitCount:      1,
		RejectDuplicateActive: true,
		ReleaseRetries:        3,
	}
}

// Service implements allocate, return and cascade deactivation.
type Service struct {
	DB     *sql.DB
	Config Config
}

// NewService creates an allocation service.
func NewService(db *sql.DB, cfg Config) *Service {
	return &Service{DB: db, Config: cfg}
}

// Allocate loans one unit of a resource to an employee. The unit reservation
// is a single atomic conditional decrement; the ledger entry is written only
// after the reservation succeeded, and the reservation is compensated if the
// ledger write fails.
func (s *Service) Allocate(ctx context.Context, employeeID, resourceID int64, allocatedDate time.Time) (*model.Allocation, error) {
	if allocatedDate.IsZero() {
		allocatedDate = time.Now()
	}

	employee, err := store.GetEmployee(ctx, s.DB, employeeID)
	if err != nil {
		return nil, fmt.Errorf("checking employee: %w", err)
	}
	if employee == nil || employee.DeletedAt != nil {
		return nil, ErrEmployeeNotFound
	}

	resource, err := store.GetResource(ctx, s.DB, resourceID)
	if err != nil {
		return nil, fmt.Errorf("checking resource: %w", err)
	}
	if resource == nil || resource.DeletedAt != nil {
		return nil, ErrResourceNotFound
	}

	if s.Config.RejectDuplicateActive {
		exists, err := store.HasActiveAllocation(ctx, s.DB, employeeID, resourceID)
		if err != nil {
			return nil, fmt.Errorf("checking duplicate allocation: %w", err)
		}
		if exists {
			return nil, ErrDuplicateActive
		}
	}

	switch err := inventory.Reserve(ctx, s.DB, resourceID); {
	case err == nil:
	case errors.Is(err, inventory.ErrNotFound):
		return nil, ErrResourceNotFound
	case errors.Is(err, inventory.ErrNoCapacity), errors.Is(err, inventory.ErrFrozen):
		return nil, ErrNoCapacity
	default:
		return nil, fmt.Errorf("reserving unit: %w", err)
	}

	allocation, err := store.InsertAllocation(ctx, s.DB, employeeID, resourceID, allocatedDate)
	if err != nil {
		// The unit is reserved but the ledger entry failed: give the unit
		// back before surfacing the error, or report the drift if we can't.
		if relErr := s.releaseWithRetry(ctx, resourceID); relErr != nil {
			recErr := &ReconciliationError{ResourceID: resourceID, Op: "compensating release", Err: relErr}
			slog.Error("allocation drift detected", "resource_id", resourceID, "error", recErr)
			return nil, recErr
		}
		return nil, fmt.Errorf("recording allocation: %w", err)
	}

	return allocation, nil
}

// Return closes an allocation and releases its unit back to the pool. The
// Active -> Returned transition is a conditional update, so of two racing
// returns exactly one succeeds and the other sees ErrAlreadyReturned. A
// closed allocation is never reopened: if the release fails afterwards, the
// drift is reported as a reconciliation error instead.
func (s *Service) Return(ctx context.Context, allocationID int64) (*model.Allocation, error) {
	closed, err := store.CloseAllocation(ctx, s.DB, allocationID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("closing allocation: %w", err)
	}

	allocation, err := store.GetAllocation(ctx, s.DB, allocationID)
	if err != nil {
		return nil, fmt.Errorf("loading allocation: %w", err)
	}
	if allocation == nil {
		return nil, ErrAllocationNotFound
	}
	if !closed {
		return nil, ErrAlreadyReturned
	}

	if relErr := s.releaseWithRetry(ctx, allocation.ResourceID); relErr != nil {
		recErr := &ReconciliationError{
			AllocationID: allocationID,
			ResourceID:   allocation.ResourceID,
			Op:           "release",
			Err:          relErr,
		}
		slog.Error("return drift detected",
			"allocation_id", allocationID, "resource_id", allocation.ResourceID, "error", recErr)
		return nil, recErr
	}

	return allocation, nil
}

// DeactivateEmployee closes every active allocation held by the employee,
// releasing one unit per closed entry, then soft-deletes the employee. Each
// record is processed independently, so a partial failure leaves the cascade
// safely resumable; the employee is only marked deleted once the drain
// completed. Returns the number of allocations closed.
func (s *Service) DeactivateEmployee(ctx context.Context, employeeID int64) (int, error) {
	employee, err := store.GetEmployee(ctx, s.DB, employeeID)
	if err != nil {
		return 0, fmt.Errorf("checking employee: %w", err)
	}
	if employee == nil || employee.DeletedAt != nil {
		return 0, ErrEmployeeNotFound
	}

	closed, err := s.drain(ctx, employeeID, 0)
	if err != nil {
		return closed, err
	}

	if err := store.SoftDeleteEmployee(ctx, s.DB, employeeID); err != nil {
		return closed, fmt.Errorf("deactivating employee: %w", err)
	}

	slog.Info("employee deactivated", "employee_id", employeeID, "allocations_closed", closed)
	return closed, nil
}

// DeactivateResource freezes the resource first, so no new allocation can
// race in mid-cascade, then drains its active allocations. Returns the number
// of allocations closed.
func (s *Service) DeactivateResource(ctx context.Context, resourceID int64) (int, error) {
	switch err := inventory.Freeze(ctx, s.DB, resourceID); {
	case err == nil:
	case errors.Is(err, inventory.ErrNotFound):
		return 0, ErrResourceNotFound
	default:
		return 0, fmt.Errorf("freezing resource: %w", err)
	}

	closed, err := s.drain(ctx, 0, resourceID)
	if err != nil {
		return closed, err
	}

	slog.Info("resource deactivated", "resource_id", resourceID, "allocations_closed", closed)
	return closed, nil
}

// drain closes all active allocations matching the filter, one record at a
// time. Each close is independently idempotent, so a failed record does not
// abort the rest and the whole drain can be retried.
func (s *Service) drain(ctx context.Context, employeeID, resourceID int64) (int, error) {
	refs, err := store.ListActiveAllocationRefs(ctx, s.DB, employeeID, resourceID)
	if err != nil {
		return 0, fmt.Errorf("listing open allocations: %w", err)
	}

	var closed int
	var errs []error
	now := time.Now()
	for _, ref := range refs {
		allocationID, resID := ref[0], ref[1]

		ok, err := store.CloseAllocation(ctx, s.DB, allocationID, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("closing allocation %d: %w", allocationID, err))
			continue
		}
		if !ok {
			// Raced with a concurrent return; that return released the unit.
			continue
		}
		closed++

		if err := s.releaseWithRetry(ctx, resID); err != nil {
			recErr := &ReconciliationError{AllocationID: allocationID, ResourceID: resID, Op: "release", Err: err}
			slog.Error("cascade drift detected", "allocation_id", allocationID, "resource_id", resID, "error", recErr)
			errs = append(errs, recErr)
		}
	}

	return closed, errors.Join(errs...)
}

// releaseWithRetry retries a failed release a bounded number of times.
// Transient storage errors are retried; a missing resource is not.
func (s *Service) releaseWithRetry(ctx context.Context, resourceID int64) error {
	var err error
	for attempt := 0; attempt <= s.Config.ReleaseRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
			}
		}

		err = inventory.Release(ctx, s.DB, resourceID)
		if err == nil || errors.Is(err, inventory.ErrNotFound) {
			return err
		}
	}
	return err
}
