package alloc

import (
	"errors"
	"fmt"
)

// Expected operation outcomes. All are business conditions the API maps to
// 4xx responses, not server faults.
var (
	ErrEmployeeNotFound   = errors.New("employee not found or inactive")
	ErrResourceNotFound   = errors.New("resource not found or inactive")
	ErrNoCapacity         = errors.New("no units available for allocation")
	ErrDuplicateActive    = errors.New("resource is already allocated to this employee")
	ErrAllocationNotFound = errors.New("allocation not found")
	ErrAlreadyReturned    = errors.New("allocation already returned")
)

// ReconciliationError reports drift between the allocation ledger and the
// resource unit counts: a ledger transition committed but the matching count
// mutation could not be applied. It requires operator attention and must not
// be presented as an ordinary failure.
type ReconciliationError struct {
	AllocationID int64
	ResourceID   int64
	Op           string // the count mutation that failed, e.g. "release"
	Err          error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("ledger/count drift on allocation %d (resource %d): %s failed: %v",
		e.AllocationID, e.ResourceID, e.Op, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }
