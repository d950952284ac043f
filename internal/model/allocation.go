package model

import "time"

// Allocation represents a single unit loan binding one employee to one
// resource. Allocations are an append-only ledger: they are closed by setting
// status and return_date, never deleted.
type Allocation struct {
	ID            int64      `json:"id"`
	EmployeeID    int64      `json:"employee_id"`
	ResourceID    int64      `json:"resource_id"`
	AllocatedDate time.Time  `json:"allocated_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`

	// Joined fields (not always populated).
	EmployeeName     string `json:"employee_name,omitempty"`
	EmployeeEmail    string `json:"employee_email,omitempty"`
	EmployeePosition string `json:"employee_position,omitempty"`
	ResourceName     string `json:"resource_name,omitempty"`
	ResourceTypeName string `json:"resource_type_name,omitempty"`
}

// Allocation statuses. Returned is terminal: an allocation is never reopened.
const (
	AllocationStatusActive   = "active"
	AllocationStatusReturned = "returned"
)
