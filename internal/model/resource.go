package model

import "time"

// ResourceType categorizes resources (e.g. "Laptop", "Monitor").
type ResourceType struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Resource represents a pool of interchangeable physical units of one kind.
// Status is never stored: it is always derived from the unit counts and the
// maintenance flag, so it cannot drift from them.
type Resource struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	ResourceTypeID int64      `json:"resource_type_id"`
	Description    string     `json:"description,omitempty"`
	ImageMime      string     `json:"image_mime,omitempty"`
	PurchaseDate   time.Time  `json:"purchase_date"`
	TotalUnits     int        `json:"total_units"`
	AvailableUnits int        `json:"available_units"`
	Maintenance    bool       `json:"maintenance"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`

	// Derived at read time, never stored.
	Status string `json:"status"`

	// Joined fields (not always populated).
	TypeName string `json:"type_name,omitempty"`
}

// Resource statuses.
const (
	ResourceStatusAvailable   = "available"
	ResourceStatusAllocated   = "allocated"
	ResourceStatusMaintenance = "maintenance"
)

// MaxDescriptionLen caps resource descriptions.
const MaxDescriptionLen = 500

// ResourceStatus derives the status for the given available unit count and
// maintenance flag. Maintenance overrides the counts; otherwise a resource is
// allocated exactly when no units are left.
func ResourceStatus(availableUnits int, maintenance bool) string {
	if maintenance {
		return ResourceStatusMaintenance
	}
	if availableUnits == 0 {
		return ResourceStatusAllocated
	}
	return ResourceStatusAvailable
}
