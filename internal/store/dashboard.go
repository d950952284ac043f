package store

import (
	"context"
	"database/sql"
	"fmt"

	"resdesk/internal/model"
)

// DashboardSummary holds the entity counts shown on the dashboard.
type DashboardSummary struct {
	Resources         int `json:"resource_count"`
	ResourceTypes     int `json:"resource_type_count"`
	Employees         int `json:"employee_count"`
	Allocations       int `json:"allocation_count"`
	ActiveAllocations int `json:"active_allocation_count"`
}

// GetDashboardSummary returns counts of non-deleted entities and ledger size.
func GetDashboardSummary(ctx context.Context, db *sql.DB) (*DashboardSummary, error) {
	s := &DashboardSummary{}

	counts := []struct {
		query string
		args  []any
		dest  *int
	}{
		{`SELECT COUNT(*) FROM resources WHERE deleted_at IS NULL`, nil, &s.Resources},
		{`SELECT COUNT(*) FROM resource_types WHERE deleted_at IS NULL`, nil, &s.ResourceTypes},
		{`SELECT COUNT(*) FROM employees WHERE deleted_at IS NULL`, nil, &s.Employees},
		{`SELECT COUNT(*) FROM allocations`, nil, &s.Allocations},
		{`SELECT COUNT(*) FROM allocations WHERE status = ?`, []any{model.AllocationStatusActive}, &s.ActiveAllocations},
	}

	for _, c := range counts {
		if err := db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting for dashboard: %w", err)
		}
	}

	return s, nil
}
