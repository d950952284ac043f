package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"resdesk/internal/db"
	"resdesk/internal/model"
)

func testEmployee(t *testing.T, database *sql.DB, name, email string) int64 {
	t.Helper()
	employee, err := CreateEmployee(context.Background(), database, name, email, "Developer", "Software Development")
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	return employee.ID
}

func testResource(t *testing.T, database *sql.DB, name string, units int) int64 {
	t.Helper()
	ctx := context.Background()
	rt, err := CreateResourceType(ctx, database, name+" type", "")
	if err != nil {
		t.Fatalf("CreateResourceType: %v", err)
	}
	resource, err := CreateResource(ctx, database, name, rt.ID, "", time.Now(), units)
	if err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	return resource.ID
}

func TestInsertAndGetAllocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	empID := testEmployee(t, database, "Alice", "alice@example.com")
	resID := testResource(t, database, "Monitor", 2)

	allocation, err := InsertAllocation(ctx, database, empID, resID, time.Now())
	if err != nil {
		t.Fatalf("InsertAllocation: %v", err)
	}
	if allocation.Status != model.AllocationStatusActive {
		t.Errorf("expected active status, got %q", allocation.Status)
	}
	if allocation.ReturnDate != nil {
		t.Error("expected no return date on a fresh allocation")
	}
	if allocation.EmployeeName != "Alice" || allocation.ResourceName != "Monitor" {
		t.Errorf("joined fields missing: %+v", allocation)
	}
}

func TestCloseAllocationOnlyOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	empID := testEmployee(t, database, "Alice", "alice@example.com")
	resID := testResource(t, database, "Monitor", 1)
	allocation, _ := InsertAllocation(ctx, database, empID, resID, time.Now())

	closed, err := CloseAllocation(ctx, database, allocation.ID, time.Now())
	if err != nil {
		t.Fatalf("CloseAllocation: %v", err)
	}
	if !closed {
		t.Fatal("expected first close to succeed")
	}

	closed, err = CloseAllocation(ctx, database, allocation.ID, time.Now())
	if err != nil {
		t.Fatalf("second CloseAllocation: %v", err)
	}
	if closed {
		t.Error("expected second close to report not closed")
	}

	got, _ := GetAllocation(ctx, database, allocation.ID)
	if got.Status != model.AllocationStatusReturned || got.ReturnDate == nil {
		t.Errorf("expected returned allocation with return date, got %+v", got)
	}
}

func TestCloseMissingAllocation(t *testing.T) {
	database := db.NewTestDB(t)

	closed, err := CloseAllocation(context.Background(), database, 999, time.Now())
	if err != nil {
		t.Fatalf("CloseAllocation: %v", err)
	}
	if closed {
		t.Error("expected close of missing allocation to report not closed")
	}
}

func TestHasActiveAllocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	empID := testEmployee(t, database, "Alice", "alice@example.com")
	resID := testResource(t, database, "Monitor", 1)

	has, _ := HasActiveAllocation(ctx, database, empID, resID)
	if has {
		t.Error("expected no active allocation before insert")
	}

	allocation, _ := InsertAllocation(ctx, database, empID, resID, time.Now())
	has, _ = HasActiveAllocation(ctx, database, empID, resID)
	if !has {
		t.Error("expected active allocation after insert")
	}

	CloseAllocation(ctx, database, allocation.ID, time.Now())
	has, _ = HasActiveAllocation(ctx, database, empID, resID)
	if has {
		t.Error("expected no active allocation after close")
	}
}

func TestListAllocationsFiltersAndOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testEmployee(t, database, "Alice", "alice@example.com")
	bob := testEmployee(t, database, "Bob", "bob@example.com")
	monitor := testResource(t, database, "Monitor", 5)
	dock := testResource(t, database, "Dock", 5)

	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now()

	InsertAllocation(ctx, database, alice, monitor, older)
	closedAlloc, _ := InsertAllocation(ctx, database, alice, dock, newer)
	InsertAllocation(ctx, database, bob, monitor, newer)
	CloseAllocation(ctx, database, closedAlloc.ID, time.Now())

	all, err := ListAllocations(ctx, database, 0, 0, "")
	if err != nil {
		t.Fatalf("ListAllocations: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 allocations, got %d", len(all))
	}
	if !all[0].AllocatedDate.After(all[2].AllocatedDate) {
		t.Error("expected most recent allocation first")
	}

	byEmployee, _ := ListAllocations(ctx, database, alice, 0, "")
	if len(byEmployee) != 2 {
		t.Errorf("expected 2 allocations for employee, got %d", len(byEmployee))
	}

	byResource, _ := ListAllocations(ctx, database, 0, monitor, "")
	if len(byResource) != 2 {
		t.Errorf("expected 2 allocations for resource, got %d", len(byResource))
	}

	active, _ := ListAllocations(ctx, database, 0, 0, model.AllocationStatusActive)
	if len(active) != 2 {
		t.Errorf("expected 2 active allocations, got %d", len(active))
	}

	returned, _ := ListAllocations(ctx, database, alice, 0, model.AllocationStatusReturned)
	if len(returned) != 1 || returned[0].ID != closedAlloc.ID {
		t.Errorf("expected the closed allocation, got %v", returned)
	}
}

func TestListActiveAllocationRefs(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testEmployee(t, database, "Alice", "alice@example.com")
	bob := testEmployee(t, database, "Bob", "bob@example.com")
	monitor := testResource(t, database, "Monitor", 5)
	dock := testResource(t, database, "Dock", 5)

	InsertAllocation(ctx, database, alice, monitor, time.Now())
	InsertAllocation(ctx, database, alice, dock, time.Now())
	closedAlloc, _ := InsertAllocation(ctx, database, bob, monitor, time.Now())
	CloseAllocation(ctx, database, closedAlloc.ID, time.Now())

	refs, err := ListActiveAllocationRefs(ctx, database, alice, 0)
	if err != nil {
		t.Fatalf("ListActiveAllocationRefs: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("expected 2 refs for employee, got %d", len(refs))
	}

	refs, _ = ListActiveAllocationRefs(ctx, database, 0, monitor)
	if len(refs) != 1 || refs[0][1] != monitor {
		t.Errorf("expected 1 active monitor ref, got %v", refs)
	}

	n, _ := CountActiveAllocations(ctx, database, monitor)
	if n != 1 {
		t.Errorf("expected 1 active allocation for monitor, got %d", n)
	}
}
