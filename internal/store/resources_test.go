package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"resdesk/internal/db"
)

func testResourceType(t *testing.T, database *sql.DB) int64 {
	t.Helper()
	rt, err := CreateResourceType(context.Background(), database, "Laptop", "portable machines")
	if err != nil {
		t.Fatalf("CreateResourceType: %v", err)
	}
	return rt.ID
}

func TestCreateResourceStartsFullyAvailable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	typeID := testResourceType(t, database)

	resource, err := CreateResource(ctx, database, "ThinkPad", typeID, "", time.Now(), 4)
	if err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	if resource.TotalUnits != 4 || resource.AvailableUnits != 4 {
		t.Errorf("expected 4/4 units, got %d/%d", resource.AvailableUnits, resource.TotalUnits)
	}
	if resource.Status != "available" {
		t.Errorf("expected available status, got %q", resource.Status)
	}
	if resource.TypeName != "Laptop" {
		t.Errorf("expected joined type name, got %q", resource.TypeName)
	}
}

func TestResourceStatusDerivedFromCounts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	typeID := testResourceType(t, database)

	resource, _ := CreateResource(ctx, database, "Dock", typeID, "", time.Now(), 1)

	database.Exec(`UPDATE resources SET available_units = 0 WHERE id = ?`, resource.ID)
	got, _ := GetResource(ctx, database, resource.ID)
	if got.Status != "allocated" {
		t.Errorf("expected allocated status at zero units, got %q", got.Status)
	}

	database.Exec(`UPDATE resources SET maintenance = 1 WHERE id = ?`, resource.ID)
	got, _ = GetResource(ctx, database, resource.ID)
	if got.Status != "maintenance" {
		t.Errorf("expected maintenance status, got %q", got.Status)
	}
}

func TestListResourcesOnlyAvailable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	typeID := testResourceType(t, database)

	CreateResource(ctx, database, "Free", typeID, "", time.Now(), 2)
	empty, _ := CreateResource(ctx, database, "Empty", typeID, "", time.Now(), 1)
	maint, _ := CreateResource(ctx, database, "Broken", typeID, "", time.Now(), 3)

	database.Exec(`UPDATE resources SET available_units = 0 WHERE id = ?`, empty.ID)
	database.Exec(`UPDATE resources SET maintenance = 1 WHERE id = ?`, maint.ID)

	all, err := ListResources(ctx, database, false)
	if err != nil {
		t.Fatalf("ListResources: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 resources, got %d", len(all))
	}

	available, err := ListResources(ctx, database, true)
	if err != nil {
		t.Fatalf("ListResources available: %v", err)
	}
	if len(available) != 1 || available[0].Name != "Free" {
		t.Errorf("expected only the free resource, got %v", available)
	}
}

func TestUpdateResourceLeavesCountsAlone(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	typeID := testResourceType(t, database)

	resource, _ := CreateResource(ctx, database, "Dock", typeID, "", time.Now(), 3)
	database.Exec(`UPDATE resources SET available_units = 1 WHERE id = ?`, resource.ID)

	if err := UpdateResource(ctx, database, resource.ID, "Dock v2", typeID, "updated", time.Now()); err != nil {
		t.Fatalf("UpdateResource: %v", err)
	}

	got, _ := GetResource(ctx, database, resource.ID)
	if got.Name != "Dock v2" || got.Description != "updated" {
		t.Errorf("metadata not updated: %+v", got)
	}
	if got.TotalUnits != 3 || got.AvailableUnits != 1 {
		t.Errorf("unit counts changed: %d/%d", got.AvailableUnits, got.TotalUnits)
	}
}

func TestGetMissingResource(t *testing.T) {
	database := db.NewTestDB(t)

	resource, err := GetResource(context.Background(), database, 999)
	if err != nil {
		t.Fatalf("GetResource: %v", err)
	}
	if resource != nil {
		t.Errorf("expected nil for missing resource, got %+v", resource)
	}
}

func TestResourceImageRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	typeID := testResourceType(t, database)

	resource, _ := CreateResource(ctx, database, "Camera", typeID, "", time.Now(), 1)

	data := []byte{0xff, 0xd8, 0xff}
	if err := SetResourceImage(ctx, database, resource.ID, data, "image/jpeg"); err != nil {
		t.Fatalf("SetResourceImage: %v", err)
	}

	image, mime, err := GetResourceImage(ctx, database, resource.ID)
	if err != nil {
		t.Fatalf("GetResourceImage: %v", err)
	}
	if mime != "image/jpeg" || len(image) != 3 {
		t.Errorf("unexpected image: mime %q, %d bytes", mime, len(image))
	}
}
