package store

import (
	"context"
	"testing"

	"resdesk/internal/db"
)

func TestCreateAndGetEmployee(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	employee, err := CreateEmployee(ctx, database, "Alice", "alice@example.com", "Developer", "Software Development")
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if employee.Name != "Alice" || employee.Email != "alice@example.com" {
		t.Errorf("unexpected employee: %+v", employee)
	}

	byEmail, err := GetEmployeeByEmail(ctx, database, "alice@example.com")
	if err != nil {
		t.Fatalf("GetEmployeeByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != employee.ID {
		t.Errorf("expected employee by email, got %+v", byEmail)
	}
}

func TestCreateEmployeeDuplicateEmailFails(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateEmployee(ctx, database, "Alice", "alice@example.com", "Developer", "Software Development")
	_, err := CreateEmployee(ctx, database, "Other", "alice@example.com", "Recruiter", "Recruitment")
	if err == nil {
		t.Error("expected duplicate email to fail")
	}
}

func TestSoftDeletedEmailIsReusable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	employee, _ := CreateEmployee(ctx, database, "Alice", "alice@example.com", "Developer", "Software Development")
	if err := SoftDeleteEmployee(ctx, database, employee.ID); err != nil {
		t.Fatalf("SoftDeleteEmployee: %v", err)
	}

	if _, err := CreateEmployee(ctx, database, "Alice Again", "alice@example.com", "Developer", "Software Development"); err != nil {
		t.Errorf("expected email of deleted employee to be reusable: %v", err)
	}
}

func TestListEmployeesExcludesDeleted(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateEmployee(ctx, database, "Alice", "alice@example.com", "Developer", "Software Development")
	bob, _ := CreateEmployee(ctx, database, "Bob", "bob@example.com", "Recruiter", "Recruitment")
	SoftDeleteEmployee(ctx, database, bob.ID)

	employees, err := ListEmployees(ctx, database, "")
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(employees) != 1 || employees[0].Name != "Alice" {
		t.Errorf("expected only Alice, got %v", employees)
	}
}

func TestListEmployeesByDepartment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateEmployee(ctx, database, "Alice", "alice@example.com", "Developer", "Software Development")
	CreateEmployee(ctx, database, "Bob", "bob@example.com", "Recruiter", "Recruitment")

	employees, err := ListEmployees(ctx, database, "Recruitment")
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(employees) != 1 || employees[0].Name != "Bob" {
		t.Errorf("expected only Bob, got %v", employees)
	}
}

func TestEmployeePictureRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	employee, _ := CreateEmployee(ctx, database, "Alice", "alice@example.com", "Developer", "Software Development")

	data := []byte{0x89, 0x50, 0x4e, 0x47}
	if err := SetEmployeePicture(ctx, database, employee.ID, data, "image/png"); err != nil {
		t.Fatalf("SetEmployeePicture: %v", err)
	}

	picture, mime, err := GetEmployeePicture(ctx, database, employee.ID)
	if err != nil {
		t.Fatalf("GetEmployeePicture: %v", err)
	}
	if mime != "image/png" || len(picture) != 4 {
		t.Errorf("unexpected picture: mime %q, %d bytes", mime, len(picture))
	}
}
