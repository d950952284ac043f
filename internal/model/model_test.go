package model

import "testing"

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     string
		minimum  string
		expected bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleManager, true},
		{RoleAdmin, RoleUser, true},
		{RoleManager, RoleAdmin, false},
		{RoleManager, RoleManager, true},
		{RoleManager, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleUser, RoleManager, false},
		{RoleUser, RoleUser, true},
		// Unknown roles fail-closed.
		{"unknown", RoleUser, false},
		{RoleAdmin, "unknown", false},
		{"", "", false},
		{"", RoleUser, false},
	}

	for _, tt := range tests {
		got := RoleAtLeast(tt.role, tt.minimum)
		if got != tt.expected {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
		}
	}
}

func TestResourceStatus(t *testing.T) {
	tests := []struct {
		available   int
		maintenance bool
		expected    string
	}{
		{5, false, ResourceStatusAvailable},
		{1, false, ResourceStatusAvailable},
		{0, false, ResourceStatusAllocated},
		// Maintenance overrides the counts in both directions.
		{5, true, ResourceStatusMaintenance},
		{0, true, ResourceStatusMaintenance},
	}

	for _, tt := range tests {
		got := ResourceStatus(tt.available, tt.maintenance)
		if got != tt.expected {
			t.Errorf("ResourceStatus(%d, %v) = %q, want %q", tt.available, tt.maintenance, got, tt.expected)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"", true},
		{"not-an-email", true},
		{"missing@tld", true},
		{"someone@example.com", false},
		{"first.last@sub.example.co", false},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
		}
	}
}

func TestValidPositionAndDepartment(t *testing.T) {
	if !ValidPosition("Developer") {
		t.Error("expected Developer to be a valid position")
	}
	if ValidPosition("Astronaut") {
		t.Error("expected Astronaut to be rejected")
	}
	if !ValidDepartment("Finance") {
		t.Error("expected Finance to be a valid department")
	}
	if ValidDepartment("Space Travel") {
		t.Error("expected Space Travel to be rejected")
	}
}
