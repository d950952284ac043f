package model

import "time"

// Employee represents a staff member that resources can be allocated to.
type Employee struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Position    string     `json:"position"`
	Department  string     `json:"department"`
	HireDate    time.Time  `json:"hire_date"`
	PictureMime string     `json:"picture_mime,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Positions lists the accepted employee positions.
var Positions = []string{
	"Developer",
	"Senior Developer",
	"Team Lead",
	"HR Manager",
	"Recruiter",
	"Business Development Manager",
	"Sales Manager",
	"Project Manager",
	"Admin",
	"Accountant",
	"Designer",
}

// Departments lists the accepted employee departments.
var Departments = []string{
	"Software Development",
	"Recruitment",
	"Business Development",
	"Sales",
	"Marketing",
	"Finance",
	"Management",
	"Administration",
	"Design",
	"Customer Support",
}

// ValidPosition reports whether position is one of the accepted values.
func ValidPosition(position string) bool {
	for _, p := range Positions {
		if p == position {
			return true
		}
	}
	return false
}

// ValidDepartment reports whether department is one of the accepted values.
func ValidDepartment(department string) bool {
	for _, d := range Departments {
		if d == department {
			return true
		}
	}
	return false
}
