package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"resdesk/internal/alloc"
	"resdesk/internal/imaging"
	"resdesk/internal/model"
	"resdesk/internal/store"
)

// EmployeesHandler handles employee CRUD endpoints.
type EmployeesHandler struct {
	DB    *sql.DB
	Alloc *alloc.Service
}

type employeeRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

func (req *employeeRequest) validate() string {
	if req.Name == "" || req.Email == "" || req.Position == "" || req.Department == "" {
		return "name, email, position, and department required"
	}
	if err := model.ValidateEmail(req.Email); err != nil {
		return err.Error()
	}
	if !model.ValidPosition(req.Position) {
		return "unknown position"
	}
	if !model.ValidDepartment(req.Department) {
		return "unknown department"
	}
	return ""
}

// List handles GET /api/employees.
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")
	employees, err := store.ListEmployees(r.Context(), h.DB, department)
	if err != nil {
		slog.Error("failed to list employees", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}
	if employees == nil {
		employees = []model.Employee{}
	}
	jsonResponse(w, http.StatusOK, employees)
}

// Create handles POST /api/employees.
func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := store.GetEmployeeByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		jsonError(w, http.StatusBadRequest, "employee with this email already exists")
		return
	}

	employee, err := store.CreateEmployee(r.Context(), h.DB, req.Name, req.Email, req.Position, req.Department)
	if err != nil {
		slog.Error("failed to create employee", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create employee")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("employee created", "by", claims.Email, "employee", employee.Email)
	jsonResponse(w, http.StatusCreated, employee)
}

// Get handles GET /api/employees/{id}.
func (h *EmployeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	employee, err := store.GetEmployee(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get employee")
		return
	}
	if employee == nil || employee.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "employee not found")
		return
	}

	jsonResponse(w, http.StatusOK, employee)
}

// Update handles PUT /api/employees/{id}.
func (h *EmployeesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := req.validate(); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	employee, err := store.GetEmployee(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if employee == nil || employee.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "employee not found")
		return
	}

	if err := store.UpdateEmployee(r.Context(), h.DB, id, req.Name, req.Email, req.Position, req.Department); err != nil {
		slog.Error("failed to update employee", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update employee")
		return
	}

	employee, _ = store.GetEmployee(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, employee)
}

// Delete handles DELETE /api/employees/{id}. Deactivation cascades: every
// active allocation held by the employee is returned before the employee is
// marked deleted.
func (h *EmployeesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	closed, err := h.Alloc.DeactivateEmployee(r.Context(), id)
	if err == alloc.ErrEmployeeNotFound {
		jsonError(w, http.StatusNotFound, "employee not found")
		return
	}
	if err != nil {
		slog.Error("failed to deactivate employee", "employee_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to deactivate employee")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("employee deactivated", "by", claims.Email, "employee_id", id, "allocations_closed", closed)
	jsonResponse(w, http.StatusOK, map[string]any{
		"message":            "employee deactivated",
		"allocations_closed": closed,
	})
}

// UploadPicture handles PUT /api/employees/{id}/picture.
func (h *EmployeesHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	employee, err := store.GetEmployee(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if employee == nil || employee.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "employee not found")
		return
	}

	result, err := imaging.ProcessProfile(r.Body)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetEmployeePicture(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store picture")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "picture updated"})
}

// GetPicture handles GET /api/employees/{id}/picture.
func (h *EmployeesHandler) GetPicture(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	picture, mime, err := store.GetEmployeePicture(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get picture")
		return
	}
	if len(picture) == 0 {
		jsonError(w, http.StatusNotFound, "no picture set")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(picture)
}

// GetAllocations handles GET /api/employees/{id}/allocations: the employee's
// current loans with resource display fields, most recent first.
func (h *EmployeesHandler) GetAllocations(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	employee, err := store.GetEmployee(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if employee == nil {
		jsonError(w, http.StatusNotFound, "employee not found")
		return
	}

	allocations, err := store.ListAllocations(r.Context(), h.DB, id, 0, model.AllocationStatusActive)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list allocations")
		return
	}
	if allocations == nil {
		allocations = []model.Allocation{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"employee":    employee,
		"total":       len(allocations),
		"allocations": allocations,
	})
}
