package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"resdesk/internal/alloc"
	"resdesk/internal/model"
	"resdesk/internal/store"
)

// AllocationsHandler handles the allocation ledger endpoints.
type AllocationsHandler struct {
	DB    *sql.DB
	Alloc *alloc.Service
}

type allocateRequest struct {
	EmployeeID    int64      `json:"employee_id"`
	ResourceID    int64      `json:"resource_id"`
	AllocatedDate *time.Time `json:"allocated_date"`
}

// Create handles POST /api/allocations.
func (h *AllocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.EmployeeID <= 0 || req.ResourceID <= 0 {
		jsonError(w, http.StatusBadRequest, "employee_id and resource_id are required and must be positive")
		return
	}

	var allocatedDate time.Time
	if req.AllocatedDate != nil {
		allocatedDate = *req.AllocatedDate
	}

	allocation, err := h.Alloc.Allocate(r.Context(), req.EmployeeID, req.ResourceID, allocatedDate)
	switch {
	case err == nil:
	case errors.Is(err, alloc.ErrEmployeeNotFound), errors.Is(err, alloc.ErrResourceNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, alloc.ErrNoCapacity), errors.Is(err, alloc.ErrDuplicateActive):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	default:
		slog.Error("allocation failed", "employee_id", req.EmployeeID, "resource_id", req.ResourceID, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to allocate resource")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("resource allocated", "by", claims.Email,
		"employee", allocation.EmployeeName, "resource", allocation.ResourceName)
	jsonResponse(w, http.StatusCreated, allocation)
}

// Return handles POST /api/allocations/{id}/return.
func (h *AllocationsHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid allocation id")
		return
	}

	allocation, err := h.Alloc.Return(r.Context(), id)
	var recErr *alloc.ReconciliationError
	switch {
	case err == nil:
	case errors.Is(err, alloc.ErrAllocationNotFound):
		jsonError(w, http.StatusNotFound, "allocation not found")
		return
	case errors.Is(err, alloc.ErrAlreadyReturned):
		jsonError(w, http.StatusNotFound, "allocation already returned")
		return
	case errors.As(err, &recErr):
		// The ledger entry is closed but the unit was not released; this
		// needs operator attention, not a plain 500.
		jsonError(w, http.StatusInternalServerError, "return recorded but unit release failed; reconciliation required")
		return
	default:
		slog.Error("return failed", "allocation_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to return resource")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("resource returned", "by", claims.Email,
		"employee", allocation.EmployeeName, "resource", allocation.ResourceName)
	jsonResponse(w, http.StatusOK, allocation)
}

// List handles GET /api/allocations with optional employee_id, resource_id,
// and status filters, most recent first.
func (h *AllocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	var employeeID, resourceID int64

	if v := r.URL.Query().Get("employee_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid employee_id")
			return
		}
		employeeID = id
	}

	if v := r.URL.Query().Get("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid resource_id")
			return
		}
		resourceID = id
	}

	status := r.URL.Query().Get("status")
	if status != "" && status != model.AllocationStatusActive && status != model.AllocationStatusReturned {
		jsonError(w, http.StatusBadRequest, "status must be 'active' or 'returned'")
		return
	}

	allocations, err := store.ListAllocations(r.Context(), h.DB, employeeID, resourceID, status)
	if err != nil {
		slog.Error("failed to list allocations", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list allocations")
		return
	}
	if allocations == nil {
		allocations = []model.Allocation{}
	}
	jsonResponse(w, http.StatusOK, allocations)
}

// Get handles GET /api/allocations/{id}.
func (h *AllocationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid allocation id")
		return
	}

	allocation, err := store.GetAllocation(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get allocation")
		return
	}
	if allocation == nil {
		jsonError(w, http.StatusNotFound, "allocation not found")
		return
	}

	jsonResponse(w, http.StatusOK, allocation)
}
