package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"resdesk/internal/model"
	"resdesk/internal/store"
)

// ResourceTypesHandler handles resource type CRUD endpoints.
type ResourceTypesHandler struct {
	DB *sql.DB
}

type resourceTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List handles GET /api/resource-types.
func (h *ResourceTypesHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := store.ListResourceTypes(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list resource types", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list resource types")
		return
	}
	if types == nil {
		types = []model.ResourceType{}
	}
	jsonResponse(w, http.StatusOK, types)
}

// Create handles POST /api/resource-types.
func (h *ResourceTypesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req resourceTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	resourceType, err := store.CreateResourceType(r.Context(), h.DB, req.Name, req.Description)
	if err != nil {
		slog.Error("failed to create resource type", "error", err)
		jsonError(w, http.StatusBadRequest, "failed to create resource type: name may already exist")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("resource type created", "by", claims.Email, "type", resourceType.Name)
	jsonResponse(w, http.StatusCreated, resourceType)
}

// Get handles GET /api/resource-types/{id}.
func (h *ResourceTypesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource type id")
		return
	}

	resourceType, err := store.GetResourceType(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get resource type")
		return
	}
	if resourceType == nil || resourceType.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "resource type not found")
		return
	}

	jsonResponse(w, http.StatusOK, resourceType)
}

// Update handles PUT /api/resource-types/{id}.
func (h *ResourceTypesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource type id")
		return
	}

	var req resourceTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateResourceType(r.Context(), h.DB, id, req.Name, req.Description); err != nil {
		slog.Error("failed to update resource type", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update resource type")
		return
	}

	resourceType, _ := store.GetResourceType(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, resourceType)
}

// Delete handles DELETE /api/resource-types/{id}.
func (h *ResourceTypesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource type id")
		return
	}

	if err := store.DeleteResourceType(r.Context(), h.DB, id); err != nil {
		slog.Warn("failed to delete resource type", "id", id, "error", err)
		jsonError(w, http.StatusBadRequest, "cannot delete resource type: still referenced or not found")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("resource type deleted", "by", claims.Email, "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "resource type deleted"})
}
