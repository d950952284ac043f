package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"resdesk/internal/alloc"
	"resdesk/internal/imaging"
	"resdesk/internal/inventory"
	"resdesk/internal/model"
	"resdesk/internal/store"
)

// ResourcesHandler handles resource pool endpoints.
type ResourcesHandler struct {
	DB    *sql.DB
	Alloc *alloc.Service
}

type createResourceRequest struct {
	Name           string     `json:"name"`
	ResourceTypeID int64      `json:"resource_type_id"`
	Description    string     `json:"description"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	TotalUnits     *int       `json:"total_units"`
}

type updateResourceRequest struct {
	Name           string     `json:"name"`
	ResourceTypeID int64      `json:"resource_type_id"`
	Description    string     `json:"description"`
	PurchaseDate   *time.Time `json:"purchase_date"`
}

type resizeRequest struct {
	TotalUnits int `json:"total_units"`
}

type maintenanceRequest struct {
	Maintenance bool `json:"maintenance"`
}

// List handles GET /api/resources. ?available=true narrows to pools that can
// currently be allocated from.
func (h *ResourcesHandler) List(w http.ResponseWriter, r *http.Request) {
	onlyAvailable := r.URL.Query().Get("available") == "true"
	resources, err := store.ListResources(r.Context(), h.DB, onlyAvailable)
	if err != nil {
		slog.Error("failed to list resources", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list resources")
		return
	}
	if resources == nil {
		resources = []model.Resource{}
	}
	jsonResponse(w, http.StatusOK, resources)
}

// Create handles POST /api/resources. When total_units is omitted, the
// configured default pool size applies.
func (h *ResourcesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createResourceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.ResourceTypeID <= 0 {
		jsonError(w, http.StatusBadRequest, "name and resource_type_id required")
		return
	}
	if len(req.Description) > model.MaxDescriptionLen {
		jsonError(w, http.StatusBadRequest, "description too long")
		return
	}

	resourceType, err := store.GetResourceType(r.Context(), h.DB, req.ResourceTypeID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if resourceType == nil || resourceType.DeletedAt != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource type")
		return
	}

	totalUnits := h.Alloc.Config.DefaultUnitCount
	if req.TotalUnits != nil {
		totalUnits = *req.TotalUnits
	}
	if totalUnits < 1 {
		jsonError(w, http.StatusBadRequest, "total_units must be at least 1")
		return
	}

	purchaseDate := time.Now()
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}

	resource, err := store.CreateResource(r.Context(), h.DB, req.Name, req.ResourceTypeID, req.Description, purchaseDate, totalUnits)
	if err != nil {
		slog.Error("failed to create resource", "error", err)
		jsonError(w, http.StatusBadRequest, "failed to create resource: name may already exist")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("resource created", "by", claims.Email, "resource", resource.Name, "units", totalUnits)
	jsonResponse(w, http.StatusCreated, resource)
}

// Get handles GET /api/resources/{id}.
func (h *ResourcesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	resource, err := store.GetResource(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get resource")
		return
	}
	if resource == nil || resource.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "resource not found")
		return
	}

	jsonResponse(w, http.StatusOK, resource)
}

// Update handles PUT /api/resources/{id}. Only metadata: unit counts are
// owned by the inventory guard and changed through the resize endpoint.
func (h *ResourcesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	var req updateResourceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.ResourceTypeID <= 0 {
		jsonError(w, http.StatusBadRequest, "name and resource_type_id required")
		return
	}
	if len(req.Description) > model.MaxDescriptionLen {
		jsonError(w, http.StatusBadRequest, "description too long")
		return
	}

	resource, err := store.GetResource(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if resource == nil || resource.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "resource not found")
		return
	}

	resourceType, err := store.GetResourceType(r.Context(), h.DB, req.ResourceTypeID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if resourceType == nil || resourceType.DeletedAt != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource type")
		return
	}

	purchaseDate := resource.PurchaseDate
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}

	if err := store.UpdateResource(r.Context(), h.DB, id, req.Name, req.ResourceTypeID, req.Description, purchaseDate); err != nil {
		slog.Error("failed to update resource", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update resource")
		return
	}

	resource, _ = store.GetResource(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, resource)
}

// Resize handles PUT /api/resources/{id}/units.
func (h *ResourcesHandler) Resize(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	var req resizeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TotalUnits < 0 {
		jsonError(w, http.StatusBadRequest, "total_units must not be negative")
		return
	}

	switch err := inventory.Resize(r.Context(), h.DB, id, req.TotalUnits); {
	case err == nil:
	case err == inventory.ErrNotFound:
		jsonError(w, http.StatusNotFound, "resource not found")
		return
	default:
		slog.Error("failed to resize pool", "resource_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to resize pool")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("resource pool resized", "by", claims.Email, "resource_id", id, "total_units", req.TotalUnits)
	resource, _ := store.GetResource(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, resource)
}

// SetMaintenance handles PUT /api/resources/{id}/maintenance. Maintenance
// suspends allocation without touching the counts.
func (h *ResourcesHandler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	var req maintenanceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch err := inventory.SetMaintenance(r.Context(), h.DB, id, req.Maintenance); {
	case err == nil:
	case err == inventory.ErrNotFound:
		jsonError(w, http.StatusNotFound, "resource not found")
		return
	default:
		slog.Error("failed to set maintenance", "resource_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to set maintenance")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("resource maintenance toggled", "by", claims.Email, "resource_id", id, "maintenance", req.Maintenance)
	resource, _ := store.GetResource(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, resource)
}

// Delete handles DELETE /api/resources/{id}. The resource is frozen first so
// no allocation can race in, then its open allocations are drained.
func (h *ResourcesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	closed, err := h.Alloc.DeactivateResource(r.Context(), id)
	if err == alloc.ErrResourceNotFound {
		jsonError(w, http.StatusNotFound, "resource not found")
		return
	}
	if err != nil {
		slog.Error("failed to deactivate resource", "resource_id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to deactivate resource")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("resource deactivated", "by", claims.Email, "resource_id", id, "allocations_closed", closed)
	jsonResponse(w, http.StatusOK, map[string]any{
		"message":            "resource deactivated",
		"allocations_closed": closed,
	})
}

// UploadImage handles PUT /api/resources/{id}/image.
func (h *ResourcesHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	resource, err := store.GetResource(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if resource == nil || resource.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "resource not found")
		return
	}

	result, err := imaging.Process(r.Body)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetResourceImage(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image updated"})
}

// GetImage handles GET /api/resources/{id}/image.
func (h *ResourcesHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	image, mime, err := store.GetResourceImage(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if len(image) == 0 {
		jsonError(w, http.StatusNotFound, "no image set")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(image)
}

// GetAllocations handles GET /api/resources/{id}/allocations: who currently
// holds units of this resource, most recent first.
func (h *ResourcesHandler) GetAllocations(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid resource id")
		return
	}

	resource, err := store.GetResource(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if resource == nil {
		jsonError(w, http.StatusNotFound, "resource not found")
		return
	}

	allocations, err := store.ListAllocations(r.Context(), h.DB, 0, id, model.AllocationStatusActive)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list allocations")
		return
	}
	if allocations == nil {
		allocations = []model.Allocation{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"resource":    resource,
		"total":       len(allocations),
		"allocations": allocations,
	})
}
