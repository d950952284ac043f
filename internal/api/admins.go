package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"resdesk/internal/model"
	"resdesk/internal/store"
)

// AdminsHandler handles back-office account management endpoints.
type AdminsHandler struct {
	DB *sql.DB
}

type createAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateAdminRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func validRole(role string) bool {
	return role == model.RoleAdmin || role == model.RoleManager || role == model.RoleUser
}

// List handles GET /api/admins.
func (h *AdminsHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := store.ListAdmins(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list admins", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list admins")
		return
	}
	if admins == nil {
		admins = []model.Admin{}
	}
	jsonResponse(w, http.StatusOK, admins)
}

// Create handles POST /api/admins.
func (h *AdminsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		jsonError(w, http.StatusBadRequest, "name, email, password, and role required")
		return
	}
	if err := model.ValidateEmail(req.Email); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validRole(req.Role) {
		jsonError(w, http.StatusBadRequest, "role must be 'admin', 'manager', or 'user'")
		return
	}

	existing, err := store.GetAdminByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil && existing.DeletedAt == nil {
		jsonError(w, http.StatusBadRequest, "admin with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	admin, err := store.CreateAdmin(r.Context(), h.DB, req.Name, req.Email, req.Phone, string(hash), req.Role)
	if err != nil {
		slog.Error("failed to create admin", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create admin")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("admin created", "by", claims.Email, "email", admin.Email, "role", admin.Role)
	jsonResponse(w, http.StatusCreated, admin)
}

// Get handles GET /api/admins/{id}.
func (h *AdminsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid admin id")
		return
	}

	admin, err := store.GetAdmin(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get admin")
		return
	}
	if admin == nil || admin.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "admin not found")
		return
	}

	jsonResponse(w, http.StatusOK, admin)
}

// Update handles PUT /api/admins/{id}.
func (h *AdminsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid admin id")
		return
	}

	var req updateAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || !validRole(req.Role) {
		jsonError(w, http.StatusBadRequest, "name and a valid role required")
		return
	}

	if err := store.UpdateAdmin(r.Context(), h.DB, id, req.Name, req.Phone, req.Role); err != nil {
		slog.Error("failed to update admin", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update admin")
		return
	}

	admin, _ := store.GetAdmin(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, admin)
}

// ResetPassword handles PUT /api/admins/{id}/password.
func (h *AdminsHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid admin id")
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := store.UpdateAdminPassword(r.Context(), h.DB, id, string(hash)); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("admin password reset", "by", claims.Email, "admin_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password reset"})
}

// Delete handles DELETE /api/admins/{id}.
func (h *AdminsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid admin id")
		return
	}

	claims := GetClaims(r.Context())
	if claims.AdminID == id {
		jsonError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := store.DeleteAdmin(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete admin", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete admin")
		return
	}

	slog.Info("admin deleted", "by", claims.Email, "admin_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "admin deleted"})
}
