package api

import (
	"database/sql"
	"net/http"

	"resdesk/internal/alloc"
	"resdesk/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, allocSvc *alloc.Service) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	adminsHandler := &AdminsHandler{DB: db}
	employeesHandler := &EmployeesHandler{DB: db, Alloc: allocSvc}
	resourcesHandler := &ResourcesHandler{DB: db, Alloc: allocSvc}
	typesHandler := &ResourceTypesHandler{DB: db}
	allocationsHandler := &AllocationsHandler{DB: db, Alloc: allocSvc}
	dashboardHandler := &DashboardHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Admin accounts (admin only).
	mux.Handle("GET /api/admins", authMW(requireAdmin(http.HandlerFunc(adminsHandler.List))))
	mux.Handle("POST /api/admins", authMW(requireAdmin(http.HandlerFunc(adminsHandler.Create))))
	mux.Handle("GET /api/admins/{id}", authMW(requireAdmin(http.HandlerFunc(adminsHandler.Get))))
	mux.Handle("PUT /api/admins/{id}", authMW(requireAdmin(http.HandlerFunc(adminsHandler.Update))))
	mux.Handle("PUT /api/admins/{id}/password", authMW(requireAdmin(http.HandlerFunc(adminsHandler.ResetPassword))))
	mux.Handle("DELETE /api/admins/{id}", authMW(requireAdmin(http.HandlerFunc(adminsHandler.Delete))))

	// Employees: read (all roles), write (manager+).
	mux.Handle("GET /api/employees", authMW(http.HandlerFunc(employeesHandler.List)))
	mux.Handle("POST /api/employees", authMW(requireManager(http.HandlerFunc(employeesHandler.Create))))
	mux.Handle("GET /api/employees/{id}", authMW(http.HandlerFunc(employeesHandler.Get)))
	mux.Handle("PUT /api/employees/{id}", authMW(requireManager(http.HandlerFunc(employeesHandler.Update))))
	mux.Handle("DELETE /api/employees/{id}", authMW(requireManager(http.HandlerFunc(employeesHandler.Delete))))
	mux.Handle("PUT /api/employees/{id}/picture", authMW(requireManager(http.HandlerFunc(employeesHandler.UploadPicture))))
	mux.Handle("GET /api/employees/{id}/picture", authMW(http.HandlerFunc(employeesHandler.GetPicture)))
	mux.Handle("GET /api/employees/{id}/allocations", authMW(http.HandlerFunc(employeesHandler.GetAllocations)))

	// Resources: read (all roles), write (manager+).
	mux.Handle("GET /api/resources", authMW(http.HandlerFunc(resourcesHandler.List)))
	mux.Handle("POST /api/resources", authMW(requireManager(http.HandlerFunc(resourcesHandler.Create))))
	mux.Handle("GET /api/resources/{id}", authMW(http.HandlerFunc(resourcesHandler.Get)))
	mux.Handle("PUT /api/resources/{id}", authMW(requireManager(http.HandlerFunc(resourcesHandler.Update))))
	mux.Handle("PUT /api/resources/{id}/units", authMW(requireManager(http.HandlerFunc(resourcesHandler.Resize))))
	mux.Handle("PUT /api/resources/{id}/maintenance", authMW(requireManager(http.HandlerFunc(resourcesHandler.SetMaintenance))))
	mux.Handle("DELETE /api/resources/{id}", authMW(requireManager(http.HandlerFunc(resourcesHandler.Delete))))
	mux.Handle("PUT /api/resources/{id}/image", authMW(requireManager(http.HandlerFunc(resourcesHandler.UploadImage))))
	mux.Handle("GET /api/resources/{id}/image", authMW(http.HandlerFunc(resourcesHandler.GetImage)))
	mux.Handle("GET /api/resources/{id}/allocations", authMW(http.HandlerFunc(resourcesHandler.GetAllocations)))

	// Resource types: read (all roles), write (manager+).
	mux.Handle("GET /api/resource-types", authMW(http.HandlerFunc(typesHandler.List)))
	mux.Handle("POST /api/resource-types", authMW(requireManager(http.HandlerFunc(typesHandler.Create))))
	mux.Handle("GET /api/resource-types/{id}", authMW(http.HandlerFunc(typesHandler.Get)))
	mux.Handle("PUT /api/resource-types/{id}", authMW(requireManager(http.HandlerFunc(typesHandler.Update))))
	mux.Handle("DELETE /api/resource-types/{id}", authMW(requireManager(http.HandlerFunc(typesHandler.Delete))))

	// Allocations (all roles).
	mux.Handle("POST /api/allocations", authMW(http.HandlerFunc(allocationsHandler.Create)))
	mux.Handle("GET /api/allocations", authMW(http.HandlerFunc(allocationsHandler.List)))
	mux.Handle("GET /api/allocations/{id}", authMW(http.HandlerFunc(allocationsHandler.Get)))
	mux.Handle("POST /api/allocations/{id}/return", authMW(http.HandlerFunc(allocationsHandler.Return)))

	// Dashboard (all roles).
	mux.Handle("GET /api/dashboard", authMW(http.HandlerFunc(dashboardHandler.Summary)))

	return mux
}
