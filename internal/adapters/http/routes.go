package web

import (
	"net/http"

	"qless/internal/adapters/http/middleware"
	"qless/internal/domain/account"
)

// registerRoutes attaches all application handlers to the mux.
// The dashboard and queue board require a session; /admin/* additionally
// requires the admin or super_admin role. Role changes are super_admin only.
func registerRoutes(mux *http.ServeMux) {
	requireAdmin := middleware.RequireRole(account.RoleAdmin, account.RoleSuperAdmin)
	requireSuperAdmin := middleware.RequireRole(account.RoleSuperAdmin)

	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/register", handleRegister)

	mux.Handle("/", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("/change-password", middleware.RequireAuth(http.HandlerFunc(handleChangePassword)))
	mux.Handle("/api/facilities", middleware.RequireAuth(http.HandlerFunc(handleQueueBoardAPI)))

	mux.Handle("/admin/facilities", requireAdmin(http.HandlerFunc(handleFacilities)))
	mux.Handle("/admin/occupancy", requireAdmin(http.HandlerFunc(handleOccupancyUpdate)))
	mux.Handle("/admin/accounts", requireAdmin(http.HandlerFunc(handleAccountsPage)))
	mux.Handle("/admin/settings", requireAdmin(http.HandlerFunc(handleSettingsPage)))
	mux.Handle("/admin/perf", requireAdmin(http.HandlerFunc(handlePerfDashboard)))

	mux.Handle("/admin/accounts/role", requireSuperAdmin(http.HandlerFunc(handleChangeRole)))
}
