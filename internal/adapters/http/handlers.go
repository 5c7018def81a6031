package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"qless/internal/adapters/http/middleware"
	"qless/internal/application/orchestrators"
	"qless/internal/application/projections"
	"qless/internal/domain/facility"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// templatesDir is relative to the process working directory (the repo
// root when run via cmd/server). Tests point it at the package-local dir.
var templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	email := ""
	name := ""
	if ok {
		role = sess.Role
		email = sess.Email
		name = sess.Name
	}

	funcMap := template.FuncMap{
		"currentRole":  func() string { return role },
		"currentEmail": func() string { return email },
		"currentName":  func() string { return name },
		"isLoggedIn":   func() bool { return role != "" },
		"isAdmin":      func() bool { return ok && sess.IsAdmin() },
		"isSuperAdmin": func() bool { return middleware.IsSuperAdmin(r.Context()) },
		"csrfToken":    func() string { return csrf.Token(r) },
		"appName":      func() string { return appConfig.AppName },
		"pageIcon":     func() string { return appConfig.PageIcon },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"statusColorHex": func(status string) string {
			switch status {
			case facility.StatusLow:
				return appConfig.Theme.Primary
			case facility.StatusModerate:
				return appConfig.Theme.Warning
			default:
				return appConfig.Theme.Danger
			}
		},
		"pct": func(ratio float64) int { return int(ratio * 100) },
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// If already logged in, redirect to dashboard
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		input := orchestrators.LoginInput{
			Email:    r.FormValue("Email"),
			Password: r.FormValue("Password"),
		}

		deps := orchestrators.LoginDeps{
			AccountStore: stores.AccountStore,
		}

		result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
		if err != nil {
			renderTemplate(w, r, "login.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
			})
			return
		}

		// Create session
		token, err := sessions.Create(result.AccountID, result.Email, result.Name, result.Role)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		middleware.SetSessionCookie(w, token, appConfig.SessionTimeout)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Delete session
	cookie, err := r.Cookie("qless_session")
	if err == nil {
		sessions.Delete(cookie.Value)
	}

	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleRegister handles GET (form) and POST (create account) for /register.
// Self-registration always yields a student account; role escalation is a
// super-admin action on /admin/accounts/role.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "register.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		if r.FormValue("Password") != r.FormValue("ConfirmPassword") {
			renderTemplate(w, r, "register.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     "Passwords do not match",
			})
			return
		}

		input := orchestrators.RegisterAccountInput{
			Email:    r.FormValue("Email"),
			Password: r.FormValue("Password"),
			Name:     r.FormValue("Name"),
		}
		deps := orchestrators.RegisterAccountDeps{
			AccountStore: stores.AccountStore,
		}

		if _, err := orchestrators.ExecuteRegisterAccount(r.Context(), input, deps); err != nil {
			renderTemplate(w, r, "register.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
			})
			return
		}

		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleDashboard routes GET / to the view matching the session role.
// Students always get the student view; any client-supplied view parameter
// is ignored for them. Admins and super-admins can toggle ?view=admin or
// ?view=student, defaulting to the student view on first render; the last
// choice is remembered for the session.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session, _ := middleware.GetSessionFromContext(r.Context())

	view := "student"
	if session.IsAdmin() {
		switch r.URL.Query().Get("view") {
		case "admin":
			view = "admin"
		case "student":
			view = "student"
		default:
			if session.ViewMode != "" {
				view = session.ViewMode
			}
		}
		// Remember the choice for subsequent renders.
		if cookie, err := r.Cookie("qless_session"); err == nil && session.ViewMode != view {
			session.ViewMode = view
			sessions.Update(cookie.Value, session)
		}
	}

	if view == "admin" {
		renderAdminDashboard(w, r)
		return
	}
	renderStudentView(w, r, session)
}

func renderStudentView(w http.ResponseWriter, r *http.Request, session middleware.Session) {
	deps := projections.GetQueueBoardDeps{
		FacilityStore: stores.FacilityStore,
	}
	result, err := projections.QueryGetQueueBoard(r.Context(), deps, appConfig.Thresholds, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "student_view.html", map[string]any{
		"Facilities": result.Facilities,
		"Generated":  result.GeneratedAt,
		"Refresh":    appConfig.AutoRefreshInterval,
		// Admins see a mode selector; students never do.
		"ShowModeSelector": session.IsAdmin(),
	})
}

func renderAdminDashboard(w http.ResponseWriter, r *http.Request) {
	deps := projections.GetAdminDashboardDeps{
		FacilityStore: stores.FacilityStore,
		AccountStore:  stores.AccountStore,
		SettingsStore: stores.SettingsStore,
	}
	result, err := projections.QueryGetAdminDashboard(r.Context(), deps, appConfig.Thresholds, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "admin_dashboard.html", map[string]any{
		"Facilities":       result.Facilities,
		"TotalCapacity":    result.TotalCapacity,
		"TotalOccupancy":   result.TotalOccupancy,
		"StatusCounts":     result.StatusCounts,
		"TotalAccounts":    result.TotalAccounts,
		"RoleCounts":       result.RoleCounts,
		"Settings":         result.Settings,
		"ShowModeSelector": true,
	})
}

// handleQueueBoardAPI handles GET /api/facilities, serving the queue board
// as JSON for the auto-refresh poller.
func handleQueueBoardAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	deps := projections.GetQueueBoardDeps{
		FacilityStore: stores.FacilityStore,
	}
	result, err := projections.QueryGetQueueBoard(r.Context(), deps, appConfig.Thresholds, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}

	type boardRow struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Icon        string  `json:"icon"`
		Capacity    int     `json:"capacity"`
		Occupancy   int     `json:"occupancy"`
		Ratio       float64 `json:"ratio"`
		Status      string  `json:"status"`
		WaitMinutes float64 `json:"wait_minutes"`
		OpenNow     bool    `json:"open_now"`
	}
	rows := make([]boardRow, 0, len(result.Facilities))
	for _, row := range result.Facilities {
		rows = append(rows, boardRow{
			ID:          row.Facility.ID,
			Name:        row.Facility.Name,
			Icon:        row.Facility.Icon,
			Capacity:    row.Facility.Capacity,
			Occupancy:   row.Facility.Occupancy,
			Ratio:       row.Ratio,
			Status:      row.Status,
			WaitMinutes: row.WaitMinutes,
			OpenNow:     row.OpenNow,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"facilities":          rows,
		"generated_at":        result.GeneratedAt,
		"refresh_interval_ms": appConfig.AutoRefreshInterval,
	})
}

// handleChangePassword handles GET (form) and POST (update) for /change-password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if r.Method == "GET" {
		renderTemplate(w, r, "change_password.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Form error", http.StatusBadRequest)
			return
		}

		// Validate confirm matches
		if r.FormValue("NewPassword") != r.FormValue("ConfirmPassword") {
			renderTemplate(w, r, "change_password.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     "New passwords do not match",
			})
			return
		}

		input := orchestrators.ChangePasswordInput{
			AccountID:       session.AccountID,
			CurrentPassword: r.FormValue("CurrentPassword"),
			NewPassword:     r.FormValue("NewPassword"),
		}
		deps := orchestrators.ChangePasswordDeps{
			AccountStore: stores.AccountStore,
		}

		if err := orchestrators.ExecuteChangePassword(r.Context(), input, deps); err != nil {
			renderTemplate(w, r, "change_password.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
			})
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}
