package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	"qless/internal/adapters/http/middleware"
	accountStore "qless/internal/adapters/storage/account"
	"qless/internal/application/orchestrators"
)

// handleFacilities handles GET (creation form) and POST (create) for
// /admin/facilities.
func handleFacilities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		tmpl := appConfig.FacilityDefault
		renderTemplate(w, r, "facility_form.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Template":  tmpl,
		})
		return
	}

	if r.Method == "POST" {
		input := orchestrators.CreateFacilityInput{}

		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.Name = r.FormValue("Name")
			input.Icon = r.FormValue("Icon")
			input.Description = r.FormValue("Description")
			input.Capacity, _ = strconv.Atoi(r.FormValue("Capacity"))
			input.AvgMinutesPerPerson, _ = strconv.ParseFloat(r.FormValue("AvgMinutesPerPerson"), 64)
			input.OpenHourStart, _ = strconv.Atoi(r.FormValue("OpenHourStart"))
			input.OpenHourEnd, _ = strconv.Atoi(r.FormValue("OpenHourEnd"))
		} else {
			if err := strictDecode(r, &input); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}

		deps := orchestrators.CreateFacilityDeps{
			FacilityStore: stores.FacilityStore,
		}
		if _, err := orchestrators.ExecuteCreateFacility(ctx, input, deps, appConfig.FacilityDefault); err != nil {
			if isHTML {
				renderTemplate(w, r, "facility_form.html", map[string]any{
					"CSRFToken": csrf.Token(r),
					"Template":  appConfig.FacilityDefault,
					"Error":     err.Error(),
				})
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if isHTML {
			http.Redirect(w, r, "/?view=admin", http.StatusSeeOther)
		} else {
			w.WriteHeader(http.StatusNoContent)
		}
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleOccupancyUpdate handles POST /admin/occupancy. The form either
// sets an absolute count (Occupancy) or applies a delta (Delta).
func handleOccupancyUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	isHTML := isHTMLRequest(r)

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.UpdateOccupancyInput{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.FacilityID = r.FormValue("FacilityID")
		if v := r.FormValue("Occupancy"); v != "" {
			input.Absolute = true
			input.SetTo, _ = strconv.Atoi(v)
		} else {
			input.Delta, _ = strconv.Atoi(r.FormValue("Delta"))
		}
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	deps := orchestrators.UpdateOccupancyDeps{
		FacilityStore: stores.FacilityStore,
	}
	result, err := orchestrators.ExecuteUpdateOccupancy(ctx, input, deps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Alert on the high band; a failed send never fails the update.
	notifyDeps := orchestrators.NotifyOccupancyDeps{
		SettingsStore: stores.SettingsStore,
		Sender:        emailSender,
	}
	if _, err := orchestrators.ExecuteNotifyHighOccupancy(ctx, result.Facility, notifyDeps, appConfig); err != nil {
		slog.Warn("facility_event", "event", "occupancy_alert_failed", "error", err.Error())
	}

	if isHTML {
		http.Redirect(w, r, "/?view=admin", http.StatusSeeOther)
	} else {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":        result.Facility.ID,
			"occupancy": result.Facility.Occupancy,
		})
	}
}

// handleAccountsPage handles GET /admin/accounts, listing accounts with
// optional role filtering and paging.
func handleAccountsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	const perPage = 25
	filter := accountStore.ListFilter{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
		Role:   r.URL.Query().Get("role"),
	}

	accounts, err := stores.AccountStore.List(ctx, filter)
	if err != nil {
		internalError(w, err)
		return
	}
	total, err := stores.AccountStore.Count(ctx)
	if err != nil {
		internalError(w, err)
		return
	}
	roleCounts, err := stores.AccountStore.CountByRole(ctx)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "accounts.html", map[string]any{
		"CSRFToken":  csrf.Token(r),
		"Accounts":   accounts,
		"Total":      total,
		"RoleCounts": roleCounts,
		"Page":       page,
		"PerPage":    perPage,
		"RoleFilter": filter.Role,
		"CanChangeRole": middleware.IsSuperAdmin(ctx),
	})
}

// handleChangeRole handles POST /admin/accounts/role (super_admin only).
func handleChangeRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	session, _ := middleware.GetSessionFromContext(r.Context())
	input := orchestrators.ChangeRoleInput{
		ActorID:   session.AccountID,
		AccountID: r.FormValue("AccountID"),
		NewRole:   r.FormValue("Role"),
	}
	deps := orchestrators.ChangeRoleDeps{
		AccountStore: stores.AccountStore,
	}

	if err := orchestrators.ExecuteChangeRole(r.Context(), input, deps); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/admin/accounts", http.StatusSeeOther)
}

// handleSettingsPage handles GET /admin/settings, showing the seeded
// application settings snapshot.
func handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	data := map[string]any{
		"AppName":    appConfig.AppName,
		"AppVersion": appConfig.AppVersion,
	}
	if current, err := stores.SettingsStore.Get(r.Context()); err == nil {
		data["Settings"] = current
	}

	renderTemplate(w, r, "settings.html", data)
}

// handlePerfDashboard handles GET /admin/perf, showing request and query
// timing percentiles from the in-memory collector.
func handlePerfDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	window := 15 * time.Minute
	if v := r.URL.Query().Get("window"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil && mins > 0 {
			window = time.Duration(mins) * time.Minute
		}
	}

	snap := perfCollector.Snapshot(timeNow().Add(-window), 20)
	renderTemplate(w, r, "perf.html", map[string]any{
		"Snapshot":   snap,
		"WindowMins": int(window.Minutes()),
	})
}
