package projections

import (
	"context"
	"time"

	"qless/internal/config"
	"qless/internal/domain/account"
	"qless/internal/domain/facility"
	"qless/internal/domain/settings"
)

// AdminDashboardFacilityStore defines the facility store interface needed
// by the admin dashboard projection.
type AdminDashboardFacilityStore interface {
	List(ctx context.Context) ([]facility.Facility, error)
}

// AdminDashboardAccountStore defines the account store interface needed by
// the admin dashboard projection.
type AdminDashboardAccountStore interface {
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

// AdminDashboardSettingsStore defines the settings store interface needed
// by the admin dashboard projection.
type AdminDashboardSettingsStore interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// GetAdminDashboardDeps holds dependencies for the admin dashboard projection.
type GetAdminDashboardDeps struct {
	FacilityStore AdminDashboardFacilityStore
	AccountStore  AdminDashboardAccountStore
	SettingsStore AdminDashboardSettingsStore
}

// AdminDashboardResult carries the output of the admin dashboard projection.
type AdminDashboardResult struct {
	Facilities     []BoardFacility
	TotalCapacity  int
	TotalOccupancy int

	// Count of facilities in each status band.
	StatusCounts map[string]int

	TotalAccounts int
	RoleCounts    map[string]int

	// Settings is nil before the first bootstrap run.
	Settings *settings.Settings
}

// QueryGetAdminDashboard aggregates the admin overview: the full queue
// board plus capacity totals, account counts per role, and the settings
// snapshot. A missing settings document leaves Settings nil rather than
// failing the whole page.
func QueryGetAdminDashboard(ctx context.Context, deps GetAdminDashboardDeps, thresholds config.QueueThresholds, now time.Time) (AdminDashboardResult, error) {
	board, err := QueryGetQueueBoard(ctx, GetQueueBoardDeps{FacilityStore: deps.FacilityStore}, thresholds, now)
	if err != nil {
		return AdminDashboardResult{}, err
	}

	result := AdminDashboardResult{
		Facilities:   board.Facilities,
		StatusCounts: map[string]int{},
		RoleCounts:   map[string]int{},
	}
	for _, row := range board.Facilities {
		result.TotalCapacity += row.Facility.Capacity
		result.TotalOccupancy += row.Facility.Occupancy
		result.StatusCounts[row.Status]++
	}

	if total, err := deps.AccountStore.Count(ctx); err == nil {
		result.TotalAccounts = total
	}
	if counts, err := deps.AccountStore.CountByRole(ctx); err == nil {
		// Accounts persisted without a role count as students.
		for role, n := range counts {
			result.RoleCounts[account.RoleOrStudent(role)] += n
		}
	}

	if current, err := deps.SettingsStore.Get(ctx); err == nil {
		result.Settings = &current
	}

	return result, nil
}
