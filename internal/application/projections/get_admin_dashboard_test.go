package projections

import (
	"context"
	"testing"
	"time"

	settingsStore "qless/internal/adapters/storage/settings"
	"qless/internal/config"
	"qless/internal/domain/account"
	"qless/internal/domain/facility"
	"qless/internal/domain/settings"
)

type mockAdminDashboardAccountStore struct {
	roleCounts map[string]int
}

// Count returns the total across all roles.
// POST: Returns count >= 0
func (m *mockAdminDashboardAccountStore) Count(_ context.Context) (int, error) {
	total := 0
	for _, n := range m.roleCounts {
		total += n
	}
	return total, nil
}

// CountByRole returns the seeded per-role counts.
// POST: Returns the seeded map
func (m *mockAdminDashboardAccountStore) CountByRole(_ context.Context) (map[string]int, error) {
	return m.roleCounts, nil
}

type mockAdminDashboardSettingsStore struct {
	current *settings.Settings
}

// Get returns the seeded settings or ErrNotFound.
// POST: Returns the singleton when seeded
func (m *mockAdminDashboardSettingsStore) Get(_ context.Context) (settings.Settings, error) {
	if m.current == nil {
		return settings.Settings{}, settingsStore.ErrNotFound
	}
	return *m.current, nil
}

func TestQueryGetAdminDashboard_Aggregates(t *testing.T) {
	fs := &mockQueueBoardFacilityStore{facilities: []facility.Facility{
		boardTestFacility("Food Sutra Mess Hall", 200, 50),
		boardTestFacility("Sheela Mess Hall", 200, 180),
	}}
	current := settings.Snapshot("QLess", "1.0.0", 5000, map[string]bool{}, time.Now())
	deps := GetAdminDashboardDeps{
		FacilityStore: fs,
		AccountStore:  &mockAdminDashboardAccountStore{roleCounts: map[string]int{
			account.RoleStudent:    10,
			account.RoleAdmin:      2,
			account.RoleSuperAdmin: 1,
		}},
		SettingsStore: &mockAdminDashboardSettingsStore{current: &current},
	}

	result, err := QueryGetAdminDashboard(context.Background(), deps, config.Default().Thresholds, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TotalCapacity != 400 || result.TotalOccupancy != 230 {
		t.Errorf("totals = %d/%d, want 400/230", result.TotalOccupancy, result.TotalCapacity)
	}
	if result.StatusCounts[facility.StatusLow] != 1 || result.StatusCounts[facility.StatusHigh] != 1 {
		t.Errorf("unexpected status counts: %v", result.StatusCounts)
	}
	if result.TotalAccounts != 13 {
		t.Errorf("TotalAccounts = %d, want 13", result.TotalAccounts)
	}
	if result.RoleCounts[account.RoleAdmin] != 2 {
		t.Errorf("RoleCounts = %v", result.RoleCounts)
	}
	if result.Settings == nil || result.Settings.AppName != "QLess" {
		t.Errorf("settings snapshot missing from dashboard: %+v", result.Settings)
	}
}

// TestQueryGetAdminDashboard_RolelessAccountsCountAsStudents verifies rows
// persisted without a role fold into the student bucket.
func TestQueryGetAdminDashboard_RolelessAccountsCountAsStudents(t *testing.T) {
	deps := GetAdminDashboardDeps{
		FacilityStore: &mockQueueBoardFacilityStore{},
		AccountStore: &mockAdminDashboardAccountStore{roleCounts: map[string]int{
			account.RoleStudent: 4,
			"":                  2,
		}},
		SettingsStore: &mockAdminDashboardSettingsStore{},
	}

	result, err := QueryGetAdminDashboard(context.Background(), deps, config.Default().Thresholds, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RoleCounts[account.RoleStudent] != 6 {
		t.Errorf("student count = %d, want 6", result.RoleCounts[account.RoleStudent])
	}
}

// TestQueryGetAdminDashboard_MissingSettings verifies the page still
// renders before the first bootstrap run.
func TestQueryGetAdminDashboard_MissingSettings(t *testing.T) {
	deps := GetAdminDashboardDeps{
		FacilityStore: &mockQueueBoardFacilityStore{},
		AccountStore:  &mockAdminDashboardAccountStore{},
		SettingsStore: &mockAdminDashboardSettingsStore{},
	}

	result, err := QueryGetAdminDashboard(context.Background(), deps, config.Default().Thresholds, time.Now())
	if err != nil {
		t.Fatalf("missing settings must not fail the dashboard: %v", err)
	}
	if result.Settings != nil {
		t.Error("Settings should be nil before bootstrap")
	}
}
