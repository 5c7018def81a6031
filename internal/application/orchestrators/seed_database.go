package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"qless/internal/config"
	"qless/internal/domain/account"
	"qless/internal/domain/facility"
	"qless/internal/domain/settings"
)

// SeedDeps holds stores needed by the database bootstrap.
type SeedDeps struct {
	FacilityStore seedFacilityStore
	AccountStore  seedAccountStore
	SettingsStore seedSettingsStore
}

type seedFacilityStore interface {
	Create(ctx context.Context, f facility.Facility) error
}

type seedAccountStore interface {
	Create(ctx context.Context, a account.Account) error
}

type seedSettingsStore interface {
	Set(ctx context.Context, s settings.Settings) error
}

// SeedItem records the outcome of one best-effort bootstrap write.
type SeedItem struct {
	Kind    string // "facility", "account", "settings"
	Name    string // facility name or account email
	Created bool
	Message string // failure detail when Created is false
}

// SeedReport carries the per-item outcomes of a bootstrap run. Individual
// item failures (e.g. duplicates on a second run) do not fail the run.
type SeedReport struct {
	Items []SeedItem
}

// CreatedCount returns how many items were actually written.
func (r SeedReport) CreatedCount() int {
	n := 0
	for _, item := range r.Items {
		if item.Created {
			n++
		}
	}
	return n
}

// facilityDef defines a single default facility to seed.
type facilityDef struct {
	Name                string
	Capacity            int
	Icon                string
	AvgMinutesPerPerson float64
	OpenHourStart       int
	OpenHourEnd         int
	Description         string
}

// defaultFacilities returns the fixed list of facilities provisioned on
// first run.
func defaultFacilities() []facilityDef {
	return []facilityDef{
		{
			Name:                "Food Sutra Mess Hall",
			Capacity:            200,
			Icon:                "🍽️",
			AvgMinutesPerPerson: 2,
			OpenHourStart:       7,
			OpenHourEnd:         22,
			Description:         "serving breakfast, lunch, and dinner",
		},
		{
			Name:                "Sheela Mess Hall",
			Capacity:            200,
			Icon:                "🍽️",
			AvgMinutesPerPerson: 2,
			OpenHourStart:       7,
			OpenHourEnd:         22,
			Description:         "serving breakfast, lunch, and dinner",
		},
		{
			Name:                "Surinder Arora Mess Hall",
			Capacity:            200,
			Icon:                "🍽️",
			AvgMinutesPerPerson: 2,
			OpenHourStart:       7,
			OpenHourEnd:         22,
			Description:         "serving breakfast, lunch, and dinner",
		},
	}
}

// seedAccountDef defines a single account provisioned by the bootstrap.
type seedAccountDef struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Fixed demo credentials, intended only for first-run demonstration.
const (
	SuperAdminPassword  = "superadmin123"
	SampleStudentEmail  = "student@iiti.ac.in"
	SampleStudentPass   = "student123"
	SampleAdminEmail    = "admin@iiti.ac.in"
	SampleAdminPassword = "admin123"
)

// seedAccounts builds the fixed account list: every configured super-admin
// plus exactly one sample student and one sample admin.
func seedAccounts(cfg config.Config) []seedAccountDef {
	var defs []seedAccountDef
	for _, email := range cfg.SuperAdminEmails {
		defs = append(defs, seedAccountDef{
			Email:    email,
			Password: SuperAdminPassword,
			Name:     "Super Admin User",
			Role:     account.RoleSuperAdmin,
		})
	}
	defs = append(defs,
		seedAccountDef{
			Email:    SampleStudentEmail,
			Password: SampleStudentPass,
			Name:     "Test Student",
			Role:     account.RoleStudent,
		},
		seedAccountDef{
			Email:    SampleAdminEmail,
			Password: SampleAdminPassword,
			Name:     "Test Admin",
			Role:     account.RoleAdmin,
		},
	)
	return defs
}

// ExecuteSeedDatabase provisions default facilities, the configured
// super-admin accounts, one sample student, one sample admin, and the
// settings singleton.
//
// Writes are best-effort batch creation, not a transaction: each item
// reports success or failure independently and a failure (typically a
// duplicate on a repeat run) never aborts the remaining items. Only the
// settings overwrite is unconditional. There is no rollback.
//
// PRE: The store connection is initialized (init failure is fatal upstream
// and aborts before any write).
// POST: Returns a per-item report; the returned error is non-nil only for
// the settings write, which has no duplicate-tolerance to hide behind.
func ExecuteSeedDatabase(ctx context.Context, deps SeedDeps, cfg config.Config, now time.Time) (SeedReport, error) {
	var report SeedReport

	for _, def := range defaultFacilities() {
		item := SeedItem{Kind: "facility", Name: def.Name}

		f := facility.Facility{
			ID:                  uuid.New().String(),
			Name:                def.Name,
			Capacity:            def.Capacity,
			Icon:                def.Icon,
			AvgMinutesPerPerson: def.AvgMinutesPerPerson,
			OpenHourStart:       def.OpenHourStart,
			OpenHourEnd:         def.OpenHourEnd,
			Description:         def.Description,
			CreatedAt:           now,
		}
		if err := f.Validate(); err != nil {
			item.Message = err.Error()
		} else if err := deps.FacilityStore.Create(ctx, f); err != nil {
			item.Message = err.Error()
		} else {
			item.Created = true
		}

		if item.Created {
			slog.Info("seed_event", "event", "facility_created", "name", def.Name)
		} else {
			slog.Warn("seed_event", "event", "facility_skipped", "name", def.Name, "reason", item.Message)
		}
		report.Items = append(report.Items, item)
	}

	for _, def := range seedAccounts(cfg) {
		item := SeedItem{Kind: "account", Name: def.Email}

		acct := account.Account{
			ID:        uuid.New().String(),
			Email:     def.Email,
			Name:      def.Name,
			Role:      def.Role,
			CreatedAt: now,
		}
		if err := acct.Validate(); err != nil {
			item.Message = err.Error()
		} else if err := acct.SetPassword(def.Password); err != nil {
			item.Message = err.Error()
		} else if err := deps.AccountStore.Create(ctx, acct); err != nil {
			item.Message = err.Error()
		} else {
			item.Created = true
		}

		if item.Created {
			slog.Info("seed_event", "event", "account_created", "email", def.Email, "role", def.Role)
		} else {
			slog.Warn("seed_event", "event", "account_skipped", "email", def.Email, "reason", item.Message)
		}
		report.Items = append(report.Items, item)
	}

	// Settings are overwritten unconditionally on every run — last writer
	// wins, no merge.
	snapshot := settings.Snapshot(cfg.AppName, cfg.AppVersion, cfg.AutoRefreshInterval, cfg.Features, now)
	if err := deps.SettingsStore.Set(ctx, snapshot); err != nil {
		return report, fmt.Errorf("write settings: %w", err)
	}
	report.Items = append(report.Items, SeedItem{Kind: "settings", Name: settings.Key, Created: true})
	slog.Info("seed_event", "event", "settings_initialized", "version", cfg.AppVersion)

	return report, nil
}
