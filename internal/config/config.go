package config

import (
	"os"
	"time"
)

// Config is the immutable application configuration. It is constructed once
// in main and passed explicitly to the components that need it; nothing in
// the codebase reads configuration from ambient globals.
type Config struct {
	AppName             string
	AppVersion          string
	PageIcon            string
	AutoRefreshInterval int // milliseconds, pushed into the settings snapshot

	// SuperAdminEmails is the fixed list of accounts provisioned with the
	// super_admin role by the seed procedure.
	SuperAdminEmails []string

	Thresholds      QueueThresholds
	FacilityDefault FacilityTemplate
	Theme           Theme

	SessionTimeout time.Duration

	// Feature flags included in the seeded settings snapshot. Both are off
	// by default.
	Features map[string]bool

	Env string // "development" or "production"
}

// QueueThresholds divides occupancy ratio into status bands.
// Below Low is "low"; between Low and Moderate is "moderate"; above
// Moderate is "high".
type QueueThresholds struct {
	Low      float64
	Moderate float64
}

// FacilityTemplate holds defaults applied when an admin creates a facility
// without specifying every field.
type FacilityTemplate struct {
	Capacity            int
	AvgMinutesPerPerson float64
	Icon                string
	OpenHourStart       int
	OpenHourEnd         int
}

// Theme carries the UI color palette handed to templates.
type Theme struct {
	Primary   string
	Secondary string
	Warning   string
	Danger    string
	Success   string
}

// Feature flag keys referenced by code.
const (
	FeatureNotifications = "notifications"
	FeaturePredictions   = "predictions"
)

// Default returns the stock configuration with env overrides applied.
func Default() Config {
	return Config{
		AppName:             "QLess",
		AppVersion:          "1.0.0",
		PageIcon:            "🎓",
		AutoRefreshInterval: 5000,
		SuperAdminEmails: []string{
			envOrDefault("QLESS_SUPER_ADMIN_EMAIL", "superadmin@iiti.ac.in"),
		},
		Thresholds: QueueThresholds{
			Low:      0.4,
			Moderate: 0.7,
		},
		FacilityDefault: FacilityTemplate{
			Capacity:            100,
			AvgMinutesPerPerson: 3,
			Icon:                "🏢",
			OpenHourStart:       8,
			OpenHourEnd:         22,
		},
		Theme: Theme{
			Primary:   "#4CAF50",
			Secondary: "#2196F3",
			Warning:   "#FFC107",
			Danger:    "#F44336",
			Success:   "#28a745",
		},
		SessionTimeout: 30 * time.Minute,
		Features: map[string]bool{
			FeatureNotifications: false,
			FeaturePredictions:   false,
		},
		Env: envOrDefault("QLESS_ENV", "development"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
