package settings

import (
	"errors"
	"time"
)

// Key is the fixed path the singleton is stored under.
const Key = "settings"

// Feature flag names carried in the settings snapshot.
const (
	FeatureNotifications = "notifications"
	FeaturePredictions   = "predictions"
)

var (
	ErrMissingAppName = errors.New("settings app name is required")
	ErrMissingVersion = errors.New("settings version is required")
)

// Settings is the application-wide singleton. Exactly one instance exists;
// each bootstrap run overwrites it wholesale (last-writer-wins, no merge).
type Settings struct {
	AppName             string
	Version             string
	InitializedAt       time.Time
	AutoRefreshInterval int // milliseconds
	Features            map[string]bool
}

// Validate checks required fields for a Settings snapshot.
// PRE: Settings struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (s *Settings) Validate() error {
	if s.AppName == "" {
		return ErrMissingAppName
	}
	if s.Version == "" {
		return ErrMissingVersion
	}
	return nil
}

// FeatureEnabled reports whether the named feature flag is on.
// Unknown flags are off.
// INVARIANT: s is not mutated
func (s Settings) FeatureEnabled(name string) bool {
	return s.Features[name]
}

// Snapshot builds a fresh settings document stamped at the given time.
// The features map is copied so later mutation of the input cannot alias
// the stored snapshot.
func Snapshot(appName, version string, refreshInterval int, features map[string]bool, now time.Time) Settings {
	copied := make(map[string]bool, len(features))
	for k, v := range features {
		copied[k] = v
	}
	return Settings{
		AppName:             appName,
		Version:             version,
		InitializedAt:       now,
		AutoRefreshInterval: refreshInterval,
		Features:            copied,
	}
}
