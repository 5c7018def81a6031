package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"qless/internal/adapters/email"
	"qless/internal/config"
	"qless/internal/domain/facility"
	"qless/internal/domain/settings"
)

// SettingsStoreForNotify defines the settings store interface needed by
// the occupancy alert.
type SettingsStoreForNotify interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// NotifyOccupancyDeps holds dependencies for the occupancy alert.
type NotifyOccupancyDeps struct {
	SettingsStore SettingsStoreForNotify
	Sender        email.Sender
}

// ExecuteNotifyHighOccupancy emails the configured super-admin list when a
// facility sits in the high occupancy band. The whole path is gated on the
// notifications feature flag, which is off after a stock seed, and a
// disabled flag or missing settings document is a silent no-op.
// PRE: f reflects the just-persisted facility state
// POST: Returns true when an alert was sent
func ExecuteNotifyHighOccupancy(ctx context.Context, f facility.Facility, deps NotifyOccupancyDeps, cfg config.Config) (bool, error) {
	if f.StatusLevel(cfg.Thresholds.Low, cfg.Thresholds.Moderate) != facility.StatusHigh {
		return false, nil
	}

	current, err := deps.SettingsStore.Get(ctx)
	if err != nil || !current.FeatureEnabled(settings.FeatureNotifications) {
		return false, nil
	}

	if len(cfg.SuperAdminEmails) == 0 || deps.Sender == nil {
		return false, nil
	}

	subject := fmt.Sprintf("%s: %s is at high occupancy", cfg.AppName, f.Name)
	body := fmt.Sprintf(
		"<p>%s %s is at %d of %d capacity (%.0f%%).</p><p>Estimated wait: %.0f minutes.</p>",
		f.Icon, f.Name, f.Occupancy, f.Capacity, f.OccupancyRatio()*100, f.EstimatedWaitMinutes(),
	)

	if _, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      cfg.SuperAdminEmails,
		Subject: subject,
		HTML:    body,
	}); err != nil {
		return false, fmt.Errorf("send occupancy alert: %w", err)
	}

	slog.Info("facility_event", "event", "occupancy_alert_sent", "name", f.Name, "occupancy", f.Occupancy)
	return true, nil
}
