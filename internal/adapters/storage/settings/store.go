package settings

import (
	"context"
	"errors"

	domain "qless/internal/domain/settings"
)

// ErrNotFound is returned by Get before the first bootstrap run has
// written the singleton.
var ErrNotFound = errors.New("settings not initialized")

// Store persists the Settings singleton at a fixed key. Set is a wholesale
// overwrite — last writer wins, no merge.
type Store interface {
	Get(ctx context.Context) (domain.Settings, error)
	Set(ctx context.Context, value domain.Settings) error
}
