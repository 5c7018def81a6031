package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"qless/internal/adapters/storage"
	domain "qless/internal/domain/settings"
)

// SQLiteStore implements Store using SQLite.
//
// Feature flags are stored as a JSON object in a single column: the flag set
// is an open mapping (name -> bool) per the settings contract, so fixed
// boolean columns would ossify it.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SettingsStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the settings singleton.
// PRE: none
// POST: Returns the singleton or ErrNotFound before first bootstrap
func (s *SQLiteStore) Get(ctx context.Context) (domain.Settings, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT app_name, version, initialized_at, auto_refresh_interval, features
		FROM settings
		WHERE key = ?
	`, domain.Key)

	var entity domain.Settings
	var initializedAt, featuresJSON string
	err := row.Scan(&entity.AppName, &entity.Version, &initializedAt, &entity.AutoRefreshInterval, &featuresJSON)
	if err == sql.ErrNoRows {
		return domain.Settings{}, ErrNotFound
	}
	if err != nil {
		return domain.Settings{}, err
	}

	entity.InitializedAt, _ = time.Parse(time.RFC3339Nano, initializedAt)
	if err := json.Unmarshal([]byte(featuresJSON), &entity.Features); err != nil {
		return domain.Settings{}, fmt.Errorf("corrupt features column: %w", err)
	}
	return entity, nil
}

// Set overwrites the settings singleton wholesale at the fixed key.
// PRE: value has been validated
// POST: The singleton reflects value; any previous document is replaced
func (s *SQLiteStore) Set(ctx context.Context, value domain.Settings) error {
	featuresJSON, err := json.Marshal(value.Features)
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, app_name, version, initialized_at, auto_refresh_interval, features)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			app_name=excluded.app_name,
			version=excluded.version,
			initialized_at=excluded.initialized_at,
			auto_refresh_interval=excluded.auto_refresh_interval,
			features=excluded.features
	`, domain.Key,
		value.AppName,
		value.Version,
		value.InitializedAt.Format(time.RFC3339Nano),
		value.AutoRefreshInterval,
		string(featuresJSON),
	)
	return err
}
