package facility

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"qless/internal/adapters/storage"
	domain "qless/internal/domain/facility"
)

const facilityColumns = "id, name, capacity, occupancy, icon, avg_minutes_per_person, open_hour_start, open_hour_end, description, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new FacilityStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create inserts a new Facility, enforcing name uniqueness.
// PRE: entity has been validated
// POST: Entity is persisted, or ErrNameExists if the name is taken
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Facility) error {
	query := fmt.Sprintf("INSERT INTO facility (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", facilityColumns)
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Capacity,
		entity.Occupancy,
		entity.Icon,
		entity.AvgMinutesPerPerson,
		entity.OpenHourStart,
		entity.OpenHourEnd,
		entity.Description,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		// The facility.name column carries a UNIQUE constraint.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrNameExists
		}
		return err
	}
	return nil
}

// GetByID retrieves a Facility by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Facility, error) {
	query := fmt.Sprintf("SELECT %s FROM facility WHERE id = ?", facilityColumns)
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanFacility(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Facility{}, ErrNotFound
	}
	return entity, err
}

// GetByName retrieves a Facility by its unique name.
// PRE: name is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Facility, error) {
	query := fmt.Sprintf("SELECT %s FROM facility WHERE name = ?", facilityColumns)
	row := s.db.QueryRowContext(ctx, query, name)

	entity, err := scanFacility(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Facility{}, ErrNotFound
	}
	return entity, err
}

// Save persists an existing Facility (insert or update by id).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Facility) error {
	query := fmt.Sprintf(`INSERT INTO facility (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			capacity=excluded.capacity,
			occupancy=excluded.occupancy,
			icon=excluded.icon,
			avg_minutes_per_person=excluded.avg_minutes_per_person,
			open_hour_start=excluded.open_hour_start,
			open_hour_end=excluded.open_hour_end,
			description=excluded.description`, facilityColumns)

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Capacity,
		entity.Occupancy,
		entity.Icon,
		entity.AvgMinutesPerPerson,
		entity.OpenHourStart,
		entity.OpenHourEnd,
		entity.Description,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// List retrieves all facilities ordered by name.
// PRE: none
// POST: Returns all persisted facilities
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Facility, error) {
	query := fmt.Sprintf("SELECT %s FROM facility ORDER BY name", facilityColumns)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Facility
	for rows.Next() {
		entity, err := scanFacility(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of facilities.
// PRE: none
// POST: Returns total facility count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM facility").Scan(&count)
	return count, err
}

// scanFacility extracts a Facility from a row scanner function.
func scanFacility(scan func(dest ...any) error) (domain.Facility, error) {
	var entity domain.Facility
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.Capacity,
		&entity.Occupancy,
		&entity.Icon,
		&entity.AvgMinutesPerPerson,
		&entity.OpenHourStart,
		&entity.OpenHourEnd,
		&entity.Description,
		&createdAt,
	)
	if err != nil {
		return domain.Facility{}, err
	}
	entity.CreatedAt, _ = parseTime(createdAt)
	return entity, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
