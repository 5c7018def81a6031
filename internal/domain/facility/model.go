package facility

import (
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength        = 120
	MaxDescriptionLength = 2000
)

// Queue status levels derived from the occupancy ratio.
const (
	StatusLow      = "low"
	StatusModerate = "moderate"
	StatusHigh     = "high"
)

// Domain errors
var (
	ErrEmptyName          = errors.New("facility name cannot be empty")
	ErrNameTooLong        = errors.New("facility name cannot exceed 120 characters")
	ErrInvalidCapacity    = errors.New("capacity must be greater than zero")
	ErrNegativeOccupancy  = errors.New("occupancy cannot be negative")
	ErrInvalidAvgTime     = errors.New("average minutes per person must be greater than zero")
	ErrInvalidOpenHours   = errors.New("open hours must be within 0-23 with start before end")
	ErrDescriptionTooLong = errors.New("description cannot exceed 2000 characters")
)

// Facility holds state for a physical service point (e.g. a mess hall)
// whose occupancy is tracked for queue display.
type Facility struct {
	ID                  string
	Name                string
	Capacity            int
	Occupancy           int
	Icon                string
	AvgMinutesPerPerson float64
	OpenHourStart       int // hour of day, 0-23
	OpenHourEnd         int // hour of day, 0-23, exclusive
	Description         string // markdown, rendered in the student view
	CreatedAt           time.Time
}

// Validate checks if the Facility has valid data.
// PRE: Facility struct is populated
// POST: Returns nil if valid, error otherwise
func (f *Facility) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	if len(f.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if f.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if f.Occupancy < 0 {
		return ErrNegativeOccupancy
	}
	if f.AvgMinutesPerPerson <= 0 {
		return ErrInvalidAvgTime
	}
	if f.OpenHourStart < 0 || f.OpenHourStart > 23 || f.OpenHourEnd < 0 || f.OpenHourEnd > 23 || f.OpenHourStart >= f.OpenHourEnd {
		return ErrInvalidOpenHours
	}
	if len(f.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// OccupancyRatio returns occupancy as a fraction of capacity.
// The ratio may exceed 1.0 — occupancy above capacity is tolerated.
// INVARIANT: Facility fields are not mutated
func (f Facility) OccupancyRatio() float64 {
	if f.Capacity <= 0 {
		return 0
	}
	return float64(f.Occupancy) / float64(f.Capacity)
}

// StatusLevel classifies the occupancy ratio against the given thresholds.
// Below low is "low"; up to and including moderate is "moderate";
// above moderate is "high".
// INVARIANT: Facility fields are not mutated
func (f Facility) StatusLevel(low, moderate float64) string {
	ratio := f.OccupancyRatio()
	switch {
	case ratio < low:
		return StatusLow
	case ratio <= moderate:
		return StatusModerate
	default:
		return StatusHigh
	}
}

// EstimatedWaitMinutes returns the linear wait estimate for a new arrival:
// current occupancy times the average service time per person.
// INVARIANT: Facility fields are not mutated
func (f Facility) EstimatedWaitMinutes() float64 {
	if f.Occupancy <= 0 {
		return 0
	}
	return float64(f.Occupancy) * f.AvgMinutesPerPerson
}

// IsOpenAt reports whether the facility is open at the given hour of day.
// INVARIANT: Facility fields are not mutated
func (f Facility) IsOpenAt(hour int) bool {
	return hour >= f.OpenHourStart && hour < f.OpenHourEnd
}

// SetOccupancy replaces the occupancy count. Negative values are rejected;
// values above capacity are stored but logged, per the admin-managed
// counting model (capacity is a display threshold, not a hard limit).
// PRE: Facility exists
// POST: Occupancy is updated or an error returned
func (f *Facility) SetOccupancy(count int) error {
	if count < 0 {
		return ErrNegativeOccupancy
	}
	if count > f.Capacity {
		slog.Warn("facility_event", "event", "occupancy_above_capacity", "facility", f.Name, "occupancy", count, "capacity", f.Capacity)
	}
	f.Occupancy = count
	return nil
}

// AdjustOccupancy applies a signed delta to the occupancy, clamping at zero.
// PRE: Facility exists
// POST: Occupancy is updated, never below zero
func (f *Facility) AdjustOccupancy(delta int) {
	next := f.Occupancy + delta
	if next < 0 {
		next = 0
	}
	_ = f.SetOccupancy(next)
}
