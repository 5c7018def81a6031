package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"qless/internal/config"
	"qless/internal/domain/facility"
)

// FacilityStoreForCreate defines the store interface needed by CreateFacility.
type FacilityStoreForCreate interface {
	Create(ctx context.Context, f facility.Facility) error
}

// CreateFacilityInput carries input for the orchestrator. Zero-valued
// numeric fields and an empty icon fall back to the configured facility
// template.
type CreateFacilityInput struct {
	Name                string
	Capacity            int
	Icon                string
	AvgMinutesPerPerson float64
	OpenHourStart       int
	OpenHourEnd         int
	Description         string
}

// CreateFacilityDeps holds dependencies for CreateFacility.
type CreateFacilityDeps struct {
	FacilityStore FacilityStoreForCreate
}

var ErrEmptyFacilityName = errors.New("facility name cannot be empty")

// ExecuteCreateFacility coordinates facility creation by an admin.
// PRE: Name is non-empty; template defaults fill unset fields
// POST: Facility created with a fresh ID and zero occupancy
func ExecuteCreateFacility(ctx context.Context, input CreateFacilityInput, deps CreateFacilityDeps, tmpl config.FacilityTemplate) (string, error) {
	if input.Name == "" {
		return "", ErrEmptyFacilityName
	}

	f := facility.Facility{
		ID:                  uuid.New().String(),
		Name:                input.Name,
		Capacity:            input.Capacity,
		Icon:                input.Icon,
		AvgMinutesPerPerson: input.AvgMinutesPerPerson,
		OpenHourStart:       input.OpenHourStart,
		OpenHourEnd:         input.OpenHourEnd,
		Description:         input.Description,
		CreatedAt:           time.Now(),
	}

	// Apply the configured template for anything the form left unset.
	if f.Capacity == 0 {
		f.Capacity = tmpl.Capacity
	}
	if f.Icon == "" {
		f.Icon = tmpl.Icon
	}
	if f.AvgMinutesPerPerson == 0 {
		f.AvgMinutesPerPerson = tmpl.AvgMinutesPerPerson
	}
	if f.OpenHourStart == 0 && f.OpenHourEnd == 0 {
		f.OpenHourStart = tmpl.OpenHourStart
		f.OpenHourEnd = tmpl.OpenHourEnd
	}

	if err := f.Validate(); err != nil {
		return "", err
	}

	if err := deps.FacilityStore.Create(ctx, f); err != nil {
		return "", err
	}

	slog.Info("facility_event", "event", "facility_created", "name", f.Name, "capacity", f.Capacity)

	return f.ID, nil
}
