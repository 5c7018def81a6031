package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"qless/internal/domain/facility"
)

// FacilityStoreForOccupancy defines the store interface needed by UpdateOccupancy.
type FacilityStoreForOccupancy interface {
	GetByID(ctx context.Context, id string) (facility.Facility, error)
	Save(ctx context.Context, f facility.Facility) error
}

// UpdateOccupancyInput carries input for the orchestrator. Exactly one of
// SetTo or Delta applies: when Absolute is true the count is replaced with
// SetTo, otherwise Delta is added (clamped at zero).
type UpdateOccupancyInput struct {
	FacilityID string
	Absolute   bool
	SetTo      int
	Delta      int
}

// UpdateOccupancyDeps holds dependencies for UpdateOccupancy.
type UpdateOccupancyDeps struct {
	FacilityStore FacilityStoreForOccupancy
}

// UpdateOccupancyResult carries the post-update facility state.
type UpdateOccupancyResult struct {
	Facility facility.Facility
}

var ErrMissingFacilityID = errors.New("facility id is required")

// ExecuteUpdateOccupancy applies an admin occupancy change to a facility.
// PRE: FacilityID refers to an existing facility
// POST: Occupancy updated and persisted; above-capacity counts are stored
// (and logged) rather than rejected
func ExecuteUpdateOccupancy(ctx context.Context, input UpdateOccupancyInput, deps UpdateOccupancyDeps) (UpdateOccupancyResult, error) {
	if input.FacilityID == "" {
		return UpdateOccupancyResult{}, ErrMissingFacilityID
	}

	f, err := deps.FacilityStore.GetByID(ctx, input.FacilityID)
	if err != nil {
		return UpdateOccupancyResult{}, err
	}

	if input.Absolute {
		if err := f.SetOccupancy(input.SetTo); err != nil {
			return UpdateOccupancyResult{}, err
		}
	} else {
		f.AdjustOccupancy(input.Delta)
	}

	if err := deps.FacilityStore.Save(ctx, f); err != nil {
		return UpdateOccupancyResult{}, err
	}

	if f.Occupancy > f.Capacity {
		slog.Warn("facility_event", "event", "occupancy_above_capacity", "name", f.Name, "occupancy", f.Occupancy, "capacity", f.Capacity)
	}
	slog.Info("facility_event", "event", "occupancy_updated", "name", f.Name, "occupancy", f.Occupancy, "capacity", f.Capacity)

	return UpdateOccupancyResult{Facility: f}, nil
}
