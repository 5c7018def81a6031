package projections

import (
	"context"
	"sort"
	"time"

	"qless/internal/config"
	"qless/internal/domain/facility"
)

// QueueBoardFacilityStore defines the facility store interface needed by
// the queue board projection.
type QueueBoardFacilityStore interface {
	List(ctx context.Context) ([]facility.Facility, error)
}

// GetQueueBoardDeps holds dependencies for the queue board projection.
type GetQueueBoardDeps struct {
	FacilityStore QueueBoardFacilityStore
}

// BoardFacility is one facility row on the live queue board, with the
// derived queue status fields precomputed for rendering.
type BoardFacility struct {
	Facility    facility.Facility
	Ratio       float64
	Status      string // low, moderate, high
	WaitMinutes float64
	OpenNow     bool
}

// QueueBoardResult carries the output of the queue board projection.
type QueueBoardResult struct {
	Facilities  []BoardFacility
	GeneratedAt time.Time
}

// QueryGetQueueBoard builds the live occupancy board: every facility with
// its status band, estimated wait, and open/closed state at the given time.
// Facilities are ordered by name so the board is stable across refreshes.
func QueryGetQueueBoard(ctx context.Context, deps GetQueueBoardDeps, thresholds config.QueueThresholds, now time.Time) (QueueBoardResult, error) {
	list, err := deps.FacilityStore.List(ctx)
	if err != nil {
		return QueueBoardResult{}, err
	}

	rows := make([]BoardFacility, 0, len(list))
	for _, f := range list {
		rows = append(rows, BoardFacility{
			Facility:    f,
			Ratio:       f.OccupancyRatio(),
			Status:      f.StatusLevel(thresholds.Low, thresholds.Moderate),
			WaitMinutes: f.EstimatedWaitMinutes(),
			OpenNow:     f.IsOpenAt(now.Hour()),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Facility.Name < rows[j].Facility.Name
	})

	return QueueBoardResult{Facilities: rows, GeneratedAt: now}, nil
}
