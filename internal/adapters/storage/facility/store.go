package facility

import (
	"context"
	"errors"

	domain "qless/internal/domain/facility"
)

// ErrNameExists is returned by Create when a facility with the same name
// already exists. Name uniqueness is enforced at the store boundary so the
// seed procedure can distinguish a duplicate from a real failure.
var ErrNameExists = errors.New("a facility with this name already exists")

// ErrNotFound is returned when no facility matches the lookup.
var ErrNotFound = errors.New("facility not found")

// Store persists Facility state.
type Store interface {
	Create(ctx context.Context, value domain.Facility) error
	GetByID(ctx context.Context, id string) (domain.Facility, error)
	GetByName(ctx context.Context, name string) (domain.Facility, error)
	Save(ctx context.Context, value domain.Facility) error
	List(ctx context.Context) ([]domain.Facility, error)
	Count(ctx context.Context) (int, error)
}
