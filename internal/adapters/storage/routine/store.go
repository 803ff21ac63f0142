package routine

import (
	"context"

	domain "arcagym/internal/domain/routine"
)

// Store defines the persistence interface for training routines.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Routine, error)
	Save(ctx context.Context, entity domain.Routine) error
	Delete(ctx context.Context, id string) error
	ListByMember(ctx context.Context, memberID string) ([]domain.Routine, error)
}
