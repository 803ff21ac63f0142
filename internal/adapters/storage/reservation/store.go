package reservation

import (
	"context"
	"time"

	domain "arcagym/internal/domain/reservation"
)

// Store defines the persistence interface for manual reservations.
type Store interface {
	GetByID(ctx context.Context, id string) (*domain.Manual, error)
	Save(ctx context.Context, entity *domain.Manual) error
	Delete(ctx context.Context, id string) error
	ListByMember(ctx context.Context, memberID string) ([]*domain.Manual, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Manual, error)

	// MarkAccessed records the first check-in on a reservation. The update
	// only applies when accessed_at is still unset; it reports whether the
	// row was written.
	MarkAccessed(ctx context.Context, id string, at time.Time) (bool, error)

	// MarkAbsent sets the attendance mark to absent.
	MarkAbsent(ctx context.Context, id string) error
}
