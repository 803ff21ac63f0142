package slot

import (
	"context"
	"time"

	domain "arcagym/internal/domain/slot"
)

// Store defines the persistence interface for slots.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Slot, error)
	Save(ctx context.Context, entity domain.Slot) error
	Delete(ctx context.Context, id string) error
	ListByDate(ctx context.Context, date time.Time) ([]domain.Slot, error)
}
