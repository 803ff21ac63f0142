package payment

import (
	"context"

	domain "arcagym/internal/domain/payment"
)

// Store defines the persistence interface for payment logs.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Log, error)
	Save(ctx context.Context, entity domain.Log) error
	Delete(ctx context.Context, id string) error
	ListByMember(ctx context.Context, memberID string) ([]domain.Log, error)
	Latest(ctx context.Context, memberID string) (domain.Log, bool, error)
}
