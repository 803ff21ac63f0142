package member

import (
	"context"

	domain "arcagym/internal/domain/member"
	scheduleDomain "arcagym/internal/domain/schedule"
)

// Store persists Member state and the attached weekly habitual schedule.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByDNI(ctx context.Context, dni string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	ListActive(ctx context.Context) ([]domain.Member, error)
	ListSchedule(ctx context.Context, memberID string) ([]scheduleDomain.Entry, error)
	SaveScheduleEntry(ctx context.Context, entry scheduleDomain.Entry) error
	DeleteScheduleEntry(ctx context.Context, id string) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Status string // optional: active, inactive
	Limit  int
	Offset int
}
