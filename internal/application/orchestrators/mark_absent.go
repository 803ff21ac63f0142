package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"arcagym/internal/domain/gymtime"
	"arcagym/internal/domain/reservation"
)

// AbsenceStore defines the reservation store interface for absence marking.
type AbsenceStore interface {
	GetByID(ctx context.Context, id string) (*reservation.Manual, error)
	MarkAbsent(ctx context.Context, id string) error
}

// MarkAbsentInput carries the staff absence request.
type MarkAbsentInput struct {
	ReservationID string
}

// MarkAbsentDeps holds dependencies for MarkAbsent.
type MarkAbsentDeps struct {
	Reservations AbsenceStore
	Resolver     *gymtime.Resolver
	Window       time.Duration
	Now          func() time.Time
}

// ExecuteMarkAbsent sets a manual reservation's attendance to absent. The
// action is refused while the access window is still open, because the member
// could still legitimately arrive, and refused outright once a check-in has
// been recorded.
// PRE: ReservationID is non-empty
// POST: attended is absent, or a typed domain error explains the refusal
func ExecuteMarkAbsent(ctx context.Context, input MarkAbsentInput, deps MarkAbsentDeps) error {
	if input.ReservationID == "" {
		return errors.New("reservation id is required")
	}
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn()

	r, err := deps.Reservations.GetByID(ctx, input.ReservationID)
	if err != nil {
		return err
	}
	if r.HasAccessed() {
		return reservation.ErrAlreadyAccessed
	}

	window := deps.Window
	if window <= 0 {
		window = gymtime.DefaultAccessWindow
	}
	instant, err := deps.Resolver.SlotInstant(r.SlotDate, r.SlotTime)
	if err != nil {
		return err
	}
	if now.Before(instant.Add(window)) {
		return reservation.ErrWindowStillOpen
	}

	if err := r.MarkAbsent(); err != nil {
		return err
	}
	if err := deps.Reservations.MarkAbsent(ctx, r.ID); err != nil {
		return err
	}

	slog.Info("access_event",
		"event", "marked_absent",
		"reservation_id", r.ID,
		"member_id", r.MemberID,
		"at", now)
	return nil
}
