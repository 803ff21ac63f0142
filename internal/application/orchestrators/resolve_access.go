package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"arcagym/internal/domain/access"
	"arcagym/internal/domain/geo"
	"arcagym/internal/domain/gymtime"
	"arcagym/internal/domain/member"
	"arcagym/internal/domain/payment"
	"arcagym/internal/domain/reservation"
	"arcagym/internal/domain/schedule"
)

// AccessMemberStore defines the member store interface the gate needs.
type AccessMemberStore interface {
	GetByDNI(ctx context.Context, dni string) (member.Member, error)
	ListSchedule(ctx context.Context, memberID string) ([]schedule.Entry, error)
}

// AccessPaymentStore defines the payment store interface the gate needs.
type AccessPaymentStore interface {
	ListByMember(ctx context.Context, memberID string) ([]payment.Log, error)
}

// AccessReservationStore defines the reservation store interface the gate needs.
type AccessReservationStore interface {
	ListByMember(ctx context.Context, memberID string) ([]*reservation.Manual, error)
}

// ResolveAccessInput carries one self-service entry request. Latitude and
// Longitude are only meaningful when HasLocation is true.
type ResolveAccessInput struct {
	DNI         string
	HasLocation bool
	Latitude    float64
	Longitude   float64
}

// ResolveAccessResult is the positive gate outcome: the member and the
// winning visit. The caller commits attendance separately.
type ResolveAccessResult struct {
	Member  member.Member
	Visit   access.ResolvedVisit
	Contact reservation.Contact // member profile, reservation fields as fallback
	Now     time.Time           // the clock capture the decision was made with
}

// ResolveAccessDeps holds dependencies for ResolveAccess.
type ResolveAccessDeps struct {
	Members      AccessMemberStore
	Payments     AccessPaymentStore
	Reservations AccessReservationStore
	Resolver     *gymtime.Resolver
	Fence        geo.Geofence
	Window       time.Duration
	Now          func() time.Time // defaults to time.Now
}

// ExecuteResolveAccess runs the eligibility gate for a kiosk entry request.
// The checks run in a fixed order and fail fast with a typed Rejection; any
// other error is an internal fault. The clock is captured exactly once and
// threaded through every time comparison.
// PRE: deps stores and Resolver are non-nil
// POST: On success Visit.AllowAccess is true and nothing has been persisted
func ExecuteResolveAccess(ctx context.Context, input ResolveAccessInput, deps ResolveAccessDeps) (ResolveAccessResult, error) {
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn()

	if input.DNI == "" {
		return ResolveAccessResult{}, access.Reject(access.CodeMissingCredential)
	}

	if !input.HasLocation {
		return ResolveAccessResult{}, access.Reject(access.CodeLocationRequired)
	}
	if !deps.Fence.Contains(geo.Coordinate{Latitude: input.Latitude, Longitude: input.Longitude}) {
		return ResolveAccessResult{}, access.Reject(access.CodeLocationOutOfRange)
	}

	m, err := deps.Members.GetByDNI(ctx, input.DNI)
	if err != nil {
		return ResolveAccessResult{}, access.Reject(access.CodeNotFound)
	}
	if !m.IsActive() {
		return ResolveAccessResult{}, access.Reject(access.CodeNotFound)
	}

	history, err := deps.Payments.ListByMember(ctx, m.ID)
	if err != nil {
		return ResolveAccessResult{}, err
	}
	if !payment.CurrentSameMonth(history, now, deps.Resolver.Location()) {
		return ResolveAccessResult{}, access.Reject(access.CodePaymentRequired)
	}

	manuals, err := deps.Reservations.ListByMember(ctx, m.ID)
	if err != nil {
		return ResolveAccessResult{}, err
	}
	weekly, err := deps.Members.ListSchedule(ctx, m.ID)
	if err != nil {
		return ResolveAccessResult{}, err
	}

	fallback := reservation.Contact{Name: m.FullName(), Phone: m.Phone, Email: m.Email}
	tagged, err := reservation.ResolveDay(reservation.MergeInput{
		MemberID: m.ID,
		Manuals:  manuals,
		Weekly:   weekly,
		Fallback: fallback,
		Now:      now,
	}, deps.Resolver)
	if err != nil {
		return ResolveAccessResult{}, err
	}

	window := deps.Window
	if window <= 0 {
		window = gymtime.DefaultAccessWindow
	}

	winner, ok := selectVisit(tagged, now, window)
	if !ok {
		return ResolveAccessResult{}, access.Reject(access.CodeNoActiveSlot)
	}

	slog.Info("access_event",
		"event", "access_granted",
		"member_id", m.ID,
		"visit_id", winner.Visit.VisitID(),
		"virtual", winner.IsVirtual,
		"at", now)

	return ResolveAccessResult{
		Member:  m,
		Visit:   access.ResolvedVisit{Visit: winner.Visit, IsVirtual: winner.IsVirtual, AllowAccess: true},
		Contact: effectiveContact(fallback, winner.Visit.ContactInfo()),
		Now:     now,
	}, nil
}

// selectVisit picks the first merged entry whose window admits now. Manual
// entries re-base on their recorded first access.
func selectVisit(tagged []reservation.Tagged, now time.Time, window time.Duration) (reservation.Tagged, bool) {
	for _, t := range tagged {
		base := t.Instant
		if m, isManual := t.Visit.(*reservation.Manual); isManual {
			base = m.WindowBase(t.Instant)
		}
		if gymtime.WithinWindow(base, now, window) {
			return t, true
		}
	}
	return reservation.Tagged{}, false
}

// effectiveContact prefers profile fields, falling back per field to what the
// winning reservation carries.
func effectiveContact(profile, visit reservation.Contact) reservation.Contact {
	out := profile
	if out.Name == "" {
		out.Name = visit.Name
	}
	if out.Phone == "" {
		out.Phone = visit.Phone
	}
	if out.Email == "" {
		out.Email = visit.Email
	}
	return out
}
