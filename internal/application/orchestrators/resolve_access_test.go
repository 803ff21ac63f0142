package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"arcagym/internal/domain/access"
	"arcagym/internal/domain/member"
	"arcagym/internal/domain/payment"
	"arcagym/internal/domain/reservation"
	"arcagym/internal/domain/schedule"
)

// gateFixture wires a complete gate with one active, paid-up member.
type gateFixture struct {
	members      *mockMemberStore
	payments     *mockPaymentStore
	reservations *mockReservationStore
	deps         ResolveAccessDeps
}

// newGateFixture sets up member m-1 (DNI 30123456) with a payment in the
// month of now.
func newGateFixture(t *testing.T, now time.Time) *gateFixture {
	t.Helper()
	f := &gateFixture{
		members:      newMockMemberStore(),
		payments:     newMockPaymentStore(),
		reservations: newMockReservationStore(),
	}
	f.members.members["30123456"] = member.Member{
		ID: "m-1", DNI: "30123456", FirstName: "Ana", LastName: "Gomez",
		Phone: "1155550000", Status: member.StatusActive,
	}
	f.payments.payments["m-1"] = []payment.Log{
		{ID: "p-1", MemberID: "m-1", Date: now.AddDate(0, 0, -3), Amount: 25000},
	}
	f.deps = ResolveAccessDeps{
		Members:      f.members,
		Payments:     f.payments,
		Reservations: f.reservations,
		Resolver:     testResolver(t),
		Fence:        testFence,
		Window:       2 * time.Hour,
		Now:          fixedClock(now),
	}
	return f
}

func onSiteInput(dni string) ResolveAccessInput {
	return ResolveAccessInput{
		DNI:         dni,
		HasLocation: true,
		Latitude:    testCenter.Latitude,
		Longitude:   testCenter.Longitude,
	}
}

func wantRejection(t *testing.T, err error, code access.ReasonCode) {
	t.Helper()
	var rej *access.Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected a Rejection, got %v", err)
	}
	if rej.Code != code {
		t.Fatalf("expected code %s, got %s", code, rej.Code)
	}
}

// baTime builds an instant in the gym's zone.
func baTime(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func TestResolveAccess_MissingCredential(t *testing.T) {
	now := baTime(t, 2026, time.March, 10, 10, 0)
	f := newGateFixture(t, now)

	_, err := ExecuteResolveAccess(context.Background(), onSiteInput(""), f.deps)
	wantRejection(t, err, access.CodeMissingCredential)
}

func TestResolveAccess_LocationRequired(t *testing.T) {
	now := baTime(t, 2026, time.March, 10, 10, 0)
	f := newGateFixture(t, now)

	_, err := ExecuteResolveAccess(context.Background(), ResolveAccessInput{DNI: "30123456"}, f.deps)
	wantRejection(t, err, access.CodeLocationRequired)
}

func TestResolveAccess_LocationOutOfRange(t *testing.T) {
	now := baTime(t, 2026, time.March, 10, 10, 0)
	f := newGateFixture(t, now)

	input := onSiteInput("30123456")
	input.Latitude += 0.01 // ~1.1km north
	_, err := ExecuteResolveAccess(context.Background(), input, f.deps)
	wantRejection(t, err, access.CodeLocationOutOfRange)
}

func TestResolveAccess_UnknownDNI(t *testing.T) {
	now := baTime(t, 2026, time.March, 10, 10, 0)
	f := newGateFixture(t, now)

	_, err := ExecuteResolveAccess(context.Background(), onSiteInput("99999999"), f.deps)
	wantRejection(t, err, access.CodeNotFound)
}

func TestResolveAccess_InactiveMember(t *testing.T) {
	now := baTime(t, 2026, time.March, 10, 10, 0)
	f := newGateFixture(t, now)
	m := f.members.members["30123456"]
	m.Status = member.StatusInactive
	f.members.members["30123456"] = m

	_, err := ExecuteResolveAccess(context.Background(), onSiteInput("30123456"), f.deps)
	wantRejection(t, err, access.CodeNotFound)
}

func TestResolveAccess_PaymentRequired(t *testing.T) {
	// Payment on March 1 does not cover April 1, even though fewer than 31
	// days elapsed.
	now := baTime(t, 2026, time.April, 1, 10, 0)
	f := newGateFixture(t, now)
	f.payments.payments["m-1"] = []payment.Log{
		{ID: "p-1", MemberID: "m-1", Date: baTime(t, 2026, time.March, 1, 12, 0), Amount: 25000},
	}

	_, err := ExecuteResolveAccess(context.Background(), onSiteInput("30123456"), f.deps)
	wantRejection(t, err, access.CodePaymentRequired)
}

func TestResolveAccess_ManualWithinWindow(t *testing.T) {
	// Scenario: 09:00 reservation, arrival 10:30. Window still open.
	now := baTime(t, 2026, time.March, 10, 10, 30)
	f := newGateFixture(t, now)
	f.reservations.manuals["r-1"] = &reservation.Manual{
		ID: "r-1", MemberID: "m-1", SlotID: "s-1",
		SlotDate: baTime(t, 2026, time.March, 10, 0, 0), SlotTime: "09:00",
	}

	result, err := ExecuteResolveAccess(context.Background(), onSiteInput("30123456"), f.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Visit.AllowAccess {
		t.Error("expected access granted")
	}
	if result.Visit.IsVirtual {
		t.Error("expected a manual visit")
	}
	if result.Visit.Visit.VisitID() != "r-1" {
		t.Errorf("expected visit r-1, got %s", result.Visit.Visit.VisitID())
	}
	if !result.Now.Equal(now) {
		t.Errorf("expected the gate's clock capture in the result, got %v", result.Now)
	}
}

func TestResolveAccess_ManualWindowExpired(t *testing.T) {
	// Same reservation one minute past the window edge.
	now := baTime(t, 2026, time.March, 10, 11, 1)
	f := newGateFixture(t, now)
	f.reservations.manuals["r-1"] = &reservation.Manual{
		ID: "r-1", MemberID: "m-1", SlotID: "s-1",
		SlotDate: baTime(t, 2026, time.March, 10, 0, 0), SlotTime: "09:00",
	}

	_, err := ExecuteResolveAccess(context.Background(), onSiteInput("30123456"), f.deps)
	wantRejection(t, err, access.CodeNoActiveSlot)
}

func TestResolveAccess_RebaseOnRecordedAccess(t *testing.T) {
	// Scenario: first check-in at 10:30 re-bases the window. A return at
	// 12:29 is inside 10:30+2h even though the nominal 09:00 window closed.
	f := newGateFixture(t, baTime(t, 2026, time.March, 10, 12, 29))
	f.deps.Now = fixedClock(baTime(t, 2026, time.March, 10, 12, 29))
	f.reservations.manuals["r-1"] = &reservation.Manual{
		ID: "r-1", MemberID: "m-1", SlotID: "s-1",
		SlotDate:   baTime(t, 2026, time.March, 10, 0, 0),
		SlotTime:   "09:00",
		AccessedAt: baTime(t, 2026, time.March, 10, 10, 30),
		Attended:   reservation.AttendedPresent,
	}

	result, err := ExecuteResolveAccess(context.Background(), onSiteInput("30123456"), f.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Visit.AllowAccess {
		t.Error("expected re-entry granted inside the re-based window")
	}

	// One minute past the re-based edge is out.
	f.deps.Now = fixedClock(baTime(t, 2026, time.March, 10, 12, 31))
	_, err = ExecuteResolveAccess(context.Background(), onSiteInput("30123456"), f.deps)
	wantRejection(t, err, access.CodeNoActiveSlot)
}

func TestResolveAccess_VirtualFromWeeklySchedule(t *testing.T) {
	// Scenario: no reservation today, Tuesday 18:00 habitual schedule,
	// arrival Tuesday 18:30. A virtual visit admits the member.
	now := baTime(t, 2026, time.March, 10, 18, 30) // a Tuesday
	f := newGateFixture(t, now)
	f.members.schedules["m-1"] = []schedule.Entry{
		{ID: "e-1", MemberID: "m-1", Day: schedule.Tuesday, StartTime: "18:00", EndTime: "19:00"},
	}

	result, err := ExecuteResolveAccess(context.Background(), onSiteInput("30123456"), f.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Visit.IsVirtual {
		t.Error("expected a virtual visit")
	}
	wantID := "virtual-m-1-2026-03-10-18:00"
	if result.Visit.Visit.VisitID() != wantID {
		t.Errorf("expected visit %s, got %s", wantID, result.Visit.Visit.VisitID())
	}
	if result.Visit.Visit.AttendedState() != reservation.AttendedUnset {
		t.Error("virtual visits never carry an attendance mark")
	}
}

func TestResolveAccess_ManualSuppressesVirtual(t *testing.T) {
	// An expired 07:00 manual reservation blocks the Tuesday 18:00 virtual
	// even though only the virtual would pass the window.
	now := baTime(t, 2026, time.March, 10, 18, 30)
	f := newGateFixture(t, now)
	f.members.schedules["m-1"] = []schedule.Entry{
		{ID: "e-1", MemberID: "m-1", Day: schedule.Tuesday, StartTime: "18:00", EndTime: "19:00"},
	}
	f.reservations.manuals["r-1"] = &reservation.Manual{
		ID: "r-1", MemberID: "m-1", SlotID: "s-1",
		SlotDate: baTime(t, 2026, time.March, 10, 0, 0), SlotTime: "07:00",
	}

	_, err := ExecuteResolveAccess(context.Background(), onSiteInput("30123456"), f.deps)
	wantRejection(t, err, access.CodeNoActiveSlot)
}

func TestResolveAccess_ContactFallback(t *testing.T) {
	// Member profile has no email; the winning reservation's client email
	// fills the gap.
	now := baTime(t, 2026, time.March, 10, 10, 0)
	f := newGateFixture(t, now)
	f.reservations.manuals["r-1"] = &reservation.Manual{
		ID: "r-1", MemberID: "m-1", SlotID: "s-1",
		SlotDate: baTime(t, 2026, time.March, 10, 0, 0), SlotTime: "09:00",
		Client: reservation.Contact{Name: "Ana G.", Email: "ana@example.com"},
	}

	result, err := ExecuteResolveAccess(context.Background(), onSiteInput("30123456"), f.deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Contact.Email != "ana@example.com" {
		t.Errorf("expected fallback email, got %q", result.Contact.Email)
	}
	if result.Contact.Phone != "1155550000" {
		t.Errorf("profile phone should win, got %q", result.Contact.Phone)
	}
}

func TestResolveAccess_DecisionDoesNotPersist(t *testing.T) {
	now := baTime(t, 2026, time.March, 10, 10, 0)
	f := newGateFixture(t, now)
	f.reservations.manuals["r-1"] = &reservation.Manual{
		ID: "r-1", MemberID: "m-1", SlotID: "s-1",
		SlotDate: baTime(t, 2026, time.March, 10, 0, 0), SlotTime: "09:00",
	}

	if _, err := ExecuteResolveAccess(context.Background(), onSiteInput("30123456"), f.deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.reservations.markedCalls != 0 {
		t.Error("the gate must not mutate storage")
	}
}
