package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"arcagym/internal/domain/account"
	"arcagym/internal/domain/geo"
	"arcagym/internal/domain/gymtime"
	"arcagym/internal/domain/member"
	"arcagym/internal/domain/payment"
	"arcagym/internal/domain/reservation"
	"arcagym/internal/domain/schedule"
)

// Facility fixture used across gate tests.
var (
	testCenter = geo.Coordinate{Latitude: -34.76058070354081, Longitude: -58.345231758538894}
	testFence  = geo.NewGeofence(testCenter, 100)
)

func testResolver(t *testing.T) *gymtime.Resolver {
	t.Helper()
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}
	return gymtime.NewResolver(loc)
}

// fixedClock returns a Now func pinned to t0.
func fixedClock(t0 time.Time) func() time.Time {
	return func() time.Time { return t0 }
}

// mockMemberStore implements the member interfaces the orchestrators need.
type mockMemberStore struct {
	members   map[string]member.Member // keyed by DNI
	schedules map[string][]schedule.Entry
}

func newMockMemberStore() *mockMemberStore {
	return &mockMemberStore{
		members:   make(map[string]member.Member),
		schedules: make(map[string][]schedule.Entry),
	}
}

func (m *mockMemberStore) GetByDNI(_ context.Context, dni string) (member.Member, error) {
	v, ok := m.members[dni]
	if !ok {
		return member.Member{}, errors.New("not found")
	}
	return v, nil
}

func (m *mockMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	for _, v := range m.members {
		if v.ID == id {
			return v, nil
		}
	}
	return member.Member{}, errors.New("not found")
}

func (m *mockMemberStore) ListSchedule(_ context.Context, memberID string) ([]schedule.Entry, error) {
	return m.schedules[memberID], nil
}

func (m *mockMemberStore) ListActive(_ context.Context) ([]member.Member, error) {
	var out []member.Member
	for _, v := range m.members {
		if v.IsActive() {
			out = append(out, v)
		}
	}
	return out, nil
}

// mockPaymentStore implements the payment interfaces the orchestrators need.
type mockPaymentStore struct {
	payments map[string][]payment.Log // keyed by member ID
}

func newMockPaymentStore() *mockPaymentStore {
	return &mockPaymentStore{payments: make(map[string][]payment.Log)}
}

func (m *mockPaymentStore) ListByMember(_ context.Context, memberID string) ([]payment.Log, error) {
	return m.payments[memberID], nil
}

// mockReservationStore implements the reservation interfaces the
// orchestrators need and records MarkAccessed calls.
type mockReservationStore struct {
	manuals     map[string]*reservation.Manual
	markedAt    map[string]time.Time
	absent      map[string]bool
	failMark    bool
	markedCalls int
}

func newMockReservationStore() *mockReservationStore {
	return &mockReservationStore{
		manuals:  make(map[string]*reservation.Manual),
		markedAt: make(map[string]time.Time),
		absent:   make(map[string]bool),
	}
}

func (m *mockReservationStore) GetByID(_ context.Context, id string) (*reservation.Manual, error) {
	r, ok := m.manuals[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func (m *mockReservationStore) ListByMember(_ context.Context, memberID string) ([]*reservation.Manual, error) {
	var out []*reservation.Manual
	for _, r := range m.manuals {
		if r.MemberID == memberID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReservationStore) MarkAccessed(_ context.Context, id string, at time.Time) (bool, error) {
	m.markedCalls++
	if m.failMark {
		return false, errors.New("disk full")
	}
	r, ok := m.manuals[id]
	if !ok {
		return false, nil
	}
	if r.HasAccessed() {
		return false, nil
	}
	r.AccessedAt = at
	r.Attended = reservation.AttendedPresent
	m.markedAt[id] = at
	return true, nil
}

func (m *mockReservationStore) MarkAbsent(_ context.Context, id string) error {
	r, ok := m.manuals[id]
	if !ok {
		return errors.New("not found")
	}
	r.Attended = reservation.AttendedAbsent
	m.absent[id] = true
	return nil
}

// mockAccountStore implements AccountStoreForLogin.
type mockAccountStore struct {
	accounts map[string]account.Account // keyed by email
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := m.accounts[email]
	if !ok {
		return account.Account{}, errors.New("not found")
	}
	return a, nil
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.Email] = a
	return nil
}
