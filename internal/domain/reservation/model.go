package reservation

import (
	"errors"
	"fmt"
	"time"
)

// Attended is the tri-state attendance mark on a reservation. A reservation
// starts unset, moves to present when the engine grants access, and moves to
// absent only through an explicit staff action. It is never reset to unset.
type Attended int

// Attendance states
const (
	AttendedUnset Attended = iota
	AttendedPresent
	AttendedAbsent
)

// String returns the storage/display name of the state.
func (a Attended) String() string {
	switch a {
	case AttendedPresent:
		return "present"
	case AttendedAbsent:
		return "absent"
	default:
		return "pending"
	}
}

// Domain errors
var (
	ErrEmptyMemberID     = errors.New("reservation must be associated with a member")
	ErrEmptySlotID       = errors.New("reservation must reference a slot")
	ErrAlreadyAccessed   = errors.New("reservation already has a recorded access")
	ErrAttendanceLocked  = errors.New("attendance cannot be reset to pending")
	ErrWindowStillOpen   = errors.New("cannot mark absent while the access window is still open")
	ErrVirtualImmutable  = errors.New("virtual reservations cannot be mutated")
)

// Contact carries the fallback contact fields a booking keeps for walk-in
// clients whose member profile is incomplete.
type Contact struct {
	Name  string
	Phone string
	Email string
}

// Visit is the narrow view shared by manual and virtual reservations. The
// two concrete variants are sealed; every consumer switches exhaustively on
// *Manual / *Virtual.
type Visit interface {
	VisitID() string
	MemberRef() string
	TimeOfDay() string
	AttendedState() Attended
	ContactInfo() Contact

	isVisit()
}

// Manual is an explicitly created, persisted booking against a calendar
// slot. SlotDate and SlotTime are hydrated from the referenced slot on read.
type Manual struct {
	ID         string
	MemberID   string
	SlotID     string
	SlotDate   time.Time // calendar date of the slot (time component ignored)
	SlotTime   string    // HH:mm
	Client     Contact
	AccessedAt time.Time // zero = not yet accessed; immutable once set
	Attended   Attended
	CreatedAt  time.Time
}

// Validate checks if the Manual reservation has valid data.
// PRE: Manual struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Manual) Validate() error {
	if m.MemberID == "" {
		return ErrEmptyMemberID
	}
	if m.SlotID == "" {
		return ErrEmptySlotID
	}
	return nil
}

// HasAccessed reports whether a first check-in was already recorded.
func (m *Manual) HasAccessed() bool {
	return !m.AccessedAt.IsZero()
}

// WindowBase returns the instant the access window is anchored at: the
// recorded first check-in when one exists, otherwise the nominal slot
// instant. Re-basing on AccessedAt makes the window track the member's
// actual arrival across later attempts, including day rollovers.
func (m *Manual) WindowBase(slotInstant time.Time) time.Time {
	if m.HasAccessed() {
		return m.AccessedAt
	}
	return slotInstant
}

// MarkAbsent records an explicit staff absence.
// PRE: Attended is unset or present
// POST: Attended is absent
// INVARIANT: absent never transitions back through this path
func (m *Manual) MarkAbsent() error {
	m.Attended = AttendedAbsent
	return nil
}

// VisitID implements Visit.
func (m *Manual) VisitID() string { return m.ID }

// MemberRef implements Visit.
func (m *Manual) MemberRef() string { return m.MemberID }

// TimeOfDay implements Visit.
func (m *Manual) TimeOfDay() string { return m.SlotTime }

// AttendedState implements Visit.
func (m *Manual) AttendedState() Attended { return m.Attended }

// ContactInfo implements Visit.
func (m *Manual) ContactInfo() Contact { return m.Client }

func (m *Manual) isVisit() {}

// Virtual is an ephemeral booking synthesized from one weekly-schedule entry
// for the current day. It is recomputed per request and never persisted, so
// its attendance state is always unset.
type Virtual struct {
	ID       string // synthetic, deterministic per member/date/start
	MemberID string
	Start    string // HH:mm copied from the schedule entry
	End      string
	Client   Contact
}

// NewVirtual builds the virtual reservation for a schedule entry on a given
// local date (YYYY-MM-DD).
func NewVirtual(memberID, localDate, start, end string, contact Contact) *Virtual {
	return &Virtual{
		ID:       fmt.Sprintf("virtual-%s-%s-%s", memberID, localDate, start),
		MemberID: memberID,
		Start:    start,
		End:      end,
		Client:   contact,
	}
}

// VisitID implements Visit.
func (v *Virtual) VisitID() string { return v.ID }

// MemberRef implements Visit.
func (v *Virtual) MemberRef() string { return v.MemberID }

// TimeOfDay implements Visit.
func (v *Virtual) TimeOfDay() string { return v.Start }

// AttendedState implements Visit. Virtual reservations are always pending.
func (v *Virtual) AttendedState() Attended { return AttendedUnset }

// ContactInfo implements Visit.
func (v *Virtual) ContactInfo() Contact { return v.Client }

func (v *Virtual) isVisit() {}
