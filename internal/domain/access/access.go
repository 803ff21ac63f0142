package access

import (
	"fmt"

	"arcagym/internal/domain/reservation"
)

// ReasonCode identifies why a self-service entry request was rejected.
type ReasonCode string

// Rejection reason codes. Checks run in this order and fail fast.
const (
	CodeMissingCredential  ReasonCode = "MISSING_CREDENTIAL"
	CodeLocationOutOfRange ReasonCode = "LOCATION_OUT_OF_RANGE"
	CodeLocationRequired   ReasonCode = "LOCATION_REQUIRED"
	CodeNotFound           ReasonCode = "NOT_FOUND"
	CodePaymentRequired    ReasonCode = "PAYMENT_REQUIRED"
	CodeNoActiveSlot       ReasonCode = "NO_ACTIVE_SLOT"
)

// Action tells the member what kind of response a rejection calls for.
type Action string

// User action classes
const (
	ActionFixInput     Action = "fix_input"
	ActionContactStaff Action = "contact_staff"
	ActionRetry        Action = "retry"
)

// actionFor maps each reason code to its user action class.
var actionFor = map[ReasonCode]Action{
	CodeMissingCredential:  ActionFixInput,
	CodeLocationRequired:   ActionFixInput,
	CodeLocationOutOfRange: ActionFixInput,
	CodeNotFound:           ActionContactStaff,
	CodePaymentRequired:    ActionContactStaff,
	CodeNoActiveSlot:       ActionContactStaff,
}

// messageFor holds the human-readable message shown on the kiosk.
var messageFor = map[ReasonCode]string{
	CodeMissingCredential:  "A document number is required.",
	CodeLocationRequired:   "Your location is required to verify you are at the gym.",
	CodeLocationOutOfRange: "You appear to be outside the gym. Entry is only available on site.",
	CodeNotFound:           "No member matches that document number. Please see the front desk.",
	CodePaymentRequired:    "Your membership payment is not up to date. Please see the front desk.",
	CodeNoActiveSlot:       "You have no active session right now, or your access window has expired.",
}

// Rejection is a policy denial carrying a machine code, a user action class,
// and a kiosk message. It is distinct from internal errors: a Rejection is a
// correct, final answer.
type Rejection struct {
	Code ReasonCode
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	return fmt.Sprintf("access rejected: %s", r.Code)
}

// Action returns the user action class for this rejection.
func (r *Rejection) Action() Action {
	if a, ok := actionFor[r.Code]; ok {
		return a
	}
	return ActionContactStaff
}

// Message returns the kiosk-facing text for this rejection.
func (r *Rejection) Message() string {
	if m, ok := messageFor[r.Code]; ok {
		return m
	}
	return "Access denied. Please see the front desk."
}

// Reject builds a Rejection for the given code.
func Reject(code ReasonCode) *Rejection {
	return &Rejection{Code: code}
}

// ResolvedVisit is the positive outcome of the eligibility gate: the winning
// reservation, whether it was synthesized, and the grant flag.
type ResolvedVisit struct {
	Visit       reservation.Visit
	IsVirtual   bool
	AllowAccess bool
}
