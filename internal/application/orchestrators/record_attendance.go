package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arcagym/internal/domain/access"
	"arcagym/internal/domain/reservation"
)

// AttendanceStore defines the reservation store interface the recorder needs.
type AttendanceStore interface {
	MarkAccessed(ctx context.Context, id string, at time.Time) (bool, error)
}

// RecordAttendanceInput carries the granted visit and the clock capture the
// grant decision was made with.
type RecordAttendanceInput struct {
	Visit access.ResolvedVisit
	Now   time.Time
}

// RecordAttendanceResult reports what the commit did.
type RecordAttendanceResult struct {
	Recorded bool // false when a prior check-in already owned the write
}

// RecordAttendanceDeps holds dependencies for RecordAttendance.
type RecordAttendanceDeps struct {
	Reservations AttendanceStore
}

// ExecuteRecordAttendance commits the single attendance mutation for a
// granted visit. Manual reservations get the conditional first-access write;
// a concurrent duplicate loses the race and is reported as not recorded, not
// as an error. Virtual visits persist nothing and leave only a log line.
// PRE: input.Visit.AllowAccess is true; input.Now is the gate's clock capture
// POST: accessed_at is set at most once per manual reservation, ever
func ExecuteRecordAttendance(ctx context.Context, input RecordAttendanceInput, deps RecordAttendanceDeps) (RecordAttendanceResult, error) {
	if !input.Visit.AllowAccess {
		return RecordAttendanceResult{}, fmt.Errorf("attendance commit requires a granted visit")
	}

	switch v := input.Visit.Visit.(type) {
	case *reservation.Manual:
		wrote, err := deps.Reservations.MarkAccessed(ctx, v.ID, input.Now)
		if err != nil {
			return RecordAttendanceResult{}, fmt.Errorf("failed to record attendance: %w", err)
		}
		slog.Info("access_event",
			"event", "attendance_recorded",
			"reservation_id", v.ID,
			"member_id", v.MemberID,
			"recorded", wrote,
			"at", input.Now)
		return RecordAttendanceResult{Recorded: wrote}, nil

	case *reservation.Virtual:
		slog.Info("access_event",
			"event", "virtual_attendance",
			"visit_id", v.ID,
			"member_id", v.MemberID,
			"at", input.Now)
		return RecordAttendanceResult{Recorded: false}, nil

	default:
		return RecordAttendanceResult{}, fmt.Errorf("unknown visit variant %T", input.Visit.Visit)
	}
}
