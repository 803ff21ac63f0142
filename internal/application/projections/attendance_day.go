package projections

import (
	"context"
	"strings"
	"time"

	"arcagym/internal/domain/gymtime"
	"arcagym/internal/domain/member"
	"arcagym/internal/domain/reservation"
	"arcagym/internal/domain/schedule"
)

// AttendanceMemberStore defines the member store interface for the
// attendance projections.
type AttendanceMemberStore interface {
	ListActive(ctx context.Context) ([]member.Member, error)
	ListSchedule(ctx context.Context, memberID string) ([]schedule.Entry, error)
}

// AttendanceReservationStore defines the reservation store interface for the
// attendance projections.
type AttendanceReservationStore interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*reservation.Manual, error)
}

// AttendanceDayQuery carries the daily view filters. All filters are
// optional; Date defaults to today.
type AttendanceDayQuery struct {
	Date   string // YYYY-MM-DD in the gym's zone
	Time   string // exact HH:mm match
	Name   string // case-insensitive substring
	Status string // pending, present, absent
}

// AttendanceRow is one line of the staff daily view.
type AttendanceRow struct {
	VisitID    string
	MemberID   string
	MemberName string
	Time       string // HH:mm
	Status     string // pending, present, absent
	IsVirtual  bool
	AccessedAt time.Time // zero unless present
}

// AttendanceDayResult carries the filtered rows plus stats computed over
// the whole day, before filtering.
type AttendanceDayResult struct {
	Date    string
	Rows    []AttendanceRow
	Present int
	Absent  int
	Pending int
}

// AttendanceDayDeps holds dependencies for AttendanceDay.
type AttendanceDayDeps struct {
	Members      AttendanceMemberStore
	Reservations AttendanceReservationStore
	Resolver     *gymtime.Resolver
	Now          func() time.Time
}

// QueryAttendanceDay builds the merged daily attendance view: every active
// member's reservations for the day, with virtuals synthesized from weekly
// schedules exactly as the entry gate sees them. Manual reservations whose
// member has since been deactivated still appear, named from the booking's
// client fields.
// PRE: deps stores and Resolver are non-nil
// POST: Rows are filtered; stats always cover the full day
func QueryAttendanceDay(ctx context.Context, query AttendanceDayQuery, deps AttendanceDayDeps) (AttendanceDayResult, error) {
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	anchor := nowFn()
	if query.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", query.Date, deps.Resolver.Location())
		if err == nil {
			anchor = parsed
		}
	}
	dayStart, dayEnd := deps.Resolver.DayBounds(anchor)

	manuals, err := deps.Reservations.ListByDateRange(ctx, dayStart, dayEnd.Add(time.Millisecond))
	if err != nil {
		return AttendanceDayResult{}, err
	}
	byMember := make(map[string][]*reservation.Manual)
	for _, m := range manuals {
		byMember[m.MemberID] = append(byMember[m.MemberID], m)
	}

	members, err := deps.Members.ListActive(ctx)
	if err != nil {
		return AttendanceDayResult{}, err
	}
	active := make(map[string]member.Member, len(members))

	var rows []AttendanceRow
	for _, m := range members {
		active[m.ID] = m
		weekly, err := deps.Members.ListSchedule(ctx, m.ID)
		if err != nil {
			return AttendanceDayResult{}, err
		}
		tagged, err := reservation.ResolveDay(reservation.MergeInput{
			MemberID: m.ID,
			Manuals:  byMember[m.ID],
			Weekly:   weekly,
			Fallback: reservation.Contact{Name: m.FullName(), Phone: m.Phone, Email: m.Email},
			Now:      dayStart,
		}, deps.Resolver)
		if err != nil {
			return AttendanceDayResult{}, err
		}
		for _, t := range tagged {
			rows = append(rows, rowFor(t, m.FullName()))
		}
	}

	// Bookings whose member is no longer active.
	for memberID, res := range byMember {
		if _, ok := active[memberID]; ok {
			continue
		}
		for _, r := range res {
			name := r.Client.Name
			rows = append(rows, rowFor(reservation.Tagged{Visit: r}, name))
		}
	}

	result := AttendanceDayResult{Date: dayStart.In(deps.Resolver.Location()).Format("2006-01-02")}
	for _, row := range rows {
		switch row.Status {
		case "present":
			result.Present++
		case "absent":
			result.Absent++
		default:
			result.Pending++
		}
	}
	result.Rows = filterRows(rows, query)
	return result, nil
}

func rowFor(t reservation.Tagged, name string) AttendanceRow {
	row := AttendanceRow{
		VisitID:    t.Visit.VisitID(),
		MemberID:   t.Visit.MemberRef(),
		MemberName: name,
		Time:       t.Visit.TimeOfDay(),
		Status:     t.Visit.AttendedState().String(),
		IsVirtual:  t.IsVirtual,
	}
	if m, ok := t.Visit.(*reservation.Manual); ok {
		row.AccessedAt = m.AccessedAt
	}
	return row
}

func filterRows(rows []AttendanceRow, query AttendanceDayQuery) []AttendanceRow {
	var out []AttendanceRow
	for _, row := range rows {
		if query.Time != "" && row.Time != query.Time {
			continue
		}
		if query.Status != "" && row.Status != query.Status {
			continue
		}
		if query.Name != "" && !strings.Contains(strings.ToLower(row.MemberName), strings.ToLower(query.Name)) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// AttendanceSummaryQuery carries the range for the summary stats.
type AttendanceSummaryQuery struct {
	From string // YYYY-MM-DD inclusive
	To   string // YYYY-MM-DD inclusive
}

// AttendanceSummaryResult carries attendance stats over a date range.
// Virtual visits leave no record, so the summary covers bookings only.
type AttendanceSummaryResult struct {
	From     string
	To       string
	Total    int
	Present  int
	Absent   int
	Pending  int
}

// QueryAttendanceSummary counts booking outcomes over an inclusive range.
// PRE: From and To parse as dates; To is not before From
// POST: Total = Present + Absent + Pending
func QueryAttendanceSummary(ctx context.Context, query AttendanceSummaryQuery, deps AttendanceDayDeps) (AttendanceSummaryResult, error) {
	loc := deps.Resolver.Location()
	from, err := time.ParseInLocation("2006-01-02", query.From, loc)
	if err != nil {
		return AttendanceSummaryResult{}, err
	}
	to, err := time.ParseInLocation("2006-01-02", query.To, loc)
	if err != nil {
		return AttendanceSummaryResult{}, err
	}

	manuals, err := deps.Reservations.ListByDateRange(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return AttendanceSummaryResult{}, err
	}

	result := AttendanceSummaryResult{From: query.From, To: query.To, Total: len(manuals)}
	for _, m := range manuals {
		switch m.Attended {
		case reservation.AttendedPresent:
			result.Present++
		case reservation.AttendedAbsent:
			result.Absent++
		default:
			result.Pending++
		}
	}
	return result, nil
}
