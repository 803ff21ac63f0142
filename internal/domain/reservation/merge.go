package reservation

import (
	"sort"
	"time"

	"arcagym/internal/domain/gymtime"
	"arcagym/internal/domain/schedule"
)

// Tagged is one merged entry for the current local day: the reservation
// variant plus its resolved nominal instant.
type Tagged struct {
	Visit     Visit
	IsVirtual bool
	Instant   time.Time
}

// MergeInput carries everything the day resolver needs. Manuals is the
// member's full persisted history, unfiltered; the resolver selects today's.
type MergeInput struct {
	MemberID string
	Manuals  []*Manual
	Weekly   []schedule.Entry
	Fallback Contact // member profile contact, copied onto virtuals
	Now      time.Time
}

// ResolveDay merges persisted reservations for the current local day with
// virtual reservations derived from the member's weekly schedule.
//
// The presence of any manual reservation today suppresses virtual synthesis
// unconditionally, even when no manual entry would pass a window check.
// Manual entries come out sorted by slot instant ascending; virtuals in
// schedule order.
//
// Synthesis is pure: no side effects, safe to recompute concurrently.
func ResolveDay(in MergeInput, resolver *gymtime.Resolver) ([]Tagged, error) {
	dayStart, dayEnd := resolver.DayBounds(in.Now)

	var manual []Tagged
	for _, m := range in.Manuals {
		instant, err := resolver.SlotInstant(m.SlotDate, m.SlotTime)
		if err != nil {
			return nil, err
		}
		if instant.Before(dayStart) || instant.After(dayEnd) {
			continue
		}
		manual = append(manual, Tagged{Visit: m, Instant: instant})
	}
	if len(manual) > 0 {
		sort.Slice(manual, func(i, j int) bool { return manual[i].Instant.Before(manual[j].Instant) })
		return manual, nil
	}

	weekday := resolver.DayName(in.Now)
	localDate := in.Now.In(resolver.Location()).Format("2006-01-02")

	var virtual []Tagged
	for _, entry := range in.Weekly {
		if !entry.MatchesDay(weekday) {
			continue
		}
		instant, err := resolver.SlotInstant(in.Now, entry.StartTime)
		if err != nil {
			return nil, err
		}
		v := NewVirtual(in.MemberID, localDate, entry.StartTime, entry.EndTime, in.Fallback)
		virtual = append(virtual, Tagged{Visit: v, IsVirtual: true, Instant: instant})
	}
	return virtual, nil
}
