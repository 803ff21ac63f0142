package projections

import (
	"context"
	"sort"
	"time"

	"arcagym/internal/domain/member"
	"arcagym/internal/domain/payment"
)

// Listings use a rolling 30 day currency rule. The entry gate applies the
// stricter same-civil-month rule; the two intentionally disagree near month
// boundaries.
const rollingCurrencyDays = 30

// PaymentStatusMemberStore defines the member store interface for the
// payment status projection.
type PaymentStatusMemberStore interface {
	ListActive(ctx context.Context) ([]member.Member, error)
}

// PaymentStatusPaymentStore defines the payment store interface for the
// payment status projection.
type PaymentStatusPaymentStore interface {
	ListByMember(ctx context.Context, memberID string) ([]payment.Log, error)
}

// PaymentStatusQuery carries the listing filters.
type PaymentStatusQuery struct {
	OnlyLapsed bool
}

// PaymentStatusRow is one member's payment currency line.
type PaymentStatusRow struct {
	MemberID    string
	MemberName  string
	LastPayment time.Time // zero when the member never paid
	LastAmount  int
	Current     bool // within the rolling window
}

// PaymentStatusResult carries the listing.
type PaymentStatusResult struct {
	Rows    int
	Lapsed  int
	Members []PaymentStatusRow
}

// PaymentStatusDeps holds dependencies for PaymentStatus.
type PaymentStatusDeps struct {
	Members  PaymentStatusMemberStore
	Payments PaymentStatusPaymentStore
	Now      func() time.Time
}

// QueryPaymentStatus lists every active member's payment currency under the
// rolling rule, lapsed members first.
// PRE: deps stores are non-nil
// POST: Lapsed counts rows with Current=false
func QueryPaymentStatus(ctx context.Context, query PaymentStatusQuery, deps PaymentStatusDeps) (PaymentStatusResult, error) {
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn()

	members, err := deps.Members.ListActive(ctx)
	if err != nil {
		return PaymentStatusResult{}, err
	}

	var result PaymentStatusResult
	for _, m := range members {
		history, err := deps.Payments.ListByMember(ctx, m.ID)
		if err != nil {
			return PaymentStatusResult{}, err
		}

		row := PaymentStatusRow{
			MemberID:   m.ID,
			MemberName: m.FullName(),
			Current:    payment.CurrentWithinDays(history, now, rollingCurrencyDays),
		}
		if latest, ok := payment.Latest(history); ok {
			row.LastPayment = latest.Date
			row.LastAmount = latest.Amount
		}
		if !row.Current {
			result.Lapsed++
		}
		if query.OnlyLapsed && row.Current {
			continue
		}
		result.Members = append(result.Members, row)
	}

	sort.Slice(result.Members, func(i, j int) bool {
		a, b := result.Members[i], result.Members[j]
		if a.Current != b.Current {
			return !a.Current
		}
		return a.MemberName < b.MemberName
	})
	result.Rows = len(result.Members)
	return result, nil
}
