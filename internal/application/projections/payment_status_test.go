package projections

import (
	"context"
	"testing"
	"time"

	"arcagym/internal/domain/member"
	"arcagym/internal/domain/payment"
)

type mockPaymentStore struct {
	payments map[string][]payment.Log
}

func (m *mockPaymentStore) ListByMember(_ context.Context, memberID string) ([]payment.Log, error) {
	return m.payments[memberID], nil
}

func TestPaymentStatus_RollingRule(t *testing.T) {
	now := time.Date(2026, 4, 5, 9, 0, 0, 0, time.UTC)
	members := &mockMemberStore{
		members: []member.Member{
			{ID: "m-1", DNI: "1", FirstName: "Ana", LastName: "Gomez", Status: member.StatusActive},
			{ID: "m-2", DNI: "2", FirstName: "Luis", LastName: "Perez", Status: member.StatusActive},
			{ID: "m-3", DNI: "3", FirstName: "Eva", LastName: "Diaz", Status: member.StatusActive},
		},
	}
	payments := &mockPaymentStore{payments: map[string][]payment.Log{
		// 20 days ago: current under the rolling rule even though it is a
		// different civil month.
		"m-1": {{ID: "p-1", MemberID: "m-1", Date: now.AddDate(0, 0, -20), Amount: 25000}},
		// 40 days ago: lapsed.
		"m-2": {{ID: "p-2", MemberID: "m-2", Date: now.AddDate(0, 0, -40), Amount: 25000}},
		// m-3 never paid.
	}}

	deps := PaymentStatusDeps{
		Members:  members,
		Payments: payments,
		Now:      func() time.Time { return now },
	}

	result, err := QueryPaymentStatus(context.Background(), PaymentStatusQuery{}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Rows != 3 {
		t.Fatalf("Rows = %d, want 3", result.Rows)
	}
	if result.Lapsed != 2 {
		t.Errorf("Lapsed = %d, want 2", result.Lapsed)
	}

	// Lapsed first, alphabetical within each group.
	if result.Members[0].MemberName != "Eva Diaz" || result.Members[0].Current {
		t.Errorf("first row = %+v", result.Members[0])
	}
	if result.Members[1].MemberName != "Luis Perez" || result.Members[1].Current {
		t.Errorf("second row = %+v", result.Members[1])
	}
	if result.Members[2].MemberName != "Ana Gomez" || !result.Members[2].Current {
		t.Errorf("third row = %+v", result.Members[2])
	}
	if result.Members[2].LastAmount != 25000 {
		t.Errorf("LastAmount = %d", result.Members[2].LastAmount)
	}
	if !result.Members[0].LastPayment.IsZero() {
		t.Error("never-paid member should have a zero LastPayment")
	}
}

func TestPaymentStatus_OnlyLapsed(t *testing.T) {
	now := time.Date(2026, 4, 5, 9, 0, 0, 0, time.UTC)
	members := &mockMemberStore{
		members: []member.Member{
			{ID: "m-1", DNI: "1", FirstName: "Ana", Status: member.StatusActive},
			{ID: "m-2", DNI: "2", FirstName: "Luis", Status: member.StatusActive},
		},
	}
	payments := &mockPaymentStore{payments: map[string][]payment.Log{
		"m-1": {{ID: "p-1", MemberID: "m-1", Date: now.AddDate(0, 0, -5), Amount: 25000}},
	}}

	result, err := QueryPaymentStatus(context.Background(), PaymentStatusQuery{OnlyLapsed: true},
		PaymentStatusDeps{Members: members, Payments: payments, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Rows != 1 || result.Members[0].MemberID != "m-2" {
		t.Fatalf("rows = %+v", result.Members)
	}
	if result.Lapsed != 1 {
		t.Errorf("Lapsed = %d, want 1", result.Lapsed)
	}
}
