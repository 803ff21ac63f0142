package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arcagym/internal/adapters/email"
	"arcagym/internal/domain/gymtime"
	"arcagym/internal/domain/member"
	"arcagym/internal/domain/payment"
)

// ReminderMemberStore defines the member store interface for reminders.
type ReminderMemberStore interface {
	ListActive(ctx context.Context) ([]member.Member, error)
}

// ReminderPaymentStore defines the payment store interface for reminders.
type ReminderPaymentStore interface {
	ListByMember(ctx context.Context, memberID string) ([]payment.Log, error)
}

// PaymentRemindersInput carries the reminder batch request.
type PaymentRemindersInput struct {
	From string // sender override; empty uses the configured default
}

// PaymentRemindersResult reports the batch outcome.
type PaymentRemindersResult struct {
	Candidates int // lapsed members found
	Sent       int // reminder emails accepted by the provider
	Skipped    int // lapsed members without an email address
}

// PaymentRemindersDeps holds dependencies for PaymentReminders.
type PaymentRemindersDeps struct {
	Members  ReminderMemberStore
	Payments ReminderPaymentStore
	Sender   email.Sender
	Resolver *gymtime.Resolver
	Now      func() time.Time
}

// ExecutePaymentReminders emails every active member whose latest payment
// does not fall in the current civil month. Members with no email on file are
// counted and skipped.
// PRE: deps stores, Sender, and Resolver are non-nil
// POST: One reminder per lapsed member with an address; no store mutations
func ExecutePaymentReminders(ctx context.Context, input PaymentRemindersInput, deps PaymentRemindersDeps) (PaymentRemindersResult, error) {
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn()

	members, err := deps.Members.ListActive(ctx)
	if err != nil {
		return PaymentRemindersResult{}, err
	}

	var result PaymentRemindersResult
	var reqs []email.SendRequest
	for _, m := range members {
		history, err := deps.Payments.ListByMember(ctx, m.ID)
		if err != nil {
			return result, err
		}
		if payment.CurrentSameMonth(history, now, deps.Resolver.Location()) {
			continue
		}
		result.Candidates++
		if m.Email == "" {
			result.Skipped++
			continue
		}
		reqs = append(reqs, email.SendRequest{
			To:      []string{m.Email},
			From:    input.From,
			Subject: "Tu cuota está pendiente",
			HTML:    reminderBody(m, now, deps.Resolver.Location()),
		})
	}

	if len(reqs) > 0 {
		sent, err := deps.Sender.SendBatch(ctx, reqs)
		result.Sent = len(sent)
		if err != nil {
			return result, fmt.Errorf("reminder batch failed: %w", err)
		}
	}

	slog.Info("reminder_event",
		"event", "payment_reminders_sent",
		"candidates", result.Candidates,
		"sent", result.Sent,
		"skipped", result.Skipped)
	return result, nil
}

func reminderBody(m member.Member, now time.Time, loc *time.Location) string {
	month := now.In(loc).Format("01/2006")
	return fmt.Sprintf(
		"<p>Hola %s,</p><p>No registramos tu pago del mes %s. "+
			"Para seguir ingresando al gimnasio, acercate a recepción o "+
			"regularizá tu cuota.</p><p>Arca Gym</p>",
		m.FirstName, month)
}
