package web

import (
	"errors"
	"net/http"
	"time"

	"arcagym/internal/adapters/http/middleware"
	"arcagym/internal/application/orchestrators"
	"arcagym/internal/application/projections"
	"arcagym/internal/domain/payment"
	"arcagym/internal/domain/reservation"
	slotDomain "arcagym/internal/domain/slot"
)

// handlePaymentStatus handles GET /members/payment-status?lapsed=true.
func handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryPaymentStatus(r.Context(),
		projections.PaymentStatusQuery{OnlyLapsed: r.URL.Query().Get("lapsed") == "true"},
		projections.PaymentStatusDeps{
			Members:  stores.MemberStore,
			Payments: stores.PaymentStore,
			Now:      timeNow,
		})
	if err != nil {
		internalError(w, err)
		return
	}
	if result.Members == nil {
		result.Members = []projections.PaymentStatusRow{}
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePaymentReminders handles POST /reminders/payment.
func handlePaymentReminders(w http.ResponseWriter, r *http.Request) {
	result, err := orchestrators.ExecutePaymentReminders(r.Context(),
		orchestrators.PaymentRemindersInput{From: emailFrom},
		orchestrators.PaymentRemindersDeps{
			Members:  stores.MemberStore,
			Payments: stores.PaymentStore,
			Sender:   emailSender,
			Resolver: resolver,
			Now:      timeNow,
		})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type createPaymentRequest struct {
	MemberID string `json:"member_id"`
	Amount   int    `json:"amount"`
	Concept  string `json:"concept"`
	Method   string `json:"method"`
	Date     string `json:"date"` // YYYY-MM-DD, defaults to today
}

// handleCreatePayment handles POST /payments: the front desk records a
// membership payment.
func handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := stores.MemberStore.GetByID(r.Context(), req.MemberID); err != nil {
		http.Error(w, "member not found", http.StatusNotFound)
		return
	}

	date := timeNow()
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, resolver.Location())
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	entry := payment.Log{
		ID:       generateID(),
		MemberID: req.MemberID,
		Date:     date,
		Amount:   req.Amount,
		Concept:  req.Concept,
		Method:   req.Method,
	}
	if err := entry.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.PaymentStore.Save(r.Context(), entry); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": entry.ID})
}

type createReservationRequest struct {
	MemberID string `json:"member_id"`
	SlotID   string `json:"slot_id"`
}

// handleCreateReservation handles POST /reservations: the front desk books a
// member into a slot.
func handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	m, err := stores.MemberStore.GetByID(r.Context(), req.MemberID)
	if err != nil {
		http.Error(w, "member not found", http.StatusNotFound)
		return
	}
	s, err := stores.SlotStore.GetByID(r.Context(), req.SlotID)
	if err != nil {
		http.Error(w, "slot not found", http.StatusNotFound)
		return
	}
	if s.Status == slotDomain.StatusOccupied {
		http.Error(w, "slot is full", http.StatusConflict)
		return
	}

	res := &reservation.Manual{
		ID:       generateID(),
		MemberID: m.ID,
		SlotID:   s.ID,
		Client: reservation.Contact{
			Name:  m.FullName(),
			Phone: m.Phone,
			Email: m.Email,
		},
		CreatedAt: timeNow(),
	}
	if err := res.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.ReservationStore.Save(r.Context(), res); err != nil {
		internalError(w, err)
		return
	}

	if s.Status == slotDomain.StatusAvailable {
		s.Status = slotDomain.StatusReserved
		if err := stores.SlotStore.Save(r.Context(), s); err != nil {
			internalError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": res.ID})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin handles POST /login for staff sessions.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(),
		orchestrators.LoginInput{Email: req.Email, Password: req.Password},
		orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			status = http.StatusTooManyRequests
		}
		http.Error(w, err.Error(), status)
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"email": result.Email, "role": result.Role})
}

// handleLogout handles POST /logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
