package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"arcagym/internal/adapters/http/middleware"
	accountDomain "arcagym/internal/domain/account"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts exercise notes to HTML for the kiosk display.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return md
	}
	return buf.String()
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// registerRoutes wires all endpoints. Kiosk routes are public; staff routes
// go through RequireAuth.
func registerRoutes(mux *http.ServeMux) {
	// Kiosk (public)
	mux.HandleFunc("POST /access/selfservice", handleSelfServiceAccess)
	mux.HandleFunc("POST /access/token", handleTokenAccess)

	staff := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireRole(accountDomain.RoleAdmin)(h)
	}

	// Staff
	mux.Handle("POST /members/{id}/access-token", staff(handleIssueAccessToken))
	mux.Handle("GET /attendance/daily", staff(handleAttendanceDaily))
	mux.Handle("GET /attendance/summary", staff(handleAttendanceSummary))
	mux.Handle("POST /reservations/{id}/absent", staff(handleMarkAbsent))
	mux.Handle("GET /members/payment-status", staff(handlePaymentStatus))
	mux.Handle("POST /payments", staff(handleCreatePayment))
	mux.Handle("POST /reservations", staff(handleCreateReservation))
	mux.Handle("POST /reminders/payment", admin(handlePaymentReminders))

	// Sessions
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)
}
