package web

import (
	"errors"
	"net/http"

	"arcagym/internal/application/orchestrators"
	"arcagym/internal/application/projections"
	"arcagym/internal/domain/reservation"
)

func attendanceDeps() projections.AttendanceDayDeps {
	return projections.AttendanceDayDeps{
		Members:      stores.MemberStore,
		Reservations: stores.ReservationStore,
		Resolver:     resolver,
		Now:          timeNow,
	}
}

// handleAttendanceDaily handles GET /attendance/daily?date&time&name&status.
func handleAttendanceDaily(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryAttendanceDay(r.Context(), projections.AttendanceDayQuery{
		Date:   q.Get("date"),
		Time:   q.Get("time"),
		Name:   q.Get("name"),
		Status: q.Get("status"),
	}, attendanceDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	if result.Rows == nil {
		result.Rows = []projections.AttendanceRow{}
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAttendanceSummary handles GET /attendance/summary?from&to.
func handleAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		http.Error(w, "from and to are required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	result, err := projections.QueryAttendanceSummary(r.Context(), projections.AttendanceSummaryQuery{
		From: q.Get("from"),
		To:   q.Get("to"),
	}, attendanceDeps())
	if err != nil {
		http.Error(w, "invalid date range", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleMarkAbsent handles POST /reservations/{id}/absent.
func handleMarkAbsent(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteMarkAbsent(r.Context(),
		orchestrators.MarkAbsentInput{ReservationID: r.PathValue("id")},
		orchestrators.MarkAbsentDeps{
			Reservations: stores.ReservationStore,
			Resolver:     resolver,
			Window:       accessWindow,
			Now:          timeNow,
		})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "absent"})
	case errors.Is(err, reservation.ErrWindowStillOpen):
		http.Error(w, "access window is still open", http.StatusConflict)
	case errors.Is(err, reservation.ErrAlreadyAccessed):
		http.Error(w, "attendance was already recorded", http.StatusConflict)
	default:
		http.Error(w, "reservation not found", http.StatusNotFound)
	}
}
