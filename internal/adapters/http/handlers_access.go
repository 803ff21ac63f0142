package web

import (
	"errors"
	"net/http"
	"time"

	"arcagym/internal/application/orchestrators"
	"arcagym/internal/domain/access"
	routineDomain "arcagym/internal/domain/routine"
)

// rejectionBody is the structured denial the kiosk renders.
type rejectionBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// accessGrantedBody is the kiosk success payload.
type accessGrantedBody struct {
	Granted    bool          `json:"granted"`
	Member     memberSummary `json:"member"`
	Visit      visitSummary  `json:"visit"`
	Routines   []routineView `json:"routines"`
	AccessedAt time.Time     `json:"accessed_at"`
}

type memberSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

type visitSummary struct {
	ID       string `json:"id"`
	Time     string `json:"time"`
	Virtual  bool   `json:"virtual"`
	Recorded bool   `json:"recorded"`
}

type routineView struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Days []routineDayView `json:"days"`
}

type routineDayView struct {
	Name      string         `json:"name"`
	Exercises []exerciseView `json:"exercises"`
}

type exerciseView struct {
	Name      string `json:"name"`
	Series    int    `json:"series"`
	Reps      string `json:"reps"`
	Weight    string `json:"weight"`
	NotesHTML string `json:"notes_html,omitempty"`
}

// statusForRejection maps reason codes to HTTP statuses.
func statusForRejection(code access.ReasonCode) int {
	switch code {
	case access.CodeMissingCredential, access.CodeLocationRequired:
		return http.StatusBadRequest
	case access.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusForbidden
	}
}

// writeRejection renders a policy denial.
func writeRejection(w http.ResponseWriter, rej *access.Rejection) {
	writeJSON(w, statusForRejection(rej.Code), rejectionBody{
		Code:    string(rej.Code),
		Message: rej.Message(),
		Action:  string(rej.Action()),
	})
}

type selfServiceRequest struct {
	DNI       string   `json:"dni"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// handleSelfServiceAccess handles POST /access/selfservice: the kiosk entry
// flow. The gate decides, then the attendance commit runs; a commit failure
// after a positive decision is reported as its own error code so staff can
// let the member in and fix the record later.
func handleSelfServiceAccess(w http.ResponseWriter, r *http.Request) {
	var req selfServiceRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := orchestrators.ResolveAccessInput{DNI: req.DNI}
	if req.Latitude != nil && req.Longitude != nil {
		input.HasLocation = true
		input.Latitude = *req.Latitude
		input.Longitude = *req.Longitude
	}

	result, err := orchestrators.ExecuteResolveAccess(r.Context(), input, gateDeps())
	if err != nil {
		var rej *access.Rejection
		if errors.As(err, &rej) {
			writeRejection(w, rej)
			return
		}
		internalError(w, err)
		return
	}

	respondGranted(w, r, result)
}

type tokenAccessRequest struct {
	Token     string   `json:"token"`
	DNI       string   `json:"dni"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// handleTokenAccess handles POST /access/token: the QR flow. Identical to the
// self-service flow except the credential is a signed token.
func handleTokenAccess(w http.ResponseWriter, r *http.Request) {
	if signer == nil {
		http.Error(w, "token access is not enabled", http.StatusNotImplemented)
		return
	}

	var req tokenAccessRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := orchestrators.ResolveTokenAccessInput{Token: req.Token, DNI: req.DNI}
	if req.Latitude != nil && req.Longitude != nil {
		input.HasLocation = true
		input.Latitude = *req.Latitude
		input.Longitude = *req.Longitude
	}

	result, err := orchestrators.ExecuteResolveTokenAccess(r.Context(), input,
		orchestrators.ResolveTokenAccessDeps{Signer: signer, Gate: gateDeps()})
	if err != nil {
		var rej *access.Rejection
		if errors.As(err, &rej) {
			writeRejection(w, rej)
			return
		}
		internalError(w, err)
		return
	}

	respondGranted(w, r, result)
}

// gateDeps assembles the eligibility gate dependencies from the wired stores.
func gateDeps() orchestrators.ResolveAccessDeps {
	return orchestrators.ResolveAccessDeps{
		Members:      stores.MemberStore,
		Payments:     stores.PaymentStore,
		Reservations: stores.ReservationStore,
		Resolver:     resolver,
		Fence:        fence,
		Window:       accessWindow,
		Now:          timeNow,
	}
}

// respondGranted commits attendance and renders the success payload. Both
// kiosk flows share it.
func respondGranted(w http.ResponseWriter, r *http.Request, result orchestrators.ResolveAccessResult) {
	commit, err := orchestrators.ExecuteRecordAttendance(r.Context(),
		orchestrators.RecordAttendanceInput{Visit: result.Visit, Now: result.Now},
		orchestrators.RecordAttendanceDeps{Reservations: stores.ReservationStore})
	if err != nil {
		// The decision was positive; the member is at the door. Report the
		// missing record, do not pretend the decision failed.
		writeJSON(w, http.StatusInternalServerError, rejectionBody{
			Code:    "ATTENDANCE_NOT_RECORDED",
			Message: "Entry approved but the attendance record could not be written. Please see the front desk.",
			Action:  string(access.ActionContactStaff),
		})
		return
	}

	routines, err := stores.RoutineStore.ListByMember(r.Context(), result.Member.ID)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accessGrantedBody{
		Granted: true,
		Member: memberSummary{
			ID:        result.Member.ID,
			FirstName: result.Member.FirstName,
			LastName:  result.Member.LastName,
			PhotoURL:  result.Member.PhotoURL,
			Phone:     result.Contact.Phone,
			Email:     result.Contact.Email,
		},
		Visit: visitSummary{
			ID:       result.Visit.Visit.VisitID(),
			Time:     result.Visit.Visit.TimeOfDay(),
			Virtual:  result.Visit.IsVirtual,
			Recorded: commit.Recorded,
		},
		Routines:   routineViews(routines),
		AccessedAt: result.Now,
	})
}

func routineViews(routines []routineDomain.Routine) []routineView {
	views := make([]routineView, 0, len(routines))
	for _, rt := range routines {
		view := routineView{ID: rt.ID, Name: rt.Name}
		for _, d := range rt.Days {
			dayView := routineDayView{Name: d.Name}
			for _, e := range d.Exercises {
				ev := exerciseView{
					Name:   e.Name,
					Series: e.Series,
					Reps:   e.Reps,
					Weight: e.Weight,
				}
				if e.Notes != "" {
					ev.NotesHTML = renderMarkdown(e.Notes)
				}
				dayView.Exercises = append(dayView.Exercises, ev)
			}
			view.Days = append(view.Days, dayView)
		}
		views = append(views, view)
	}
	return views
}

// handleIssueAccessToken handles POST /members/{id}/access-token.
func handleIssueAccessToken(w http.ResponseWriter, r *http.Request) {
	if signer == nil {
		http.Error(w, "token access is not enabled", http.StatusNotImplemented)
		return
	}

	var req struct {
		ReservationID string `json:"reservation_id"`
	}
	if r.ContentLength > 0 {
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	result, err := orchestrators.ExecuteIssueToken(r.Context(),
		orchestrators.IssueTokenInput{MemberID: r.PathValue("id"), ReservationID: req.ReservationID},
		orchestrators.IssueTokenDeps{Members: stores.MemberStore, Signer: signer})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": result.Token})
}
