package handler

import (
	"net/http"
	"strconv"
	"time"

	"crewclock.service/internal/core"
	"crewclock.service/internal/core/attendance"
	"crewclock.service/internal/core/identity"
)

type ViewHandler struct {
	Service *core.ViewService
}

// Attendance serves the time clock page. date defaults to today in the
// display zone and online defaults to true.
func (h *ViewHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc := h.Service.Location()

	day := time.Now().In(loc)
	if raw := q.Get("date"); raw != "" {
		parsed, err := attendance.ParseDate(raw, loc)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	online := true
	if raw := q.Get("online"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "online must be a boolean")
			return
		}
		online = parsed
	}

	view, err := h.Service.Attendance(r.Context(), core.AttendanceQuery{
		Date:   day,
		Search: q.Get("q"),
		Online: online,
		Caller: identity.FromContext(r.Context()),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ViewHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Me returns the display name derived from the caller's token.
func (h *ViewHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"name": identity.FromContext(r.Context()).Name})
}
