package handler

import (
	"net/http"

	"crewclock.service/internal/core"
	"crewclock.service/internal/core/identity"
)

type ClockHandler struct {
	Service *core.ClockService
}

func (h *ClockHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.ListClockEntries(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Create records a clock action. The entry is confirmed asynchronously by the
// sync worker, hence 202.
func (h *ClockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req core.ClockRequest
	if !decode(w, r, &req) {
		return
	}
	entry, err := h.Service.CreateClockEntry(r.Context(), identity.FromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, entry)
}

func (h *ClockHandler) Sync(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.SyncClockEntries(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"queued": n})
}
