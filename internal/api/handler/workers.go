package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"crewclock.service/internal/core"
	"crewclock.service/internal/core/model"
)

type WorkerHandler struct {
	Service *core.WorkerService
}

func (h *WorkerHandler) List(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workers)
}

func (h *WorkerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Worker
	if !decode(w, r, &req) {
		return
	}
	wk, err := h.Service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wk)
}

func (h *WorkerHandler) Get(w http.ResponseWriter, r *http.Request) {
	wk, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (h *WorkerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.Worker
	if !decode(w, r, &req) {
		return
	}
	wk, err := h.Service.Update(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (h *WorkerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
