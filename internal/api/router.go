package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"crewclock.service/internal/api/handler"
	"crewclock.service/internal/core"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Projects *core.ProjectService
	Workers  *core.WorkerService
	Clock    *core.ClockService
	Views    *core.ViewService
	// JWTSecret enables token verification when non-empty.
	JWTSecret string
}

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(s Services) *mux.Router {
	projects := handler.ProjectHandler{Service: s.Projects}
	workers := handler.WorkerHandler{Service: s.Workers}
	clock := handler.ClockHandler{Service: s.Clock}
	views := handler.ViewHandler{Service: s.Views}

	r := mux.NewRouter()

	r.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware(s.JWTSecret))

	api.HandleFunc("/projects", projects.List).Methods(http.MethodGet)
	api.HandleFunc("/projects", projects.Create).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", projects.Get).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projects.Update).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}", projects.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/workers", workers.List).Methods(http.MethodGet)
	api.HandleFunc("/workers", workers.Create).Methods(http.MethodPost)
	api.HandleFunc("/workers/{id}", workers.Get).Methods(http.MethodGet)
	api.HandleFunc("/workers/{id}", workers.Update).Methods(http.MethodPut)
	api.HandleFunc("/workers/{id}", workers.Delete).Methods(http.MethodDelete)

	api.HandleFunc("/clock-entries", clock.List).Methods(http.MethodGet)
	api.HandleFunc("/clock-entries", clock.Create).Methods(http.MethodPost)
	api.HandleFunc("/clock-entries/sync", clock.Sync).Methods(http.MethodPost)

	api.HandleFunc("/attendance", views.Attendance).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", views.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/me", views.Me).Methods(http.MethodGet)

	return r
}
