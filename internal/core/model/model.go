package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ClockType defines the direction of a clock event.
type ClockType string

const (
	ClockIn  ClockType = "clock-in"
	ClockOut ClockType = "clock-out"
)

// Valid reports whether t is one of the known clock types.
func (t ClockType) Valid() bool {
	return t == ClockIn || t == ClockOut
}

// WorkerType is the category a worker belongs to. Only WorkerTypeWorker
// shows up in the operational views.
type WorkerType string

const (
	WorkerTypeWorker     WorkerType = "Worker"
	WorkerTypeSupervisor WorkerType = "Supervisor"
	WorkerTypeManager    WorkerType = "Manager"
	WorkerTypeAdmin      WorkerType = "Admin"
)

var workerTypes = []WorkerType{WorkerTypeWorker, WorkerTypeSupervisor, WorkerTypeManager, WorkerTypeAdmin}

// ParseWorkerType matches s case-insensitively against the known categories.
func ParseWorkerType(s string) (WorkerType, error) {
	s = strings.TrimSpace(s)
	for _, t := range workerTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown worker type %q", s)
}

// ProjectStatus defines the lifecycle state of a project.
type ProjectStatus string

const (
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
	StatusHold      ProjectStatus = "hold"
)

// Valid reports whether s is one of the known project states.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusHold:
		return true
	}
	return false
}

// ClockEvent is a single attendance action. Only Synced changes after creation.
type ClockEvent struct {
	ID         string    `json:"id"`
	Worker     string    `json:"worker"`
	Project    string    `json:"project"`
	Type       ClockType `json:"type"`
	Time       time.Time `json:"time"`
	Synced     bool      `json:"synced"`
	OwnerToken string    `json:"ownerToken,omitempty"`

	SyncAttempts int  `json:"-"`
	SummarySent  bool `json:"-"`
}

type Worker struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	WorkerType WorkerType `json:"workerType"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Normalize trims user supplied fields and canonicalises the worker type.
func (w *Worker) Normalize() {
	w.Name = strings.TrimSpace(w.Name)
	w.Role = strings.TrimSpace(w.Role)
	if t, err := ParseWorkerType(string(w.WorkerType)); err == nil {
		w.WorkerType = t
	}
}

func (w Worker) Validate() error {
	var errs []error
	if w.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if w.Role == "" {
		errs = append(errs, errors.New("role is required"))
	}
	if w.WorkerType == "" {
		errs = append(errs, errors.New("workerType is required"))
	} else if _, err := ParseWorkerType(string(w.WorkerType)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type Milestone struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Task struct {
	Title      string      `json:"title"`
	Completed  bool        `json:"completed"`
	Milestones []Milestone `json:"milestones"`
}

// AssignedWorker references a worker by id and carries a copy of the name.
type AssignedWorker struct {
	WorkerID string `json:"workerId,omitempty"`
	Name     string `json:"name"`
}

type Project struct {
	ID              string           `json:"id"`
	Name            string           `json:"projectName"`
	Description     string           `json:"projectDescription"`
	Supervisors     []string         `json:"supervisors"`
	Budget          float64          `json:"projectBudget"`
	Status          ProjectStatus    `json:"projectStatus"`
	AssignedWorkers []AssignedWorker `json:"assignedWorkers"`
	Tasks           []Task           `json:"tasks"`
	Progress        float64          `json:"progress"`
	Images          []string         `json:"images"`
	PDFs            []string         `json:"pdfs"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Normalize trims text fields, applies defaults and replaces nil slices
// so the project always serialises with empty arrays.
func (p *Project) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if p.Status == "" {
		p.Status = StatusActive
	}
	for i := range p.Supervisors {
		p.Supervisors[i] = strings.TrimSpace(p.Supervisors[i])
	}
	for i := range p.AssignedWorkers {
		p.AssignedWorkers[i].Name = strings.TrimSpace(p.AssignedWorkers[i].Name)
	}
	if p.Supervisors == nil {
		p.Supervisors = []string{}
	}
	if p.AssignedWorkers == nil {
		p.AssignedWorkers = []AssignedWorker{}
	}
	if p.Tasks == nil {
		p.Tasks = []Task{}
	}
	for i := range p.Tasks {
		if p.Tasks[i].Milestones == nil {
			p.Tasks[i].Milestones = []Milestone{}
		}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.PDFs == nil {
		p.PDFs = []string{}
	}
}

func (p Project) Validate() error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("projectName is required"))
	}
	if !p.Status.Valid() {
		errs = append(errs, fmt.Errorf("projectStatus must be one of active, completed, hold; got %q", p.Status))
	}
	if p.Budget < 0 {
		errs = append(errs, errors.New("projectBudget must not be negative"))
	}
	if p.Progress < 0 || p.Progress > 100 {
		errs = append(errs, errors.New("progress must be between 0 and 100"))
	}
	for i, t := range p.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Errorf("tasks[%d].title is required", i))
		}
		for j, m := range t.Milestones {
			if strings.TrimSpace(m.Title) == "" {
				errs = append(errs, fmt.Errorf("tasks[%d].milestones[%d].title is required", i, j))
			}
		}
	}
	return errors.Join(errs...)
}

// Snapshot is a read-only view of the collections taken for a single
// derivation pass. Callers re-fetch it rather than sharing one across requests.
type Snapshot struct {
	Projects     []Project
	Workers      []Worker
	ClockEntries []ClockEvent
}

// WorkersOfType returns the workers in the given category, preserving order.
func WorkersOfType(workers []Worker, t WorkerType) []Worker {
	out := make([]Worker, 0, len(workers))
	for _, w := range workers {
		if w.WorkerType == t {
			out = append(out, w)
		}
	}
	return out
}
