package store

import (
	"time"

	"github.com/google/uuid"
)

// RunKind names the workflow a run executed.
type RunKind string

const (
	RunClean RunKind = "clean"
	RunSync  RunKind = "sync"
)

// Outcome is what happened to one file in a clean run.
type Outcome string

const (
	OutcomeKept   Outcome = "kept"
	OutcomeMoved  Outcome = "moved"
	OutcomeFailed Outcome = "failed"
)

// Run is one recorded invocation.
type Run struct {
	ID        string         `json:"id"`
	Kind      RunKind        `json:"kind"`
	Folder    string         `json:"folder"`
	StartedAt time.Time      `json:"started_at"`
	Summary   map[string]int `json:"summary"`
}

// Move records one file of a clean run. Detail carries the failure reason.
type Move struct {
	RunID    string  `json:"run_id"`
	Seq      int64   `json:"seq"`
	BaseName string  `json:"base_name"`
	Filename string  `json:"filename"`
	Outcome  Outcome `json:"outcome"`
	Detail   string  `json:"detail,omitempty"`
}

// IssueEntry records one drawing row written by a sync run.
type IssueEntry struct {
	RunID      string `json:"run_id"`
	Seq        int64  `json:"seq"`
	IssueLabel string `json:"issue_label"`
	IssueMeta  string `json:"issue_meta"`
	BaseName   string `json:"base_name"`
	Revision   string `json:"revision"`
	Action     string `json:"action"`
}

// RunIDGenerator generates run IDs.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewRun builds a run with an ID from gen and an empty summary.
func NewRun(gen RunIDGenerator, kind RunKind, folder string, startedAt time.Time) Run {
	return Run{
		ID:        gen.Generate(),
		Kind:      kind,
		Folder:    folder,
		StartedAt: startedAt.UTC(),
		Summary:   map[string]int{},
	}
}
