// Package session records the outcomes of crawl runs.
//
// An [Outcome] is the settled result of resolving one package: either a
// [ResolvedVersion] or a failure reason, never both. Outcomes are collected
// into an append-only [Session] while a crawl runs and frozen into a [Run]
// when it completes.
//
// Runs are persisted through a [Store]:
//   - [FileStore]: one JSON file per run, the CLI default
//   - mongo.Store: a MongoDB collection for shared history
//
// The latest stored run is the baseline for change detection in reports.
package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tagscout/pkg/ecosystem"
)

// ResolvedVersion is the version found for a package.
type ResolvedVersion struct {
	Version     string     `json:"version" bson:"version"`
	ReleaseDate *time.Time `json:"release_date,omitempty" bson:"release_date,omitempty"`
	Locator     string     `json:"locator,omitempty" bson:"locator,omitempty"` // download URL or pull command
	Note        string     `json:"note,omitempty" bson:"note,omitempty"`
	Strategy    string     `json:"strategy" bson:"strategy"`
}

// Outcome is the settled result of one package. Exactly one of Resolved and
// FailureReason is set.
type Outcome struct {
	Package       string           `json:"package" bson:"package"`
	SourceURL     string           `json:"source_url" bson:"source_url"`
	Kind          ecosystem.Kind   `json:"kind" bson:"kind"`
	Resolved      *ResolvedVersion `json:"resolved,omitempty" bson:"resolved,omitempty"`
	FailureReason string           `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	ResolvedAt    time.Time        `json:"resolved_at" bson:"resolved_at"`
	Attempts      int              `json:"attempts" bson:"attempts"`
}

// OK reports whether the package resolved.
func (o Outcome) OK() bool { return o.Resolved != nil }

// Version returns the resolved version, or "" for a failed outcome.
func (o Outcome) Version() string {
	if o.Resolved == nil {
		return ""
	}
	return o.Resolved.Version
}

// Session collects outcomes while a crawl runs. Outcomes can only be
// appended. A Session is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// New returns an empty session.
func New() *Session { return &Session{} }

// Append adds outcomes in the given order.
func (s *Session) Append(outcomes ...Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, outcomes...)
}

// Outcomes returns a copy of the collected outcomes.
func (s *Session) Outcomes() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.outcomes)
}

// Len returns the number of collected outcomes.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outcomes)
}

// Run is a completed crawl.
type Run struct {
	ID         string    `json:"id" bson:"_id"`
	StartedAt  time.Time `json:"started_at" bson:"started_at"`
	FinishedAt time.Time `json:"finished_at" bson:"finished_at"`
	Outcomes   []Outcome `json:"outcomes" bson:"outcomes"`
}

// NewRun freezes outcomes into a run with a fresh ID.
func NewRun(startedAt, finishedAt time.Time, outcomes []Outcome) *Run {
	return &Run{
		ID:         uuid.NewString(),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Outcomes:   outcomes,
	}
}

// Counts returns the number of outcomes, resolved packages and failures.
func (r *Run) Counts() (total, ok, failed int) {
	for _, o := range r.Outcomes {
		if o.OK() {
			ok++
		} else {
			failed++
		}
	}
	return len(r.Outcomes), ok, failed
}

// Failed reports whether any package failed.
func (r *Run) Failed() bool {
	_, _, failed := r.Counts()
	return failed > 0
}

// Versions maps each resolved package to its version.
func (r *Run) Versions() map[string]string {
	if r == nil {
		return nil
	}
	m := make(map[string]string, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.OK() {
			m[o.Package] = o.Version()
		}
	}
	return m
}

// Store persists runs.
type Store interface {
	// Save stores a run.
	Save(ctx context.Context, run *Run) error

	// Latest returns the most recently started run.
	// Returns nil, nil when no run was stored.
	Latest(ctx context.Context) (*Run, error)

	// List returns up to limit runs, newest first. A non-positive limit
	// returns every run.
	List(ctx context.Context, limit int) ([]*Run, error)

	Close() error
}
