// Package repository defines the persistence boundary the submission
// manager depends on (spec §6, "Repository interface consumed"). The
// repository itself is an external collaborator — out of scope per spec
// §1 — but the manager is written entirely against this interface so any
// storage backend can be swapped in.
package repository

import (
	"context"
	"time"

	"submitmgr/internal/model"
)

// Repository is the persistence boundary for framework metadata,
// connections, jobs, and submissions.
type Repository interface {
	// RegisterFramework persists framework metadata exactly once per
	// process lifetime (invariant I3) and returns the registered value
	// with its RegisteredID populated.
	RegisterFramework(ctx context.Context, framework model.MFramework) (model.MFramework, error)

	FindJob(ctx context.Context, jobID int64) (model.Job, error)
	FindConnection(ctx context.Context, connectionID int64) (model.Connection, error)

	// FindLastSubmission returns the most recently created submission for
	// a job, or ok=false if none exists yet.
	FindLastSubmission(ctx context.Context, jobID int64) (sub model.MSubmission, ok bool, err error)

	// FindUnfinishedSubmissions returns every submission whose status is
	// non-terminal (spec P5).
	FindUnfinishedSubmissions(ctx context.Context) ([]model.MSubmission, error)

	// CreateSubmission persists a new submission row and returns it with
	// its ID assigned.
	CreateSubmission(ctx context.Context, sub model.MSubmission) (model.MSubmission, error)

	// UpdateSubmission persists the full row, keyed by sub.ID.
	UpdateSubmission(ctx context.Context, sub model.MSubmission) error

	// PurgeSubmissionsOlderThan deletes every submission whose creation
	// date is strictly before threshold and reports how many rows were
	// removed.
	PurgeSubmissionsOlderThan(ctx context.Context, threshold time.Time) (int, error)
}

// ErrJobNotFound is returned by FindJob when no job with the given id
// exists.
var ErrJobNotFound = errJobNotFound{}

type errJobNotFound struct{}

func (errJobNotFound) Error() string { return "repository: job not found" }

// ErrConnectionNotFound is returned by FindConnection when no connection
// with the given id exists.
var ErrConnectionNotFound = errConnectionNotFound{}

type errConnectionNotFound struct{}

func (errConnectionNotFound) Error() string { return "repository: connection not found" }
