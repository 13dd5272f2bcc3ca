// Package memory provides an in-process Repository implementation used by
// tests and the demo binary. The locking discipline — a single RWMutex
// guarding a handful of maps, RLock for reads and Lock for writes — follows
// the teacher's in-memory state store for container jobs, retargeted from
// container/volume/sidecar ids to job/connection/submission rows.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"submitmgr/internal/model"
	"submitmgr/internal/repository"
)

// Repository is an in-memory, process-local Repository.
type Repository struct {
	mu sync.RWMutex

	frameworkSet bool
	framework    model.MFramework
	nextFwID     int64

	jobs        map[int64]model.Job
	connections map[int64]model.Connection

	submissions map[int64]model.MSubmission
	lastByJob   map[int64]int64 // jobID -> highest submission ID for that job
	nextSubID   int64
}

// New builds an empty Repository.
func New() *Repository {
	return &Repository{
		jobs:        make(map[int64]model.Job),
		connections: make(map[int64]model.Connection),
		submissions: make(map[int64]model.MSubmission),
		lastByJob:   make(map[int64]int64),
		nextFwID:    1,
		nextSubID:   1,
	}
}

// SeedJob adds (or replaces) a job row, for test fixtures.
func (r *Repository) SeedJob(job model.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

// SeedConnection adds (or replaces) a connection row, for test fixtures.
func (r *Repository) SeedConnection(conn model.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[conn.ID] = conn
}

func (r *Repository) RegisterFramework(_ context.Context, framework model.MFramework) (model.MFramework, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frameworkSet {
		return r.framework, nil
	}
	framework.RegisteredID = r.nextFwID
	r.nextFwID++
	r.framework = framework
	r.frameworkSet = true
	return r.framework, nil
}

func (r *Repository) FindJob(_ context.Context, jobID int64) (model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return model.Job{}, repository.ErrJobNotFound
	}
	return job, nil
}

func (r *Repository) FindConnection(_ context.Context, connectionID int64) (model.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.connections[connectionID]
	if !ok {
		return model.Connection{}, repository.ErrConnectionNotFound
	}
	return conn, nil
}

func (r *Repository) FindLastSubmission(_ context.Context, jobID int64) (model.MSubmission, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subID, ok := r.lastByJob[jobID]
	if !ok {
		return model.MSubmission{}, false, nil
	}
	return r.submissions[subID], true, nil
}

func (r *Repository) FindUnfinishedSubmissions(_ context.Context) ([]model.MSubmission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.MSubmission, 0, len(r.submissions))
	for _, sub := range r.submissions {
		if !sub.Status.IsTerminal() {
			result = append(result, sub)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Repository) CreateSubmission(_ context.Context, sub model.MSubmission) (model.MSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub.ID = r.nextSubID
	r.nextSubID++
	r.submissions[sub.ID] = sub
	if prev, ok := r.lastByJob[sub.JobID]; !ok || sub.ID > prev {
		r.lastByJob[sub.JobID] = sub.ID
	}
	return sub, nil
}

func (r *Repository) UpdateSubmission(_ context.Context, sub model.MSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.submissions[sub.ID] = sub
	return nil
}

func (r *Repository) PurgeSubmissionsOlderThan(_ context.Context, threshold time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, sub := range r.submissions {
		if sub.CreationDate.Before(threshold) {
			delete(r.submissions, id)
			if r.lastByJob[sub.JobID] == id {
				delete(r.lastByJob, sub.JobID)
			}
			removed++
		}
	}
	return removed, nil
}

var _ repository.Repository = (*Repository)(nil)
