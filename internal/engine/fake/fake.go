// Package fake provides a non-production SubmissionEngine/ExecutionEngine
// pair used by tests and the demo binary. It registers itself under the
// names "fake" (submission) and "fake" (execution) so it can be selected
// through the same configuration keys a real engine pair would use.
package fake

import (
	"context"
	"fmt"
	"sync"

	"submitmgr/internal/engine"
	"submitmgr/internal/model"
)

func init() {
	engine.RegisterSubmissionEngine("fake", func() (engine.SubmissionEngine, error) {
		return NewSubmissionEngine(), nil
	})
	engine.RegisterExecutionEngine("fake", func() (engine.ExecutionEngine, error) {
		return NewExecutionEngine(), nil
	})
}

// SubmissionEngine is an in-memory stand-in for a real cluster submission
// backend. Submitted jobs are tracked by an externally visible id and
// their status can be driven directly by tests via SetStatus.
type SubmissionEngine struct {
	mu         sync.Mutex
	nextID     int
	jobs       map[string]*job
	rejectNext bool
}

type job struct {
	status   model.SubmissionStatus
	progress float64
	counters model.Counters
	link     string
	stopped  bool
}

// NewSubmissionEngine builds an empty SubmissionEngine.
func NewSubmissionEngine() *SubmissionEngine {
	return &SubmissionEngine{jobs: make(map[string]*job)}
}

// RejectNextSubmit makes the next call to Submit return false without
// assigning an external id, simulating a locally detected rejection
// (spec scenario 3).
func (e *SubmissionEngine) RejectNextSubmit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rejectNext = true
}

func (e *SubmissionEngine) Initialize(context.Context, map[string]string) error { return nil }
func (e *SubmissionEngine) Destroy(context.Context) error                      { return nil }

func (e *SubmissionEngine) Accepts(executionEngineName string) bool {
	return executionEngineName == "fake"
}

func (e *SubmissionEngine) Submit(_ context.Context, request *engine.SubmissionRequest) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.rejectNext {
		e.rejectNext = false
		return false, nil
	}

	e.nextID++
	externalID := fmt.Sprintf("FAKE-%d", e.nextID)
	e.jobs[externalID] = &job{status: model.StatusBooting, progress: 0, link: "https://cluster.invalid/jobs/" + externalID}
	request.Summary.ExternalID = externalID
	request.Summary.Status = model.StatusBooting
	return true, nil
}

// SetStatus drives a tracked job directly, for tests that exercise the
// update worker or the status operation against specific transitions.
func (e *SubmissionEngine) SetStatus(externalID string, status model.SubmissionStatus, progress float64, counters model.Counters) {
	e.mu.Lock()
	defer e.mu.Unlock()
	j, ok := e.jobs[externalID]
	if !ok {
		j = &job{}
		e.jobs[externalID] = j
	}
	j.status = status
	j.progress = progress
	j.counters = counters
}

func (e *SubmissionEngine) Stop(_ context.Context, externalID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	j, ok := e.jobs[externalID]
	if !ok {
		return fmt.Errorf("fake: unknown external id %q", externalID)
	}
	j.stopped = true
	return nil
}

func (e *SubmissionEngine) Status(_ context.Context, externalID string) (model.SubmissionStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	j, ok := e.jobs[externalID]
	if !ok {
		return model.StatusUnknown, nil
	}
	return j.status, nil
}

func (e *SubmissionEngine) Progress(_ context.Context, externalID string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	j, ok := e.jobs[externalID]
	if !ok {
		return -1, nil
	}
	return j.progress, nil
}

func (e *SubmissionEngine) Stats(_ context.Context, externalID string) (model.Counters, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	j, ok := e.jobs[externalID]
	if !ok {
		return nil, nil
	}
	return j.counters, nil
}

func (e *SubmissionEngine) ExternalLink(_ context.Context, externalID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	j, ok := e.jobs[externalID]
	if !ok {
		return "", nil
	}
	return j.link, nil
}

// ExecutionEngine is a no-op stand-in that just shapes requests in place.
type ExecutionEngine struct{}

// NewExecutionEngine builds an ExecutionEngine.
func NewExecutionEngine() *ExecutionEngine { return &ExecutionEngine{} }

func (e *ExecutionEngine) Initialize(context.Context, map[string]string) error { return nil }
func (e *ExecutionEngine) Destroy(context.Context) error                      { return nil }
func (e *ExecutionEngine) Name() string                                       { return "fake" }

func (e *ExecutionEngine) CreateSubmissionRequest() *engine.SubmissionRequest {
	return &engine.SubmissionRequest{}
}

func (e *ExecutionEngine) PrepareImportSubmission(context.Context, *engine.SubmissionRequest) error {
	return nil
}

func (e *ExecutionEngine) PrepareExportSubmission(context.Context, *engine.SubmissionRequest) error {
	return nil
}

var (
	_ engine.SubmissionEngine = (*SubmissionEngine)(nil)
	_ engine.ExecutionEngine  = (*ExecutionEngine)(nil)
)
