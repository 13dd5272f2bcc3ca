package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"submitmgr/internal/apperrors"
	"submitmgr/internal/config"
	"submitmgr/internal/connector"
	connectormem "submitmgr/internal/connector/memory"
	"submitmgr/internal/dispatcher"
	fakeengine "submitmgr/internal/engine/fake"
	"submitmgr/internal/model"
	"submitmgr/internal/notify"
	"submitmgr/internal/observability"
	"submitmgr/internal/repository/memory"
	"submitmgr/internal/resource"
)

type testConnConfig struct {
	Host string `form:"host"`
}

type testJobConfig struct {
	TableName string `form:"tableName"`
}

// testHarness bundles everything a Submit/Stop/Status test needs.
type testHarness struct {
	mgr        *Manager
	repo       *memory.Repository
	destroyed  *bool
	submission *fakeengine.SubmissionEngine
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	return newHarnessWithDeps(t, nil, nil)
}

func newHarnessWithDeps(t *testing.T, notifier *notify.Notifier, metrics *observability.Metrics) *testHarness {
	t.Helper()

	repo := memory.New()
	destroyed := new(bool)

	connReg := connectormem.NewMemoryRegistry(connector.Connector{
		ID:   1,
		Name: "test-connector",
		ConnectionConfig: func() any {
			return &testConnConfig{}
		},
		JobConfig: func(model.JobType) any {
			return &testJobConfig{}
		},
		ImporterCallbacks: connector.Callbacks{
			NewInitializer: func() connector.Initializer { return noopInitializer{} },
			NewDestroyer:   func() connector.Destroyer { return markDestroyer{destroyed} },
		},
		ExporterCallbacks: connector.Callbacks{
			NewInitializer: func() connector.Initializer { return noopInitializer{} },
			NewDestroyer:   func() connector.Destroyer { return markDestroyer{destroyed} },
		},
	})

	cfg := config.ManagerConfig{
		SubmissionEngine: "fake",
		ExecutionEngine:  "fake",
		PurgeThreshold:   24 * time.Hour,
		PurgeSleep:       time.Hour,
		UpdateSleep:      time.Hour,
	}

	mgr := New(cfg, repo, connReg, notifier, metrics)
	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Destroy(context.Background()) })

	se := mgr.submissionEngine.(*fakeengine.SubmissionEngine)

	return &testHarness{mgr: mgr, repo: repo, destroyed: destroyed, submission: se}
}

// recordingDispatcher is a minimal dispatcher.Dispatcher that records every
// dispatched event, for asserting on notification routing.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []*dispatcher.Event
}

func (r *recordingDispatcher) Dispatch(event *dispatcher.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}
func (r *recordingDispatcher) Stats() dispatcher.Stats     { return dispatcher.Stats{} }
func (r *recordingDispatcher) Close(context.Context) error { return nil }
func (r *recordingDispatcher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

var _ dispatcher.Dispatcher = (*recordingDispatcher)(nil)

func (h *testHarness) seedJob(t *testing.T, jobID, connectionID int64, jobType model.JobType) {
	t.Helper()
	h.repo.SeedConnection(model.Connection{
		ID:          connectionID,
		ConnectorID: 1,
		Forms: model.Forms{
			FrameworkPart: model.FormValues{"connectionTimeout": "5s"},
			ConnectorPart: model.FormValues{"host": "db.example.com"},
		},
	})
	h.repo.SeedJob(model.Job{
		ID:           jobID,
		Name:         "test-job",
		Type:         jobType,
		ConnectorID:  1,
		ConnectionID: connectionID,
		Forms: model.Forms{
			FrameworkPart: model.FormValues{"outputDirectory": "/tmp/out"},
			ConnectorPart: model.FormValues{"tableName": "accounts"},
		},
	})
}

type noopInitializer struct{}

func (noopInitializer) Initialize(context.Context, any, any) error { return nil }
func (noopInitializer) GetJars(context.Context) ([]resource.Resource, error) { return nil, nil }

type markDestroyer struct{ called *bool }

func (d markDestroyer) Run(context.Context) error {
	*d.called = true
	return nil
}

func TestSubmitHappyPathImport(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seedJob(t, 17, 1, model.JobTypeImport)

	sub, err := h.mgr.Submit(context.Background(), 17)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.JobID != 17 {
		t.Errorf("JobID = %d, want 17", sub.JobID)
	}
	if sub.ExternalID == "" {
		t.Error("expected an external id")
	}
	if sub.Status != model.StatusBooting {
		t.Errorf("Status = %s, want BOOTING", sub.Status)
	}
	if sub.Progress != -1 {
		t.Errorf("Progress = %v, want -1", sub.Progress)
	}
	if sub.Counters != nil {
		t.Error("expected nil counters on a running submission")
	}
	if sub.CreationDate.IsZero() {
		t.Error("expected a creation date")
	}
}

func TestSubmitDuplicateRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seedJob(t, 17, 1, model.JobTypeImport)

	if _, err := h.mgr.Submit(context.Background(), 17); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	_, err := h.mgr.Submit(context.Background(), 17)
	if err == nil {
		t.Fatal("expected duplicate submit to fail")
	}
	code, ok := apperrors.CodeOf(err)
	if !ok || code != apperrors.CodeJobRunning {
		t.Errorf("error code = %v, want %v", code, apperrors.CodeJobRunning)
	}

	unfinished, err := h.repo.FindUnfinishedSubmissions(context.Background())
	if err != nil {
		t.Fatalf("FindUnfinishedSubmissions: %v", err)
	}
	count := 0
	for _, s := range unfinished {
		if s.JobID == 17 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 submission row for job 17, got %d", count)
	}
}

func TestSubmitRejectedRunsDestroyerAndFails(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seedJob(t, 20, 2, model.JobTypeImport)
	h.submission.RejectNextSubmit()

	sub, err := h.mgr.Submit(context.Background(), 20)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != model.StatusFailureOnSubmit {
		t.Errorf("Status = %s, want FAILURE_ON_SUBMIT", sub.Status)
	}
	if sub.ExternalID != "" {
		t.Error("expected no external id on a rejected submission")
	}
	if !*h.destroyed {
		t.Error("expected the destroyer to run")
	}

	status, err := h.mgr.Status(context.Background(), 20)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Status != model.StatusFailureOnSubmit {
		t.Errorf("Status() = %s, want FAILURE_ON_SUBMIT", status.Status)
	}
}

func TestStopNonRunningRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seedJob(t, 21, 3, model.JobTypeImport)

	sub, err := h.mgr.Submit(context.Background(), 21)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	h.submission.SetStatus(sub.ExternalID, model.StatusSucceeded, -1, model.Counters{"rows": 10})
	if _, err := h.mgr.Status(context.Background(), 21); err != nil {
		t.Fatalf("Status: %v", err)
	}

	_, err = h.mgr.Stop(context.Background(), 21)
	if err == nil {
		t.Fatal("expected Stop on a non-running submission to fail")
	}
	code, ok := apperrors.CodeOf(err)
	if !ok || code != apperrors.CodeStopNotRunning {
		t.Errorf("error code = %v, want %v", code, apperrors.CodeStopNotRunning)
	}
}

func TestStatusNeverExecuted(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	sub, err := h.mgr.Status(context.Background(), 42)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if sub.Status != model.StatusNeverExecuted {
		t.Errorf("Status = %s, want NEVER_EXECUTED", sub.Status)
	}
	if sub.ID != 0 {
		t.Error("expected a transient, unpersisted submission")
	}

	if _, ok, _ := h.repo.FindLastSubmission(context.Background(), 42); ok {
		t.Error("expected no submission to have been persisted")
	}
}

func TestPurgeRetainsOnlySubmissionsWithinThreshold(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	now := time.Now()
	ctx := context.Background()

	_, _ = h.repo.CreateSubmission(ctx, model.MSubmission{JobID: 1, Status: model.StatusSucceeded, CreationDate: now.Add(-1 * time.Hour)})
	_, _ = h.repo.CreateSubmission(ctx, model.MSubmission{JobID: 2, Status: model.StatusSucceeded, CreationDate: now.Add(-25 * time.Hour)})
	_, _ = h.repo.CreateSubmission(ctx, model.MSubmission{JobID: 3, Status: model.StatusSucceeded, CreationDate: now.Add(-100 * time.Hour)})

	h.mgr.runPurgeCycle(ctx)

	if _, ok, _ := h.repo.FindLastSubmission(ctx, 1); !ok {
		t.Error("expected job 1's submission to survive")
	}
	if _, ok, _ := h.repo.FindLastSubmission(ctx, 2); ok {
		t.Error("expected job 2's submission to be purged")
	}
	if _, ok, _ := h.repo.FindLastSubmission(ctx, 3); ok {
		t.Error("expected job 3's submission to be purged")
	}
}

func TestUpdateWorkerOnlyPollsUnfinishedSubmissions(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seedJob(t, 30, 4, model.JobTypeImport)

	sub, err := h.mgr.Submit(context.Background(), 30)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	h.submission.SetStatus(sub.ExternalID, model.StatusRunning, 0.25, nil)

	h.mgr.runUpdateCycle(context.Background())

	refreshed, ok, err := h.repo.FindLastSubmission(context.Background(), 30)
	if err != nil || !ok {
		t.Fatalf("FindLastSubmission: ok=%v err=%v", ok, err)
	}
	if refreshed.Status != model.StatusRunning || refreshed.Progress != 0.25 {
		t.Errorf("refreshed = %+v, want RUNNING at 0.25", refreshed)
	}

	h.submission.SetStatus(sub.ExternalID, model.StatusSucceeded, -1, model.Counters{"rows": 500})
	h.mgr.runUpdateCycle(context.Background())

	// A second cycle after reaching a terminal status must not change
	// anything further for this submission (it's no longer "unfinished").
	final, _, _ := h.repo.FindLastSubmission(context.Background(), 30)
	h.mgr.runUpdateCycle(context.Background())
	again, _, _ := h.repo.FindLastSubmission(context.Background(), 30)
	if again.LastUpdateDate != final.LastUpdateDate {
		t.Error("expected no further polling once a submission reaches a terminal status")
	}
}

func TestSubmitNotifiesJobCallbackURLOnly(t *testing.T) {
	t.Parallel()
	rec := &recordingDispatcher{}
	h := newHarnessWithDeps(t, notify.NewNotifier(rec), nil)

	h.repo.SeedConnection(model.Connection{
		ID:          5,
		ConnectorID: 1,
		Forms: model.Forms{
			FrameworkPart: model.FormValues{"connectionTimeout": "5s"},
			ConnectorPart: model.FormValues{"host": "db.example.com"},
		},
	})
	h.repo.SeedJob(model.Job{
		ID:           50,
		Type:         model.JobTypeImport,
		ConnectorID:  1,
		ConnectionID: 5,
		CallbackURL:  "http://callback.invalid/50",
		Forms: model.Forms{
			FrameworkPart: model.FormValues{"outputDirectory": "/tmp/out"},
			ConnectorPart: model.FormValues{"tableName": "accounts"},
		},
	})

	if _, err := h.mgr.Submit(context.Background(), 50); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := rec.count(); got != 1 {
		t.Fatalf("expected 1 dispatched event for a job with a callback URL, got %d", got)
	}

	h.seedJob(t, 51, 6, model.JobTypeImport)
	if _, err := h.mgr.Submit(context.Background(), 51); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := rec.count(); got != 1 {
		t.Fatalf("expected no additional dispatch for a job without a callback URL, got %d", got)
	}
}

func TestUpdateRecordsTerminalMetrics(t *testing.T) {
	t.Parallel()
	metrics, _, err := observability.NewMetrics(context.Background())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	h := newHarnessWithDeps(t, nil, metrics)
	h.seedJob(t, 60, 7, model.JobTypeImport)

	sub, err := h.mgr.Submit(context.Background(), 60)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	h.submission.SetStatus(sub.ExternalID, model.StatusRunning, 0.5, nil)
	if _, err := h.mgr.Status(context.Background(), 60); err != nil {
		t.Fatalf("Status: %v", err)
	}

	// The transition into a terminal status must record duration/saturation
	// metrics without panicking, exercising RecordSubmissionTerminal from
	// the shared update primitive instead of only from a direct unit test.
	h.submission.SetStatus(sub.ExternalID, model.StatusSucceeded, -1, model.Counters{"rows": 10})
	final, err := h.mgr.Status(context.Background(), 60)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if final.Status != model.StatusSucceeded {
		t.Errorf("Status = %s, want SUCCEEDED", final.Status)
	}
}
