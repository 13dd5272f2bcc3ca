// Package manager implements the submission manager (spec §4): the
// process-wide component that composes a pluggable submission engine and
// execution engine, enforces the single-active-submission invariant per
// job, and runs the update and purge background workers.
//
// The lifecycle and worker-cancellation discipline follow the teacher's
// orchestrator: context.CancelFunc plus sync.WaitGroup to stop background
// loops cleanly (see workers.go), and a Ready method satisfying
// internal/health's ReadinessChecker so the manager can back a readiness
// probe the same way the teacher's Docker orchestrator does.
package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"submitmgr/internal/apperrors"
	"submitmgr/internal/config"
	"submitmgr/internal/connector"
	"submitmgr/internal/engine"
	"submitmgr/internal/formutil"
	"submitmgr/internal/model"
	"submitmgr/internal/notify"
	"submitmgr/internal/observability"
	"submitmgr/internal/repository"
)

// Manager is the process-wide submission manager singleton (spec §9:
// exposed as an owned service value, not ambient module-level state).
type Manager struct {
	cfg        config.ManagerConfig
	repo       repository.Repository
	connectors connector.Registry
	notifier   *notify.Notifier
	metrics    *observability.Metrics
	logger     *slog.Logger

	// lifecycleMu serializes Initialize/Destroy against each other
	// (spec §5, "Manager-level init/destroy are serialized against each
	// other").
	lifecycleMu sync.Mutex
	initialized bool

	// submissionMu is the single process-wide lock guarding the
	// read-last-submission / engine-submit / persist region of submit
	// (spec §4.3 step 8, invariant I1).
	submissionMu sync.Mutex

	framework        model.MFramework
	submissionEngine engine.SubmissionEngine
	executionEngine  engine.ExecutionEngine

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Manager. It does not contact the repository or
// instantiate engines; call Initialize to do that.
func New(cfg config.ManagerConfig, repo repository.Repository, connectors connector.Registry, notifier *notify.Notifier, metrics *observability.Metrics) *Manager {
	return &Manager{
		cfg:        cfg,
		repo:       repo,
		connectors: connectors,
		notifier:   notifier,
		metrics:    metrics,
		logger:     slog.With("component", "manager"),
	}
}

// Ready reports whether Initialize has completed, satisfying
// internal/health.ReadinessChecker.
func (m *Manager) Ready(context.Context) error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()
	if !m.initialized {
		return fmt.Errorf("manager: not initialized")
	}
	return nil
}

// Initialize performs the manager's two-phase startup (spec §4.1). It is
// idempotent: a second call while already initialized is a no-op.
func (m *Manager) Initialize(ctx context.Context) error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()

	if m.initialized {
		return nil
	}

	framework := buildFramework()
	registered, err := m.repo.RegisterFramework(ctx, framework)
	if err != nil {
		return apperrors.Internal("manager.Initialize: register framework", err)
	}
	m.framework = registered

	subBuilder, ok := engine.LookupSubmissionEngine(m.cfg.SubmissionEngine)
	if !ok {
		return apperrors.Framework(apperrors.CodeSubmissionEngineInit, apperrors.ErrInternal,
			"no submission engine registered under name %q", m.cfg.SubmissionEngine)
	}
	submissionEngine, err := subBuilder()
	if err != nil || submissionEngine == nil {
		return apperrors.Framework(apperrors.CodeSubmissionEngineInit, apperrors.ErrInternal,
			"submission engine %q failed to instantiate: %v", m.cfg.SubmissionEngine, err)
	}

	execBuilder, ok := engine.LookupExecutionEngine(m.cfg.ExecutionEngine)
	if !ok {
		return apperrors.Framework(apperrors.CodeExecutionEngineInit, apperrors.ErrInternal,
			"no execution engine registered under name %q", m.cfg.ExecutionEngine)
	}
	executionEngine, err := execBuilder()
	if err != nil || executionEngine == nil {
		return apperrors.Framework(apperrors.CodeExecutionEngineInit, apperrors.ErrInternal,
			"execution engine %q failed to instantiate: %v", m.cfg.ExecutionEngine, err)
	}

	if !submissionEngine.Accepts(executionEngine.Name()) {
		return apperrors.Framework(apperrors.CodeIncompatibleEngines, apperrors.ErrInternal,
			"submission engine %q does not accept execution engine %q", m.cfg.SubmissionEngine, executionEngine.Name())
	}

	if err := submissionEngine.Initialize(ctx, nil); err != nil {
		return apperrors.Framework(apperrors.CodeSubmissionEngineInit, apperrors.ErrInternal, "submission engine initialize: %v", err)
	}
	if err := executionEngine.Initialize(ctx, nil); err != nil {
		return apperrors.Framework(apperrors.CodeExecutionEngineInit, apperrors.ErrInternal, "execution engine initialize: %v", err)
	}

	m.submissionEngine = submissionEngine
	m.executionEngine = executionEngine

	workerCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.wg.Add(2)
	go m.runUpdateWorker(workerCtx)
	go m.runPurgeWorker(workerCtx)

	m.initialized = true
	m.logger.Info("manager initialized",
		"submissionEngine", m.cfg.SubmissionEngine,
		"executionEngine", m.cfg.ExecutionEngine,
	)
	return nil
}

// Destroy stops both workers, joins them, and destroys the engines (spec
// §4.1). It is idempotent.
func (m *Manager) Destroy(ctx context.Context) error {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()

	if !m.initialized {
		return nil
	}

	m.cancel()
	m.wg.Wait()

	if m.submissionEngine != nil {
		if err := m.submissionEngine.Destroy(ctx); err != nil {
			m.logger.Warn("submission engine destroy failed", "error", err)
		}
	}
	if m.executionEngine != nil {
		if err := m.executionEngine.Destroy(ctx); err != nil {
			m.logger.Warn("execution engine destroy failed", "error", err)
		}
	}

	m.initialized = false
	m.logger.Info("manager destroyed")
	return nil
}

// buildFramework constructs the static MFramework schema from the
// manager's own fixed configuration classes (spec §4.1 step 1). Concrete
// connectors' own configuration classes are not part of this schema:
// they belong to the per-connector Connection/Job form partitions
// materialized at submit time.
func buildFramework() model.MFramework {
	return model.MFramework{
		ConnectionFormSpec: formutil.Describe(FrameworkConnectionConfig{}),
		JobFormSpec: map[model.JobType][]string{
			model.JobTypeImport: formutil.Describe(FrameworkImportJobConfig{}),
			model.JobTypeExport: formutil.Describe(FrameworkExportJobConfig{}),
		},
	}
}
