package manager

import (
	"context"
	"time"

	"submitmgr/internal/apperrors"
	"submitmgr/internal/connector"
	"submitmgr/internal/engine"
	"submitmgr/internal/formutil"
	"submitmgr/internal/model"
)

// Submit runs the full submit sequence for a job (spec §4.3): load,
// materialize configurations, assemble the request, declare resources,
// bind connector callbacks, initialize the connector side, prepare the
// framework side, then attempt the submission under the single-submission
// mutex.
func (m *Manager) Submit(ctx context.Context, jobID int64) (*model.MSubmission, error) {
	job, err := m.repo.FindJob(ctx, jobID)
	if err != nil {
		return nil, apperrors.Framework(apperrors.CodeUnknownJob, apperrors.ErrNotFound, "job %d not found", jobID)
	}
	conn, err := m.repo.FindConnection(ctx, job.ConnectionID)
	if err != nil {
		return nil, apperrors.Internal("manager.Submit: load connection", err)
	}
	c, err := m.connectors.GetConnector(ctx, job.ConnectorID)
	if err != nil {
		return nil, apperrors.Internal("manager.Submit: load connector", err)
	}

	request, err := m.assembleRequest(job, conn, c)
	if err != nil {
		return nil, err
	}

	callbacks, ok := c.CallbacksFor(job.Type)
	if !ok {
		return nil, apperrors.Framework(apperrors.CodeUnsupportedJobType, apperrors.ErrValidation, "unsupported job type %q", job.Type)
	}
	request.Callbacks = callbacks

	initializer := callbacks.NewInitializer
	if initializer == nil {
		return nil, apperrors.Framework(apperrors.CodeCallbackInit, apperrors.ErrInternal, "connector %d has no initializer for job type %q", c.ID, job.Type)
	}
	init := initializer()
	if init == nil {
		return nil, apperrors.Framework(apperrors.CodeCallbackInit, apperrors.ErrInternal, "connector %d initializer instance is nil", c.ID)
	}
	if err := init.Initialize(ctx, request.ConnectorConnectionConfig, request.ConnectorJobConfig); err != nil {
		return nil, apperrors.Framework(apperrors.CodeCallbackInit, apperrors.ErrInternal, "connector %d initializer failed: %v", c.ID, err)
	}
	jars, err := init.GetJars(ctx)
	if err != nil {
		return nil, apperrors.Framework(apperrors.CodeCallbackInit, apperrors.ErrInternal, "connector %d initializer GetJars failed: %v", c.ID, err)
	}
	request.AddResources(jars...)

	if err := m.prepare(ctx, job, request); err != nil {
		return nil, err
	}

	return m.guardedSubmit(ctx, job, callbacks, request)
}

// assembleRequest performs spec §4.3 steps 2-4: materialize the four
// configuration objects, create the request via the execution engine, and
// declare the classpath resources.
func (m *Manager) assembleRequest(job model.Job, conn model.Connection, c connector.Connector) (*engine.SubmissionRequest, error) {
	request := m.executionEngine.CreateSubmissionRequest()
	request.JobType = job.Type
	request.JobName = job.Name
	request.JobID = job.ID
	request.Connector = c

	request.ConnectorConnectionConfig = c.ConnectionConfig()
	if err := formutil.Decode(conn.Forms.ConnectorPart, request.ConnectorConnectionConfig); err != nil {
		return nil, apperrors.Validation("connection.connectorPart", err.Error())
	}

	request.ConnectorJobConfig = c.JobConfig(job.Type)
	if err := formutil.Decode(job.Forms.ConnectorPart, request.ConnectorJobConfig); err != nil {
		return nil, apperrors.Validation("job.connectorPart", err.Error())
	}

	request.FrameworkConnectionConfig = &FrameworkConnectionConfig{}
	if err := formutil.Decode(conn.Forms.FrameworkPart, request.FrameworkConnectionConfig); err != nil {
		return nil, apperrors.Validation("connection.frameworkPart", err.Error())
	}

	switch job.Type {
	case model.JobTypeImport:
		request.FrameworkJobConfig = &FrameworkImportJobConfig{}
	case model.JobTypeExport:
		request.FrameworkJobConfig = &FrameworkExportJobConfig{}
	default:
		return nil, apperrors.Framework(apperrors.CodeUnsupportedJobType, apperrors.ErrValidation, "unsupported job type %q", job.Type)
	}
	if err := formutil.Decode(job.Forms.FrameworkPart, request.FrameworkJobConfig); err != nil {
		return nil, apperrors.Validation("job.frameworkPart", err.Error())
	}

	request.AddResources(declareResources(m.executionEngine, c)...)
	return request, nil
}

// prepare performs spec §4.3 step 7: for IMPORT, copy the output
// directory into the request and delegate to the execution engine; the
// EXPORT path remains a placeholder, matching the upstream gap the spec
// treats as TODO rather than specified behavior.
func (m *Manager) prepare(ctx context.Context, job model.Job, request *engine.SubmissionRequest) error {
	switch job.Type {
	case model.JobTypeImport:
		importCfg := request.FrameworkJobConfig.(*FrameworkImportJobConfig)
		request.OutputDirectory = importCfg.OutputDirectory
		return m.executionEngine.PrepareImportSubmission(ctx, request)
	case model.JobTypeExport:
		return m.executionEngine.PrepareExportSubmission(ctx, request)
	default:
		return apperrors.Framework(apperrors.CodeUnsupportedJobType, apperrors.ErrValidation, "unsupported job type %q", job.Type)
	}
}

// guardedSubmit performs spec §4.3 step 8 under the single-submission
// mutex: check for a running submission, attempt the submit, run the
// destroyer on any failure to accept (closing the gap in spec §7), and
// persist the outcome regardless.
func (m *Manager) guardedSubmit(ctx context.Context, job model.Job, callbacks connector.Callbacks, request *engine.SubmissionRequest) (*model.MSubmission, error) {
	m.submissionMu.Lock()
	defer m.submissionMu.Unlock()

	last, ok, err := m.repo.FindLastSubmission(ctx, job.ID)
	if err != nil {
		return nil, apperrors.Internal("manager.Submit: read last submission", err)
	}
	if ok && last.Status.IsRunning() {
		return nil, apperrors.Framework(apperrors.CodeJobRunning, apperrors.ErrConflict, "job %d has a running submission", job.ID)
	}

	now := time.Now()
	summary := &model.MSubmission{
		JobID:              job.ID,
		JobType:            job.Type,
		CreationDate:       now,
		Status:             model.StatusBooting,
		Progress:           -1,
		CallbackURL:        job.CallbackURL,
		CallbackSigningKey: job.CallbackSigningKey,
	}
	request.Summary = summary

	var accepted bool
	var submitErr error
	func() {
		// A panic inside the engine still runs the destroyer before it
		// propagates to the caller.
		defer func() {
			if r := recover(); r != nil {
				m.runDestroyer(ctx, callbacks)
				panic(r)
			}
		}()
		accepted, submitErr = m.submissionEngine.Submit(ctx, request)
	}()
	if submitErr != nil || !accepted {
		m.runDestroyer(ctx, callbacks)
		summary.Status = model.StatusFailureOnSubmit
		summary.ExternalID = ""
	}

	created, err := m.repo.CreateSubmission(ctx, *summary)
	if err != nil {
		return nil, apperrors.Internal("manager.Submit: persist submission", err)
	}

	if m.notifier != nil {
		dest := callbackDestination(created)
		builder := eventBuilderFor(job.ID)
		m.notifier.Send(builder.BuildCreated(created), dest)
		if created.Status == model.StatusFailureOnSubmit {
			m.notifier.Send(builder.BuildFailed(created), dest)
		}
	}
	if m.metrics != nil && created.Status != model.StatusFailureOnSubmit {
		m.metrics.RecordSubmissionAccepted(ctx, string(request.JobType))
	}

	return &created, nil
}

// runDestroyer invokes the connector destroyer symmetrically with the
// initializer, on any failure to accept the submission (spec §7's closed
// gap: both a false return and an error from Submit trigger cleanup).
func (m *Manager) runDestroyer(ctx context.Context, callbacks connector.Callbacks) {
	if callbacks.NewDestroyer == nil {
		return
	}
	destroyer := callbacks.NewDestroyer()
	if destroyer == nil {
		return
	}
	if err := destroyer.Run(ctx); err != nil {
		m.logger.Warn("connector destroyer failed", "error", err)
	}
}
