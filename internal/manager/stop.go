package manager

import (
	"context"

	"submitmgr/internal/apperrors"
	"submitmgr/internal/model"
)

// Stop cancels the running submission for a job, if any (spec §4.4). It
// runs update immediately afterward so the returned record reflects the
// post-stop state; stop is advisory, so the submission may still be
// running when this returns.
func (m *Manager) Stop(ctx context.Context, jobID int64) (*model.MSubmission, error) {
	last, ok, err := m.repo.FindLastSubmission(ctx, jobID)
	if err != nil {
		return nil, apperrors.Internal("manager.Stop: read last submission", err)
	}
	if !ok || !last.Status.IsRunning() {
		return nil, apperrors.Framework(apperrors.CodeStopNotRunning, apperrors.ErrConflict, "job %d has no running submission to stop", jobID)
	}

	if err := m.submissionEngine.Stop(ctx, last.ExternalID); err != nil {
		return nil, apperrors.Internal("manager.Stop: engine stop", err)
	}

	updated, err := m.update(ctx, last)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
