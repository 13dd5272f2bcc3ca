package manager

import (
	"context"
	"time"

	"submitmgr/internal/model"
)

// Status returns the latest submission for a job, refreshing it first
// unless its status is already terminal, in which case the stored row is
// returned as-is (spec §4.5). If no submission exists yet it returns a transient
// NEVER_EXECUTED record with no persistence side effects (scenario 5).
func (m *Manager) Status(ctx context.Context, jobID int64) (*model.MSubmission, error) {
	last, ok, err := m.repo.FindLastSubmission(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return model.NewTransientSubmission(jobID, time.Now()), nil
	}
	if last.Status.IsTerminal() {
		return &last, nil
	}

	updated, err := m.update(ctx, last)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// update is the single refresh primitive shared by Status, Stop, and the
// update worker (spec §4.5): it asks the submission engine for fresh
// status/progress/counters/link, persists the result, and returns it.
func (m *Manager) update(ctx context.Context, sub model.MSubmission) (model.MSubmission, error) {
	previous := sub

	status, err := m.submissionEngine.Status(ctx, sub.ExternalID)
	if err != nil {
		return sub, err
	}
	link, err := m.submissionEngine.ExternalLink(ctx, sub.ExternalID)
	if err != nil {
		return sub, err
	}

	sub.Status = status
	sub.ExternalLink = link

	if status.IsRunning() {
		progress, err := m.submissionEngine.Progress(ctx, sub.ExternalID)
		if err != nil {
			return sub, err
		}
		sub.Progress = progress
		sub.Counters = nil
	} else {
		sub.Progress = -1
		counters, err := m.submissionEngine.Stats(ctx, sub.ExternalID)
		if err != nil {
			return sub, err
		}
		sub.Counters = counters
	}

	sub.LastUpdateDate = time.Now()

	if err := m.repo.UpdateSubmission(ctx, sub); err != nil {
		return sub, err
	}

	if previous.Status != sub.Status {
		m.notifyStatusChanged(previous, sub)
	}
	if m.metrics != nil && sub.Status.IsTerminal() {
		duration := sub.LastUpdateDate.Sub(sub.CreationDate).Seconds()
		m.metrics.RecordSubmissionTerminal(ctx, string(sub.JobType), sub.Status == model.StatusSucceeded, duration)
	}
	return sub, nil
}

func (m *Manager) notifyStatusChanged(previous, current model.MSubmission) {
	if m.notifier == nil {
		return
	}
	dest := callbackDestination(current)
	builder := eventBuilderFor(current.JobID)
	m.notifier.Send(builder.BuildStatusChanged(previous, current), dest)
	if current.Status == model.StatusFailed || current.Status == model.StatusFailureOnSubmit {
		m.notifier.Send(builder.BuildFailed(current), dest)
	}
}
