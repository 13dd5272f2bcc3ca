package manager

import (
	"context"
	"time"
)

// runUpdateWorker polls every unfinished submission and refreshes its
// state (spec §4.6). It follows the teacher's maintenance-loop shape: a
// ticker plus a context whose cancellation is the sole shutdown signal,
// replacing the source's thread-interrupt-the-sleep idiom (design note
// §9).
func (m *Manager) runUpdateWorker(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.UpdateSleep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runUpdateCycle(ctx)
		}
	}
}

func (m *Manager) runUpdateCycle(ctx context.Context) {
	unfinished, err := m.repo.FindUnfinishedSubmissions(ctx)
	if err != nil {
		m.logger.Warn("update worker: failed to list unfinished submissions", "error", err)
		return
	}

	if m.metrics != nil {
		m.metrics.RecordUpdateWorkerCycle(ctx, len(unfinished))
	}

	for _, sub := range unfinished {
		if _, err := m.update(ctx, sub); err != nil {
			m.logger.Warn("update worker: failed to refresh submission", "submissionId", sub.ID, "jobId", sub.JobID, "error", err)
		}
	}
}

// runPurgeWorker periodically deletes submissions older than the
// configured retention threshold (spec §4.7).
func (m *Manager) runPurgeWorker(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.PurgeSleep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runPurgeCycle(ctx)
		}
	}
}

func (m *Manager) runPurgeCycle(ctx context.Context) {
	threshold := time.Now().Add(-m.cfg.PurgeThreshold)
	removed, err := m.repo.PurgeSubmissionsOlderThan(ctx, threshold)
	if err != nil {
		m.logger.Warn("purge worker: failed to purge submissions", "error", err)
		return
	}
	if m.metrics != nil {
		m.metrics.RecordPurgeWorkerDeletions(ctx, removed)
	}
	if removed > 0 {
		m.logger.Info("purge worker: removed submissions", "count", removed, "threshold", threshold)
	}
}
