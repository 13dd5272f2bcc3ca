// Package notify builds and dispatches CloudEvents for submission
// lifecycle transitions. This is an addition beyond the original spec
// (SPEC_FULL.md §4.8): the submission manager's own lifecycle — submit,
// status transition, terminal failure — becomes an observable event
// stream, the same way the teacher's job package turns container
// lifecycle moments into events it hands to a dispatcher.
package notify

import (
	"fmt"
	"time"

	"submitmgr/internal/model"
	"submitmgr/pkg/cloudevent"
)

// Event types for submission lifecycle notifications.
const (
	EventTypeCreated       = "submission.created"
	EventTypeStatusChanged = "submission.status-changed"
	EventTypeFailed        = "submission.failed"
)

// EventBuilder builds CloudEvents for one job's submission lifecycle.
type EventBuilder struct {
	source string
	jobID  int64
}

// NewEventBuilder creates an EventBuilder for jobID, tagging every event
// it builds with source as the CloudEvents source field.
func NewEventBuilder(jobID int64, source string) *EventBuilder {
	return &EventBuilder{source: source, jobID: jobID}
}

func (b *EventBuilder) build(eventType string, data map[string]any) *cloudevent.CloudEvent {
	subject := fmt.Sprintf("job-%d", b.jobID)
	eventID := fmt.Sprintf("%s-%d", subject, time.Now().UnixNano())
	return cloudevent.New(eventType, b.source, subject, eventID, data)
}

// BuildCreated creates an event for a newly persisted submission row
// (spec §4.3 step 8d, whether accepted or FAILURE_ON_SUBMIT).
func (b *EventBuilder) BuildCreated(sub model.MSubmission) *cloudevent.CloudEvent {
	return b.build(EventTypeCreated, map[string]any{
		"jobId":        sub.JobID,
		"submissionId": sub.ID,
		"status":       string(sub.Status),
		"externalId":   sub.ExternalID,
	})
}

// BuildStatusChanged creates an event for an update cycle (spec §4.5)
// that moved a submission from one status to another.
func (b *EventBuilder) BuildStatusChanged(previous, current model.MSubmission) *cloudevent.CloudEvent {
	return b.build(EventTypeStatusChanged, map[string]any{
		"jobId":          current.JobID,
		"submissionId":   current.ID,
		"previousStatus": string(previous.Status),
		"status":         string(current.Status),
		"progress":       current.Progress,
	})
}

// BuildFailed creates an event for a submission that has reached a
// terminal failure status (FAILED or FAILURE_ON_SUBMIT).
func (b *EventBuilder) BuildFailed(sub model.MSubmission) *cloudevent.CloudEvent {
	return b.build(EventTypeFailed, map[string]any{
		"jobId":        sub.JobID,
		"submissionId": sub.ID,
		"status":       string(sub.Status),
	})
}
