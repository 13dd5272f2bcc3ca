// Package model defines the persisted and in-flight data types of the
// submission manager: jobs, connections, framework metadata, and
// submissions. These are owned by the repository (see internal/repository);
// this package only defines their shape.
package model

import "time"

// JobType identifies whether a job moves data into or out of the cluster.
type JobType string

const (
	JobTypeImport JobType = "IMPORT"
	JobTypeExport JobType = "EXPORT"
)

// FormValues holds a flat set of user-supplied configuration values for one
// partition (framework or connector) of a connection or job form set. Keys
// match the field names the generic form/configuration materializer (see
// internal/formutil) decodes into a concrete Go struct.
type FormValues map[string]string

// Forms holds the two partitions every connection or job carries: the
// framework-generic part and the connector-specific part.
type Forms struct {
	FrameworkPart FormValues
	ConnectorPart FormValues
}

// Connection is a named, user-supplied connection definition. Connections
// are owned by the repository; jobs reference one by id.
type Connection struct {
	ID          int64
	Name        string
	ConnectorID int64
	Forms       Forms
}

// Job is a named, user-supplied job definition.
type Job struct {
	ID           int64
	Name         string
	Type         JobType
	ConnectorID  int64
	ConnectionID int64
	Forms        Forms

	// CallbackURL, if set, is where the job's submission lifecycle
	// events (created/status-changed/failed) are delivered. Empty means
	// the job declared no callback and notification is a no-op for it.
	CallbackURL string
	// CallbackSigningKey HMAC-signs deliveries to CallbackURL when set.
	CallbackSigningKey string
}

// MFramework is the static schema describing the connection form set and
// the per-job-type job form sets. It is registered with the repository
// exactly once per process lifetime (invariant I3); RegisteredID is zero
// until that happens.
type MFramework struct {
	RegisteredID       int64
	ConnectionFormSpec []string // field descriptor names; see internal/formutil
	JobFormSpec        map[JobType][]string
}

// Registered reports whether this framework metadata has been persisted.
func (f MFramework) Registered() bool {
	return f.RegisteredID != 0
}

// SubmissionStatus is the lifecycle state of a single submission attempt.
// Transitions are dictated entirely by what the submission engine reports,
// with one local edge: a submit call that fails moves straight to
// FAILURE_ON_SUBMIT without ever consulting the engine.
type SubmissionStatus string

const (
	StatusNeverExecuted   SubmissionStatus = "NEVER_EXECUTED" // transient only, never persisted
	StatusBooting         SubmissionStatus = "BOOTING"
	StatusRunning         SubmissionStatus = "RUNNING"
	StatusSucceeded       SubmissionStatus = "SUCCEEDED"
	StatusFailed          SubmissionStatus = "FAILED"
	StatusFailureOnSubmit SubmissionStatus = "FAILURE_ON_SUBMIT"
	StatusUnknown         SubmissionStatus = "UNKNOWN"
)

// IsRunning partitions the status enum for the purpose of progress
// reporting (§4.5) and worker scope (P5): only RUNNING and BOOTING are
// considered actively in flight.
func (s SubmissionStatus) IsRunning() bool {
	switch s {
	case StatusRunning, StatusBooting:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further polling is useful for a submission
// in this status. The update worker only polls non-terminal submissions.
func (s SubmissionStatus) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusFailureOnSubmit:
		return true
	default:
		return false
	}
}

// Counters holds job-specific progress/result counters reported once a
// submission is no longer running. Nil while the submission is running.
type Counters map[string]int64

// MSubmission is the runtime record of one attempt to run a job.
//
// JobType, CallbackURL, and CallbackSigningKey are denormalized from the
// owning Job at creation time (spec §4.3 step 8d) so that the update
// worker and the shared update primitive (§4.5) can record per-job-type
// metrics and route notification deliveries without an extra repository
// fetch on every poll cycle.
type MSubmission struct {
	ID             int64
	JobID          int64
	JobType        JobType
	CreationDate   time.Time
	LastUpdateDate time.Time
	Status         SubmissionStatus
	Progress       float64 // [0,1], or -1 when unknown/not running
	Counters       Counters
	ExternalLink   string
	ExternalID     string

	CallbackURL        string
	CallbackSigningKey string
}

// NewTransientSubmission builds the non-persisted NEVER_EXECUTED record
// status(jobId) returns when no submission exists for the job yet.
func NewTransientSubmission(jobID int64, now time.Time) *MSubmission {
	return &MSubmission{
		JobID:        jobID,
		CreationDate: now,
		Status:       StatusNeverExecuted,
		Progress:     -1,
	}
}
