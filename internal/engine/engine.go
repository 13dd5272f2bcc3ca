// Package engine defines the two pluggable backends the submission
// manager composes (spec §4.2): the SubmissionEngine, which talks to a
// remote cluster, and the ExecutionEngine, which shapes the request that
// cluster receives. Concrete engines are out of scope (spec §1 Non-goals);
// this package only defines the SPI and the name-to-factory registry used
// to resolve one at manager init time.
//
// The source this is distilled from resolves engines by fully-qualified
// class name via reflection. Per design note §9, we replace that with a
// build-time registry — RegisterSubmissionEngine/RegisterExecutionEngine —
// modeled on the job-runtime registry pattern (register by name at
// package init, look up by configured name at manager init).
package engine

import (
	"context"

	"submitmgr/internal/connector"
	"submitmgr/internal/model"
	"submitmgr/internal/resource"
)

// SubmissionRequest is the ephemeral per-attempt object the coordinator
// assembles for the execution engine and hands to the submission engine
// (spec §3, "SubmissionRequest"). It lives only for the duration of one
// submit call.
type SubmissionRequest struct {
	JobType model.JobType
	JobName string
	JobID   int64

	Summary   *model.MSubmission
	Connector connector.Connector

	ConnectorConnectionConfig any
	ConnectorJobConfig        any
	FrameworkConnectionConfig any
	FrameworkJobConfig        any

	Resources []resource.Resource

	Callbacks connector.Callbacks

	// OutputDirectory is populated only for IMPORT jobs, from the
	// framework job configuration, before prepareImportSubmission runs
	// (spec §4.3 step 7).
	OutputDirectory string
}

// AddResources appends resource declarations to the request (spec §4.3
// step 4 and the initializer-reported jars of step 6).
func (r *SubmissionRequest) AddResources(resources ...resource.Resource) {
	r.Resources = append(r.Resources, resources...)
}

// SubmissionEngine is the driver-facing contract: submit a prepared
// request, stop by external id, and poll status/progress/stats/external
// link (spec §4.2).
type SubmissionEngine interface {
	Initialize(ctx context.Context, config map[string]string) error
	Destroy(ctx context.Context) error

	// Accepts reports whether this submission engine can drive the named
	// execution engine. Checked once at manager init time (invariant I4).
	Accepts(executionEngineName string) bool

	// Submit returns true once the remote cluster has accepted the job
	// and populated request.Summary.ExternalID. A false return means a
	// locally detectable rejection (transient or permanent); an error
	// means the attempt itself failed unexpectedly. Both cases are
	// treated identically by the coordinator (spec §7's closed gap): the
	// connector destroyer runs and the summary moves to
	// FAILURE_ON_SUBMIT.
	Submit(ctx context.Context, request *SubmissionRequest) (bool, error)

	Stop(ctx context.Context, externalID string) error

	Status(ctx context.Context, externalID string) (model.SubmissionStatus, error)
	Progress(ctx context.Context, externalID string) (float64, error)
	Stats(ctx context.Context, externalID string) (model.Counters, error)
	ExternalLink(ctx context.Context, externalID string) (string, error)
}

// ExecutionEngine builds the engine-specific submission request and
// shapes its import/export half (spec §4.2).
type ExecutionEngine interface {
	Initialize(ctx context.Context, config map[string]string) error
	Destroy(ctx context.Context) error

	Name() string

	CreateSubmissionRequest() *SubmissionRequest

	// PrepareImportSubmission fills in the execution-engine-specific
	// parts of request for an IMPORT job.
	PrepareImportSubmission(ctx context.Context, request *SubmissionRequest) error

	// PrepareExportSubmission fills in the execution-engine-specific
	// parts of request for an EXPORT job. The source declares this path
	// but never implements it (spec §9 open question); implementations
	// may legitimately return an error here until a concrete engine
	// closes the gap.
	PrepareExportSubmission(ctx context.Context, request *SubmissionRequest) error
}

// SubmissionEngineBuilder constructs a SubmissionEngine on demand. Engines
// register a builder under a stable name at package init time; the
// manager looks the name up from configuration.
type SubmissionEngineBuilder func() (SubmissionEngine, error)

// ExecutionEngineBuilder constructs an ExecutionEngine on demand.
type ExecutionEngineBuilder func() (ExecutionEngine, error)

var (
	submissionEngines = make(map[string]SubmissionEngineBuilder)
	executionEngines  = make(map[string]ExecutionEngineBuilder)
)

// RegisterSubmissionEngine makes a submission engine available under name.
// Intended to be called from an init() in the package that implements it.
func RegisterSubmissionEngine(name string, builder SubmissionEngineBuilder) {
	submissionEngines[name] = builder
}

// RegisterExecutionEngine makes an execution engine available under name.
func RegisterExecutionEngine(name string, builder ExecutionEngineBuilder) {
	executionEngines[name] = builder
}

// LookupSubmissionEngine returns the builder registered under name, if any.
func LookupSubmissionEngine(name string) (SubmissionEngineBuilder, bool) {
	builder, ok := submissionEngines[name]
	return builder, ok
}

// LookupExecutionEngine returns the builder registered under name, if any.
func LookupExecutionEngine(name string) (ExecutionEngineBuilder, bool) {
	builder, ok := executionEngines[name]
	return builder, ok
}
