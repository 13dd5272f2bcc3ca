// Package connector defines the SPI a pluggable data-source/sink driver
// implements: its configuration shapes and its per-job initializer and
// destroyer callbacks (spec §6, "Connector registry interface consumed").
// The registry itself is an external collaborator (out of scope per
// spec §1); this package only defines the shapes it hands back.
package connector

import (
	"context"

	"submitmgr/internal/model"
	"submitmgr/internal/resource"
)

// Initializer runs connector-side setup before a submission is handed to
// the submission engine, and reports any additional resources the remote
// execution environment needs (spec §6, "Initializer contract").
type Initializer interface {
	Initialize(ctx context.Context, connectionConfig, jobConfig any) error
	GetJars(ctx context.Context) ([]resource.Resource, error)
}

// Destroyer runs connector-side cleanup for a job the submission engine
// did not accept: the submission manager invokes it whenever submit fails
// to accept the job, whether by returning false, by erroring, or by
// panicking. It is not run after an accepted submission completes.
type Destroyer interface {
	Run(ctx context.Context) error
}

// Callbacks bundles the initializer/destroyer pair for one direction
// (import or export) of a connector (spec §6, "Callback contract").
type Callbacks struct {
	NewInitializer func() Initializer
	NewDestroyer   func() Destroyer
}

// Connector is what the connector registry hands back for a connector id:
// its configuration shapes (as zero-value templates for formutil.Decode)
// and its importer/exporter callback sets.
type Connector struct {
	ID                int64
	Name              string
	ConnectionConfig  func() any
	JobConfig         func(jobType model.JobType) any
	ImporterCallbacks Callbacks
	ExporterCallbacks Callbacks
}

// CallbacksFor selects the importer or exporter callback set for a job
// type. An unsupported job type is a caller error (FRAMEWORK_0005 in the
// submission manager); this function just reports whether it found one.
func (c Connector) CallbacksFor(jobType model.JobType) (Callbacks, bool) {
	switch jobType {
	case model.JobTypeImport:
		return c.ImporterCallbacks, true
	case model.JobTypeExport:
		return c.ExporterCallbacks, true
	default:
		return Callbacks{}, false
	}
}

// Registry resolves connectors by id. It is an external collaborator
// (spec §1); the submission manager only ever reads from it.
type Registry interface {
	GetConnector(ctx context.Context, connectorID int64) (Connector, error)
}
