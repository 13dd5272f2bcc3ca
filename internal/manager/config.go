package manager

import "time"

// FrameworkConnectionConfig is the framework-generic partition of every
// connection's form values (spec §3, "framework part (generic options)").
// Unlike the connector's own configuration classes, this shape is fixed
// for the whole manager and is part of the static MFramework schema built
// at Initialize time.
type FrameworkConnectionConfig struct {
	ConnectionTimeout time.Duration `form:"connectionTimeout"`
}

// FrameworkImportJobConfig is the framework-generic partition of an
// IMPORT job's form values. OutputDirectory is the field the coordinator
// copies into the submission request before delegating to the execution
// engine (spec §4.3 step 7).
type FrameworkImportJobConfig struct {
	OutputDirectory    string `form:"outputDirectory"`
	ThrottleExtractors int    `form:"throttleExtractors"`
}

// FrameworkExportJobConfig is the framework-generic partition of an
// EXPORT job's form values. The export path is declared but not
// implemented upstream (spec §9 open question); this config exists so the
// framework form schema is symmetrical.
type FrameworkExportJobConfig struct {
	InputDirectory string `form:"inputDirectory"`
}
