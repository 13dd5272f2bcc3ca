// Package resource models the jar/resource identifiers a submission
// declares the remote execution environment must ship (spec §3,
// SubmissionRequest). The shape — a small polymorphic, JSON-discriminated
// list with per-kind validation — follows the teacher's artifact package
// (internal/artifact in the source repo this was adapted from), retargeted
// from "files moved in/out of a job container" to "resources placed on the
// execution engine's classpath".
package resource

// Resource is the interface every declared remote resource implements.
type Resource interface {
	ResourceID() string
	ResourceType() string
}

// ClassResource is a classpath entry derived from a Go type — the
// equivalent of the source's `request.addJarForClass(SomeType.class)`
// calls in step 4 of the submit operation. ClassName is typically produced
// via reflect.TypeOf(x).PkgPath()+"."+reflect.TypeOf(x).Name() by the
// caller; this package does not reflect itself.
type ClassResource struct {
	ID        string `json:"id"`
	ClassName string `json:"className"`
}

func (c *ClassResource) ResourceID() string   { return c.ID }
func (c *ClassResource) ResourceType() string { return "class" }

// ArchiveResource is a connector-supplied bundle of supporting files
// (returned from Initializer.GetJars in the connector-resource sense).
type ArchiveResource struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

func (a *ArchiveResource) ResourceID() string   { return a.ID }
func (a *ArchiveResource) ResourceType() string { return "archive" }

// FileResource is a single loose support file (a config file, a native
// library) that must accompany the submission.
type FileResource struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

func (f *FileResource) ResourceID() string   { return f.ID }
func (f *FileResource) ResourceType() string { return "file" }

// NewClassResource builds a ClassResource for the given Go type name. The
// manager calls this once per class it must declare (common utilities,
// itself, the connector SPI, the execution engine, the connector, the JSON
// codec — see manager.declareResources).
func NewClassResource(id, className string) *ClassResource {
	return &ClassResource{ID: id, ClassName: className}
}
