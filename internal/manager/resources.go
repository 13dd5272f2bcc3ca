package manager

import (
	"reflect"

	"submitmgr/internal/connector"
	"submitmgr/internal/engine"
	"submitmgr/internal/resource"
)

// declareResources registers the classpath resources the remote execution
// environment must have available: common utilities, this manager, the
// connector SPI, the execution engine, the connector, and the JSON
// codec this manager uses for its own wire data (spec §4.3 step 4).
func declareResources(executionEngine engine.ExecutionEngine, conn connector.Connector) []resource.Resource {
	classOf := func(v any) string {
		t := reflect.TypeOf(v)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		return t.PkgPath() + "." + t.Name()
	}

	return []resource.Resource{
		resource.NewClassResource("common-utils", classOf(commonUtilsMarker{})),
		resource.NewClassResource("manager", classOf(Manager{})),
		resource.NewClassResource("connector-spi", classOf((*connector.Initializer)(nil))),
		resource.NewClassResource("execution-engine", classOf(executionEngine)),
		resource.NewClassResource("connector", classOf(conn)),
		resource.NewClassResource("json-codec", classOf(jsonCodecMarker{})),
	}
}

// commonUtilsMarker and jsonCodecMarker stand in for the shared utility
// and JSON-codec packages a real deployment would declare a jar for; they
// carry no behavior of their own.
type commonUtilsMarker struct{}
type jsonCodecMarker struct{}
