package engine

import (
	"testing"

	"submitmgr/internal/resource"
)

func TestRegisterAndLookupSubmissionEngine(t *testing.T) {
	RegisterSubmissionEngine("engine-test-submission", func() (SubmissionEngine, error) {
		return nil, nil
	})
	builder, ok := LookupSubmissionEngine("engine-test-submission")
	if !ok {
		t.Fatal("expected builder to be registered")
	}
	if builder == nil {
		t.Fatal("expected non-nil builder")
	}
}

func TestLookupSubmissionEngineMissing(t *testing.T) {
	_, ok := LookupSubmissionEngine("does-not-exist")
	if ok {
		t.Error("expected ok=false for an unregistered name")
	}
}

func TestRegisterAndLookupExecutionEngine(t *testing.T) {
	RegisterExecutionEngine("engine-test-execution", func() (ExecutionEngine, error) {
		return nil, nil
	})
	builder, ok := LookupExecutionEngine("engine-test-execution")
	if !ok {
		t.Fatal("expected builder to be registered")
	}
	if builder == nil {
		t.Fatal("expected non-nil builder")
	}
}

func TestAddResourcesAppends(t *testing.T) {
	req := &SubmissionRequest{}
	req.AddResources()
	if len(req.Resources) != 0 {
		t.Fatalf("expected no resources, got %d", len(req.Resources))
	}

	req.AddResources(resource.NewClassResource("a", "pkg.A"))
	req.AddResources(resource.NewClassResource("b", "pkg.B"), resource.NewClassResource("c", "pkg.C"))
	if len(req.Resources) != 3 {
		t.Fatalf("expected 3 resources, got %d", len(req.Resources))
	}
	if req.Resources[0].ResourceID() != "a" || req.Resources[2].ResourceID() != "c" {
		t.Errorf("resources appended out of order: %q, %q", req.Resources[0].ResourceID(), req.Resources[2].ResourceID())
	}
}
