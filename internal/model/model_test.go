package model

import (
	"testing"
	"time"
)

func TestSubmissionStatusIsRunning(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status SubmissionStatus
		want   bool
	}{
		{StatusNeverExecuted, false},
		{StatusBooting, true},
		{StatusRunning, true},
		{StatusSucceeded, false},
		{StatusFailed, false},
		{StatusFailureOnSubmit, false},
		{StatusUnknown, false},
	}
	for _, tt := range tests {
		if got := tt.status.IsRunning(); got != tt.want {
			t.Errorf("%s.IsRunning() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestSubmissionStatusIsTerminal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		status SubmissionStatus
		want   bool
	}{
		{StatusBooting, false},
		{StatusRunning, false},
		{StatusUnknown, false},
		{StatusSucceeded, true},
		{StatusFailed, true},
		{StatusFailureOnSubmit, true},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestNewTransientSubmission(t *testing.T) {
	t.Parallel()
	now := time.Now()
	sub := NewTransientSubmission(42, now)

	if sub.Status != StatusNeverExecuted {
		t.Errorf("expected status NEVER_EXECUTED, got %s", sub.Status)
	}
	if sub.Progress != -1 {
		t.Errorf("expected progress -1, got %f", sub.Progress)
	}
	if sub.JobID != 42 {
		t.Errorf("expected job id 42, got %d", sub.JobID)
	}
	if sub.ID != 0 {
		t.Error("transient submission must not carry a persisted id")
	}
}

func TestFrameworkRegistered(t *testing.T) {
	t.Parallel()
	f := MFramework{}
	if f.Registered() {
		t.Error("zero-value framework must not be registered")
	}
	f.RegisteredID = 7
	if !f.Registered() {
		t.Error("framework with a registered id must report Registered()")
	}
}
