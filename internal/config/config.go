// Package config provides configuration loading from environment variables.
package config

import (
	"time"
)

// ManagerConfig holds configuration for the submission manager.
//
// Field names mirror the dotted configuration keys of the system this
// package distills: SubmissionEngine/ExecutionEngine select plug-ins by
// name from the build-time registry (see internal/engine), and the three
// duration fields carry the same defaults as the source (24h/24h/5m).
type ManagerConfig struct {
	SubmissionEngine string        // org.apache...submission_engine equivalent: registered plug-in name
	ExecutionEngine  string        // org.apache...execution_engine equivalent: registered plug-in name
	PurgeThreshold   time.Duration // submission.purge.threshold_ms
	PurgeSleep       time.Duration // submission.purge.sleep_ms
	UpdateSleep      time.Duration // submission.update.sleep_ms
}

// ServiceConfig holds configuration for the demo submission-manager service.
type ServiceConfig struct {
	MetricsPort       string
	ShutdownDrainWait time.Duration // Time to wait for load balancer to drain (0 to skip)
	Manager           ManagerConfig
}

// LoadManagerConfig loads manager configuration from environment variables,
// applying the same defaults as the source: 24h purge threshold, 24h purge
// sleep, 5m update sleep.
func LoadManagerConfig() ManagerConfig {
	return ManagerConfig{
		SubmissionEngine: GetEnv("SUBMISSION_ENGINE", ""),
		ExecutionEngine:  GetEnv("EXECUTION_ENGINE", ""),
		PurgeThreshold:   GetDurationEnv("SUBMISSION_PURGE_THRESHOLD", 24*time.Hour),
		PurgeSleep:       GetDurationEnv("SUBMISSION_PURGE_SLEEP", 24*time.Hour),
		UpdateSleep:      GetDurationEnv("SUBMISSION_UPDATE_SLEEP", 5*time.Minute),
	}
}

// LoadServiceConfig loads service configuration from environment variables.
func LoadServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MetricsPort:       GetEnv("METRICS_PORT", "9090"),
		ShutdownDrainWait: GetDurationEnv("SHUTDOWN_DRAIN_WAIT", 5*time.Second),
		Manager:           LoadManagerConfig(),
	}
}
