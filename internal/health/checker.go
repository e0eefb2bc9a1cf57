// Package health checks that the environment can run a sweep: sbatch is
// reachable, the state directory is writable and the directives file parses.
//
//	manager := health.NewManager()
//	manager.AddChecker(health.NewSbatchChecker("sbatch"))
//	manager.AddChecker(health.NewStateDirChecker(".slurmsweep"))
//
//	for _, r := range manager.Check(ctx) {
//	    logger.Info("health check", "name", r.Name, "status", r.Status)
//	}
package health

import (
	"context"
	"time"
)

// Checker verifies one dependency of slurmsweep.
type Checker interface {
	// Name returns the unique name of this health check,
	// lowercase with hyphens (e.g. "sbatch-binary").
	Name() string

	// Check performs the health check. It must respect the context deadline.
	Check(ctx context.Context) *Result
}

// Status represents the health check status.
type Status string

const (
	// StatusHealthy indicates the checked component is fully operational.
	StatusHealthy Status = "healthy"

	// StatusDegraded indicates a sweep can still be prepared, but something
	// is missing or unusual.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy indicates a sweep cannot be submitted.
	StatusUnhealthy Status = "unhealthy"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Result represents the result of a health check.
type Result struct {
	Name    string            `json:"name" yaml:"name"`
	Status  Status            `json:"status" yaml:"status"`
	Message string            `json:"message" yaml:"message"`
	Details map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration     `json:"latency_ns" yaml:"latency_ns"`
}

// NewResult creates a new health check result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]string),
	}
}

// WithDetail adds a detail to the result and returns the result for chaining.
func (r *Result) WithDetail(key, value string) *Result {
	r.Details[key] = value
	return r
}

// WithLatency sets the latency and returns the result for chaining.
func (r *Result) WithLatency(latency time.Duration) *Result {
	r.Latency = latency
	return r
}

// Healthy creates a healthy result with the given message.
func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

// Degraded creates a degraded result with the given message.
func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

// Unhealthy creates an unhealthy result with the given message.
func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
