package health

import (
	"testing"
	"time"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("Status.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResultConstructors(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		status Status
		msg    string
	}{
		{"healthy", Healthy("sbatch is available"), StatusHealthy, "sbatch is available"},
		{"degraded", Degraded("no sbatch config file"), StatusDegraded, "no sbatch config file"},
		{"unhealthy", Unhealthy("sbatch not found"), StatusUnhealthy, "sbatch not found"},
		{"new result", NewResult(StatusHealthy, "ok"), StatusHealthy, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.Status != tt.status {
				t.Errorf("Status = %v, want %v", tt.result.Status, tt.status)
			}
			if tt.result.Message != tt.msg {
				t.Errorf("Message = %q, want %q", tt.result.Message, tt.msg)
			}
			if tt.result.Details == nil {
				t.Error("Details should be initialized")
			}
		})
	}
}

func TestFluentAPI(t *testing.T) {
	result := Healthy("test")

	returned := result.
		WithDetail("path", "/usr/bin/sbatch").
		WithDetail("version", "slurm 23.02.6").
		WithLatency(50 * time.Millisecond)

	if returned != result {
		t.Error("WithDetail and WithLatency should return the same result for chaining")
	}
	if result.Latency != 50*time.Millisecond {
		t.Errorf("Latency = %v, want %v", result.Latency, 50*time.Millisecond)
	}
	if result.Details["path"] != "/usr/bin/sbatch" {
		t.Errorf("Details[path] = %q", result.Details["path"])
	}
	if result.Details["version"] != "slurm 23.02.6" {
		t.Errorf("Details[version] = %q", result.Details["version"])
	}
}
