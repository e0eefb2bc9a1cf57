package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/slurmsweep/internal/errors"
)

// NewRegistry creates a new Prometheus registry with metrics
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	return reg, m
}

// WriteTextfile writes the gathered metrics to path in the text exposition
// format, for the node_exporter textfile collector. The file is replaced
// atomically.
func WriteTextfile(path string, reg prometheus.Gatherer) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("create directory %s", dir), err)
		}
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("write metrics file %s", path), err)
	}
	return nil
}
