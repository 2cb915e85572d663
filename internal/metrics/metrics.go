// Package metrics provides Prometheus metrics for dpmigrate.
//
// A migration is a short lived process, so nothing is scraped: the registry
// is written to a node_exporter textfile at the end of a run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Registry is the global Prometheus registry for all metrics.
	Registry = prometheus.NewRegistry()

	// initialized tracks whether metrics have been initialized.
	initialized = false
)

// Init registers all collectors with Registry.
// This should be called once during application startup.
func Init() error {
	if initialized {
		return nil
	}

	if err := registerMigrationMetrics(); err != nil {
		return err
	}

	if err := registerHTTPMetrics(); err != nil {
		return err
	}

	initialized = true
	return nil
}

// MustInit initializes metrics and panics on error.
func MustInit() {
	if err := Init(); err != nil {
		panic("failed to initialize metrics: " + err.Error())
	}
}

// WriteTextfile writes the registry in the text exposition format to path,
// replacing the file atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func register(collectors ...prometheus.Collector) error {
	for _, c := range collectors {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
