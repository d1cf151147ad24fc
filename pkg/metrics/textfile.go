package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes everything g gathers to path in the Prometheus text
// exposition format, for pickup by node_exporter's textfile collector.
// The file is replaced atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return fmt.Errorf("metrics: empty textfile path")
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}
