// Package observability provides domain.MetricsRecorder implementations:
// a zero-cost no-op default and a github.com/prometheus/client_golang
// backed recorder for production deployments.
package observability

import "hklgeo/pkg/domain"

// Noop implements domain.MetricsRecorder by discarding every observation.
// Its zero value is ready to use. The solver does not require it: a nil
// recorder is accepted and simply skipped.
type Noop struct{}

// IncCounter discards name.
func (Noop) IncCounter(string) {}

// ObserveHistogram discards name and value.
func (Noop) ObserveHistogram(string, float64) {}

var _ domain.MetricsRecorder = Noop{}
