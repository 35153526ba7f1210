package framework

import (
	"github.com/prometheus/client_golang/prometheus"
)

// NewResultsRegistry returns a Prometheus registry describing the results of a run, so that a CI
// job can publish them through the node_exporter textfile collector.
func NewResultsRegistry(results Results) *prometheus.Registry {
	registry := prometheus.NewRegistry()

	tests := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crm_contract_tests",
			Help: "Number of contract tests by outcome in the last run",
		},
		[]string{"outcome"},
	)
	progress := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_contract_implementation_progress_percent",
			Help: "Percentage of contract tests that were not skipped as not implemented",
		},
	)
	registry.MustRegister(tests, progress)

	tests.WithLabelValues("passed").Set(float64(results.Passed()))
	tests.WithLabelValues("failed").Set(float64(len(results.Failures)))
	tests.WithLabelValues("error").Set(float64(len(results.Errors)))
	tests.WithLabelValues("skipped").Set(float64(len(results.Skipped)))
	if p, ok := results.ImplementationProgress(); ok {
		progress.Set(p)
	}
	return registry
}

// WriteResultsMetrics writes the results of a run to filename in the Prometheus text format.
func WriteResultsMetrics(filename string, results Results) error {
	return prometheus.WriteToTextfile(filename, NewResultsRegistry(results))
}
