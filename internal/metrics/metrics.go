package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks onboarding outcomes. A nil *Metrics is valid and records
// nothing, so services can be built without it in tests.
type Metrics struct {
	registry           *prometheus.Registry
	StepSubmissions    *prometheus.CounterVec
	StepSubmitDuration prometheus.Histogram
	ConfigReads        *prometheus.CounterVec
	ConfigUpdates      *prometheus.CounterVec
	UsersCreated       prometheus.Counter
}

// New registers every collector on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		StepSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboardly_step_submissions_total",
			Help: "Onboarding step submissions by step number and outcome",
		}, []string{"step", "status"}),
		StepSubmitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboardly_step_submit_duration_seconds",
			Help:    "Duration of onboarding step submissions",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ConfigReads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboardly_config_reads_total",
			Help: "Onboarding configuration reads by provenance",
		}, []string{"provenance"}),
		ConfigUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboardly_config_updates_total",
			Help: "Admin configuration updates by outcome",
		}, []string{"status"}),
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboardly_users_created_total",
			Help: "Accounts created on onboarding step 1",
		}),
	}
}

// ObserveStepSubmission records the outcome of one submission.
// Call with time.Now() taken at the start of the submission.
func (m *Metrics) ObserveStepSubmission(step int, status string, start time.Time) {
	if m == nil {
		return
	}
	m.StepSubmissions.WithLabelValues(stepLabel(step), status).Inc()
	m.StepSubmitDuration.Observe(time.Since(start).Seconds())
}

// stepLabel keeps the step label to a fixed set; the step number comes
// from the client.
func stepLabel(step int) string {
	if step < 1 || step > 3 {
		return "other"
	}
	return strconv.Itoa(step)
}

func (m *Metrics) IncrementConfigRead(provenance string) {
	if m == nil {
		return
	}
	m.ConfigReads.WithLabelValues(provenance).Inc()
}

func (m *Metrics) IncrementConfigUpdate(status string) {
	if m == nil {
		return
	}
	m.ConfigUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementUserCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
