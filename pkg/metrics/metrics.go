package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	AccountsRegistered     prometheus.Counter
	AppointmentsBooked     prometheus.Counter
	AppointmentTransitions *prometheus.CounterVec
	PaymentsMarked         prometheus.Counter
	PractitionerOps        *prometheus.CounterVec

	CacheLookups *prometheus.CounterVec
	MediaUploads *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewCollector registers every metric on a dedicated registry so that
// several collectors can coexist in one process (tests).
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Collector{
		registry: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		AccountsRegistered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "accounts_registered_total",
			Help:      "Total number of patient accounts registered.",
		}),

		AppointmentsBooked: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "appointments_booked_total",
			Help:      "Total appointments booked.",
		}),

		AppointmentTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "appointment_transitions_total",
			Help:      "Appointment status transitions by target status and acting role.",
		}, []string{"status", "role"}),

		PaymentsMarked: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinic",
			Name:      "payments_marked_total",
			Help:      "Appointments marked as paid.",
		}),

		PractitionerOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "directory",
			Name:      "practitioner_operations_total",
			Help:      "Practitioner directory writes by operation.",
		}, []string{"operation"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Practitioner list cache lookups by result (hit, miss, error).",
		}, []string{"result"}),

		MediaUploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Image uploads by outcome.",
		}, []string{"outcome"}),
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
