package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels for rejection metrics.
const (
	OperationSignup     = "signup"
	OperationUnregister = "unregister"
)

var (
	registrationsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "directory",
		Name:      "registrations_total",
		Help:      "Number of participants signed up, labeled by activity.",
	}, []string{"activity"})

	unregistrationsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "directory",
		Name:      "unregistrations_total",
		Help:      "Number of participants removed, labeled by activity.",
	}, []string{"activity"})

	rejectionsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "directory",
		Name:      "rejections_total",
		Help:      "Number of signup or unregister requests refused, labeled by operation and reason.",
	}, []string{"operation", "reason"})

	participantsGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "signup_service",
		Subsystem: "directory",
		Name:      "participants",
		Help:      "Current roster size per activity.",
	}, []string{"activity"})
)

func init() {
	prometheus.MustRegister(registrationsCounter, unregistrationsCounter, rejectionsCounter, participantsGauge)
}

// RecordRegistration counts a signup and updates the roster gauge.
func RecordRegistration(activity string, rosterSize int) {
	registrationsCounter.WithLabelValues(activity).Inc()
	participantsGauge.WithLabelValues(activity).Set(float64(rosterSize))
}

// RecordUnregistration counts a removal and updates the roster gauge.
func RecordUnregistration(activity string, rosterSize int) {
	unregistrationsCounter.WithLabelValues(activity).Inc()
	participantsGauge.WithLabelValues(activity).Set(float64(rosterSize))
}

// RecordRejection counts a refused request.
func RecordRejection(operation, reason string) {
	rejectionsCounter.WithLabelValues(operation, reason).Inc()
}

// RecordRosterSize sets the roster gauge without touching the counters.
func RecordRosterSize(activity string, rosterSize int) {
	participantsGauge.WithLabelValues(activity).Set(float64(rosterSize))
}
