// Package metrics expone los contadores del flujo de registro en formato Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/garansi-api/internal/application/registration"
	"github.com/jhoicas/garansi-api/internal/domain"
)

const namespace = "garansi"

var _ registration.Metrics = (*RegistrationMetrics)(nil)

// RegistrationMetrics implementa registration.Metrics.
type RegistrationMetrics struct {
	limitRejections *prometheus.CounterVec
	numbersReserved prometheus.Counter
	attemptFailures *prometheus.CounterVec
	creations       *prometheus.CounterVec
}

// NewRegistrationMetrics registra los colectores en r.
func NewRegistrationMetrics(r prometheus.Registerer) *RegistrationMetrics {
	f := promauto.With(r)
	return &RegistrationMetrics{
		limitRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration",
			Name:      "limit_rejections_total",
			Help:      "Creaciones rechazadas por tope de capacidad",
		}, []string{"scope"}),
		numbersReserved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration",
			Name:      "participant_numbers_reserved_total",
			Help:      "nomor_kepesertaan reservados, incluidos los quemados",
		}),
		attemptFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration",
			Name:      "attempt_failures_total",
			Help:      "Intentos fallidos por contención que se reintentan",
		}, []string{"kind", "reason"}),
		creations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration",
			Name:      "creations_total",
			Help:      "Resultado final de cada creación",
		}, []string{"kind", "outcome"}),
	}
}

func (m *RegistrationMetrics) LimitRejected(scope domain.LimitScope) {
	m.limitRejections.WithLabelValues(string(scope)).Inc()
}

func (m *RegistrationMetrics) NumberReserved() {
	m.numbersReserved.Inc()
}

func (m *RegistrationMetrics) AttemptFailed(kind, reason string) {
	m.attemptFailures.WithLabelValues(kind, reason).Inc()
}

func (m *RegistrationMetrics) CreationCompleted(kind, outcome string) {
	m.creations.WithLabelValues(kind, outcome).Inc()
}
