package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	castRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urna_vote_cast_requests_total",
		Help: "Total de tentativas de voto por resultado",
	}, []string{"status"})

	castDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "urna_vote_cast_duration_seconds",
		Help:    "Tempo da transacao de voto, do BEGIN ao COMMIT/ROLLBACK",
		Buckets: prometheus.DefBuckets,
	})

	otpDispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urna_otp_dispatched_total",
		Help: "Total de codigos OTP entregues pelo worker",
	}, []string{"status"})

	resultsRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urna_results_requests_total",
		Help: "Total de consultas de apuracao por tipo",
	}, []string{"kind"})
)

func ObserveCastRequest(status string) {
	castRequestsTotal.WithLabelValues(status).Inc()
}

func ObserveCastDuration(seconds float64) {
	castDuration.Observe(seconds)
}

func IncOTPDispatched(status string) {
	otpDispatchedTotal.WithLabelValues(status).Inc()
}

func IncResultsRequest(kind string) {
	resultsRequestsTotal.WithLabelValues(kind).Inc()
}
