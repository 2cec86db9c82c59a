package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "estoquemaster"

var (
	// RequestsTotal conta requisições HTTP por rota (padrão do ServeMux), método e status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de requisições HTTP.",
		},
		[]string{"route", "method", "status"},
	)

	// RequestDuration mede a latência das requisições HTTP.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duração das requisições HTTP em segundos.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// MovementsTotal conta movimentações por tipo e resultado (accepted, rejected, failed).
	MovementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_total",
			Help:      "Movimentações de estoque processadas pelo livro.",
		},
		[]string{"type", "result"},
	)
)

// Resultados de uma movimentação.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected" // validação: não encontrado, estoque insuficiente, entrada inválida
	ResultFailed   = "failed"   // falha de armazenamento
)

// RecordMovement registra o desfecho de uma movimentação.
func RecordMovement(movementType, result string) {
	if movementType == "" {
		movementType = "unknown"
	}
	MovementsTotal.WithLabelValues(movementType, result).Inc()
}

// Handler expõe as métricas no formato Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder captura o status escrito pelo handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware instrumenta todas as requisições. A rota é o padrão casado pelo
// ServeMux (r.Pattern), o que mantém a cardinalidade baixa.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
