package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Транспорты, через которые выполняется расчет
const (
	TransportHTTP      = "http"
	TransportGRPC      = "grpc"
	TransportWebSocket = "websocket"
	TransportCLI       = "cli"
)

// Metrics содержит метрики сервиса на собственном реестре
type Metrics struct {
	registry *prometheus.Registry

	calculations     *prometheus.CounterVec
	validationErrors *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	liveClients      prometheus.Gauge
}

// New создает и регистрирует метрики
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vto_calculations_total",
			Help: "Number of VTO calculations by transport and outcome.",
		}, []string{"transport", "outcome"}),
		validationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vto_validation_errors_total",
			Help: "Number of rejected calculations by error code.",
		}, []string{"code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vto_calculation_duration_seconds",
			Help:    "Time spent in the calculation engine.",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}, []string{"transport"}),
		liveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vto_live_clients",
			Help: "Connected live recalculation clients.",
		}),
	}

	reg.MustRegister(
		m.calculations,
		m.validationErrors,
		m.duration,
		m.liveClients,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveCalculation учитывает один расчет. code - код ошибки валидации или пустая строка.
func (m *Metrics) ObserveCalculation(transport string, elapsed time.Duration, code string) {
	if m == nil {
		return
	}

	outcome := "ok"
	if code != "" {
		outcome = "rejected"
		m.validationErrors.WithLabelValues(code).Inc()
	}
	m.calculations.WithLabelValues(transport, outcome).Inc()
	m.duration.WithLabelValues(transport).Observe(elapsed.Seconds())
}

// ClientConnected и ClientDisconnected ведут счетчик live клиентов
func (m *Metrics) ClientConnected() {
	if m != nil {
		m.liveClients.Inc()
	}
}

func (m *Metrics) ClientDisconnected() {
	if m != nil {
		m.liveClients.Dec()
	}
}

// LiveClients возвращает gauge подключенных клиентов
func (m *Metrics) LiveClients() prometheus.Gauge {
	return m.liveClients
}

// Handler возвращает HTTP обработчик /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает реестр (используется в тестах)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
