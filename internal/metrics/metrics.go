// Package metrics владеет всеми Prometheus-инструментами сервиса и их реестром.
// Реестр создаётся явно и передаётся в HTTP-слой через внедрение зависимостей:
// глобальный prometheus.DefaultRegisterer в проекте не используется.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метки HTTP-метрик запросов.
var requestLabels = []string{"method", "status", "path"}

// Metrics содержит все зарегистрированные инструменты сервиса.
// Создаётся один раз при старте и живёт весь срок работы процесса.
type Metrics struct {
	// RequestsTotal считает завершённые HTTP-запросы, ровно один инкремент на запрос.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration хранит распределение длительности запросов в секундах.
	RequestDuration *prometheus.HistogramVec

	// RequestsInProgress показывает число запросов, обрабатываемых в данный момент.
	// При простое сервиса значение возвращается к нулю.
	RequestsInProgress prometheus.Gauge

	// ProcessCPUUsage хранит последний снятый load average за 1 минуту.
	ProcessCPUUsage prometheus.Gauge

	// MemoryUsedBytes хранит последний снятый объём занятой памяти хоста (total - free).
	MemoryUsedBytes prometheus.Gauge

	// ThreadsLive хранит последнее снятое число логических ядер.
	ThreadsLive prometheus.Gauge

	registry *prometheus.Registry
}

// New создаёт реестр, все инструменты и регистрирует их.
// Дублирующаяся регистрация — ошибка программирования: MustRegister паникует,
// и процесс не стартует в некорректной конфигурации.
func New() *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_request_total",
				Help: "Total HTTP Requests",
			},
			requestLabels,
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP Request Duration",
				Buckets: prometheus.DefBuckets,
			},
			requestLabels,
		),
		RequestsInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "Number of HTTP requests in progress",
		}),
		ProcessCPUUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "process_cpu_usage",
			Help: "The recent cpu usage for the process",
		}),
		MemoryUsedBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memory_used_bytes",
			Help: "The amount of used memory",
		}),
		ThreadsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "threads_live",
			Help: "The current number of live threads",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInProgress,
		m.ProcessCPUUsage,
		m.MemoryUsedBytes,
		m.ThreadsLive,
	)

	return m
}

// Registry возвращает Gatherer реестра. Сбор значений не сбрасывает
// и не изменяет состояние инструментов.
func (m *Metrics) Registry() prometheus.Gatherer {
	return m.registry
}

// Handler возвращает HTTP-обработчик, кодирующий текущее состояние всех
// инструментов в текстовый exposition-формат Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
