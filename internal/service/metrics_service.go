package service

import (
	"net/http"
	"runtime"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService собирает метрики бота в Prometheus.
// Все методы безопасны для nil-получателя: без METRICS_ADDR метрики просто не пишутся.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	gatewayDuration *prometheus.HistogramVec
	gatewayErrors   *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	bookings        *prometheus.CounterVec
	reminders       *prometheus.CounterVec
	updates         *prometheus.CounterVec
}

// NewMetricsService регистрирует коллекторы в отдельном реестре
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheets_call_duration_seconds",
		Help:    "Duration of spreadsheet API calls in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	gatewayErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sheets_call_errors_total",
		Help: "Total number of failed spreadsheet API calls",
	}, []string{"op"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_cache_hits_total",
		Help: "Total schedule cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_cache_misses_total",
		Help: "Total schedule cache misses",
	})

	bookings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_attempts_total",
		Help: "Booking attempts by outcome",
	}, []string{"outcome"})

	reminders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminders_total",
		Help: "Reminder deliveries by result",
	}, []string{"result"})

	updates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telegram_updates_total",
		Help: "Telegram updates by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(gatewayDuration, gatewayErrors, cacheHits, cacheMisses, bookings, reminders, updates, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		gatewayDuration: gatewayDuration,
		gatewayErrors:   gatewayErrors,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		bookings:        bookings,
		reminders:       reminders,
		updates:         updates,
	}
}

// Handler отдаёт HTTP-обработчик /metrics
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveGatewayCall записывает длительность обращения к таблице
func (m *MetricsService) ObserveGatewayCall(op string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.gatewayDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		m.gatewayErrors.WithLabelValues(op).Inc()
	}
}

func (m *MetricsService) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

func (m *MetricsService) ObserveBooking(outcome model.BookingOutcome) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(string(outcome)).Inc()
}

func (m *MetricsService) ObserveReminder(result string) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(result).Inc()
}

// ObserveUpdate считает входящие обновления (handled, rate_limited)
func (m *MetricsService) ObserveUpdate(result string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(result).Inc()
}
