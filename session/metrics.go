package session

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the session's Prometheus collectors.
type Metrics struct {
	CommandsTotal      *prometheus.CounterVec
	ViewsActive        prometheus.Gauge
	ViewsCreated       prometheus.Counter
	PaintsTotal        prometheus.Counter
	PaintDuration      prometheus.Histogram
	PaintsSkipped      prometheus.Counter
	InputDropped       *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
}

// NewMetrics builds the session collectors and registers them with reg. A
// nil registerer yields working but unregistered collectors, which keeps
// tests free of global registry collisions.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webpane_commands_total",
				Help: "Total number of session commands dispatched",
			},
			[]string{"command"},
		),
		ViewsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "webpane_views_active",
				Help: "Number of live views",
			},
		),
		ViewsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "webpane_views_created_total",
				Help: "Total number of views created",
			},
		),
		PaintsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "webpane_paints_total",
				Help: "Total number of successful view paints",
			},
		),
		PaintDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "webpane_paint_duration_seconds",
				Help:    "View paint duration in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		PaintsSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "webpane_paints_skipped_total",
				Help: "Total number of paints skipped while a view was loading",
			},
		),
		InputDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webpane_input_dropped_total",
				Help: "Total number of host input events with no native mapping",
			},
			[]string{"kind"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webpane_notifications_total",
				Help: "Total number of host notifications emitted",
			},
			[]string{"kind"},
		),
	}
}

// The observe helpers tolerate a nil receiver so an uninstrumented
// controller pays only a nil check.

func (m *Metrics) observeCommand(name string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(name).Inc()
}

func (m *Metrics) observeViewOpened(active int) {
	if m == nil {
		return
	}
	m.ViewsCreated.Inc()
	m.ViewsActive.Set(float64(active))
}

func (m *Metrics) observeViewClosed(active int) {
	if m == nil {
		return
	}
	m.ViewsActive.Set(float64(active))
}

func (m *Metrics) observePaint(d time.Duration) {
	if m == nil {
		return
	}
	m.PaintsTotal.Inc()
	m.PaintDuration.Observe(d.Seconds())
}

func (m *Metrics) observeSkippedPaint() {
	if m == nil {
		return
	}
	m.PaintsSkipped.Inc()
}

func (m *Metrics) observeDroppedInput(kind string) {
	if m == nil {
		return
	}
	m.InputDropped.WithLabelValues(kind).Inc()
}

func (m *Metrics) observeNotification(kind string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(kind).Inc()
}
