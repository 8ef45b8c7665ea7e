// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"net/http"

	"github.com/black-desk/fswatch/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors of one engine.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	RawEvents            *prometheus.CounterVec
	CoalescedEvents      *prometheus.CounterVec
	UnresolvedPaths      prometheus.Counter
	DroppedNotifications prometheus.Counter
	SourceFailures       prometheus.Counter
	PendingWindows       prometheus.Gauge
	Subscriptions        prometheus.Gauge
	WindowDuration       prometheus.Histogram

	registry *prometheus.Registry
}

func New() *Metrics {
	m := &Metrics{
		RawEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fswatch_raw_events_total",
				Help: "Raw events received from the source.",
			},
			[]string{"kind"},
		),
		CoalescedEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fswatch_coalesced_events_total",
				Help: "Coalesced events flushed to subscribers.",
			},
			[]string{"kind"},
		),
		UnresolvedPaths: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fswatch_unresolved_paths_total",
				Help: "Raw events dropped because no watch root covers their path.",
			},
		),
		DroppedNotifications: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fswatch_dropped_notifications_total",
				Help: "Notifications dropped from full subscription queues.",
			},
		),
		SourceFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fswatch_source_failures_total",
				Help: "Unrecoverable failures reported by the source.",
			},
		),
		PendingWindows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fswatch_pending_windows",
				Help: "Open debounce windows.",
			},
		),
		Subscriptions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fswatch_subscriptions",
				Help: "Active subscriptions.",
			},
		),
		WindowDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fswatch_window_duration_seconds",
				Help:    "Time between the first and the last raw event of a flushed window.",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RawEvents,
		m.CoalescedEvents,
		m.UnresolvedPaths,
		m.DroppedNotifications,
		m.SourceFailures,
		m.PendingWindows,
		m.Subscriptions,
		m.WindowDuration,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the collectors in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRaw(kind types.ChangeKind) {
	if m == nil {
		return
	}
	m.RawEvents.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) ObserveFlushed(evs []types.CoalescedEvent) {
	if m == nil {
		return
	}
	for i := range evs {
		m.CoalescedEvents.WithLabelValues(evs[i].Kind.String()).Inc()
		m.WindowDuration.Observe(
			evs[i].WindowEnd.Sub(evs[i].WindowStart).Seconds(),
		)
	}
}

func (m *Metrics) ObserveUnresolved() {
	if m == nil {
		return
	}
	m.UnresolvedPaths.Inc()
}

func (m *Metrics) ObserveDropped() {
	if m == nil {
		return
	}
	m.DroppedNotifications.Inc()
}

func (m *Metrics) ObserveSourceFailure() {
	if m == nil {
		return
	}
	m.SourceFailures.Inc()
}

func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.PendingWindows.Set(float64(n))
}

func (m *Metrics) SetSubscriptions(n int) {
	if m == nil {
		return
	}
	m.Subscriptions.Set(float64(n))
}
