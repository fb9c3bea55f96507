// Package metrics holds the prometheus collectors for refresh runs and the
// image download queue. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "menusync"

type Metrics struct {
	runs       *prometheus.CounterVec
	downloads  *prometheus.CounterVec
	queueDepth prometheus.Gauge
	delay      prometheus.Gauge
}

// New registers the collectors with reg. A nil reg creates unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Refresh runs by location and result.",
		}, []string{"location", "result"}),
		downloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_downloads_total",
			Help:      "Image download attempts by result.",
		}, []string{"result"}),
		queueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "image_queue_depth",
			Help:      "Tasks waiting in the image download queue.",
		}),
		delay: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "image_delay_seconds",
			Help:      "Current pause between image provider requests.",
		}),
	}
}

func (m *Metrics) RunFinished(location, result string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(location, result).Inc()
}

func (m *Metrics) Download(result string) {
	if m == nil {
		return
	}
	m.downloads.WithLabelValues(result).Inc()
}

func (m *Metrics) QueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

func (m *Metrics) Delay(d time.Duration) {
	if m == nil {
		return
	}
	m.delay.Set(d.Seconds())
}
