package playback

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	started   *prometheus.CounterVec
	active    prometheus.Gauge
	callbacks prometheus.Counter
	clipped   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		started: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tact_playback_voices_started_total",
			Help: "Signals started, by channel",
		}, []string{"channel"}),
		active: f.NewGauge(prometheus.GaugeOpts{
			Name: "tact_playback_active_voices",
			Help: "Signals currently playing",
		}),
		callbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "tact_playback_callbacks_total",
			Help: "Audio buffers rendered",
		}),
		clipped: f.NewCounter(prometheus.CounterOpts{
			Name: "tact_playback_clipped_samples_total",
			Help: "Samples that reached full scale after limiting",
		}),
	}
}
