// Package metrics exposes game counters to Prometheus. A nil *Collectors is
// valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collectors struct {
	registry *prometheus.Registry

	ShotsFired         prometheus.Counter
	Hits               prometheus.Counter
	Misses             prometheus.Counter
	ProjectilesExpired prometheus.Counter
	ActiveSessions     prometheus.Gauge
	FrameDuration      prometheus.Histogram
}

func New() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		ShotsFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "targetrange",
			Name:      "shots_fired_total",
			Help:      "Projectiles fired across all sessions.",
		}),
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "targetrange",
			Name:      "hits_total",
			Help:      "Picks that removed a live target.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "targetrange",
			Name:      "misses_total",
			Help:      "Picks that named no live target.",
		}),
		ProjectilesExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "targetrange",
			Name:      "projectiles_expired_total",
			Help:      "Projectiles removed after reaching max range.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "targetrange",
			Name:      "active_sessions",
			Help:      "Sessions whose frame loop is running.",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "targetrange",
			Name:      "frame_step_seconds",
			Help:      "Time spent simulating one frame.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
	}
	c.registry.MustRegister(
		c.ShotsFired,
		c.Hits,
		c.Misses,
		c.ProjectilesExpired,
		c.ActiveSessions,
		c.FrameDuration,
		collectors.NewGoCollector(),
	)
	return c
}

func (c *Collectors) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Gather exposes the registry for tests and ad-hoc dumps.
func (c *Collectors) Gather() (map[string]float64, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(families))
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[f.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[f.GetName()] += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[f.GetName()] += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out, nil
}

func (c *Collectors) Shot() {
	if c == nil {
		return
	}
	c.ShotsFired.Inc()
}

func (c *Collectors) Pick(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.Hits.Inc()
	} else {
		c.Misses.Inc()
	}
}

func (c *Collectors) Frame(took time.Duration, expired int) {
	if c == nil {
		return
	}
	c.FrameDuration.Observe(took.Seconds())
	if expired > 0 {
		c.ProjectilesExpired.Add(float64(expired))
	}
}

func (c *Collectors) SessionStarted() {
	if c == nil {
		return
	}
	c.ActiveSessions.Inc()
}

func (c *Collectors) SessionEnded() {
	if c == nil {
		return
	}
	c.ActiveSessions.Dec()
}
