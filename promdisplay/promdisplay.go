// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package promdisplay provides a display that records reported steps as
// Prometheus metrics.
//
// Metrics are safe for concurrent use, so histories running on different
// goroutines may share one [Metrics].
package promdisplay

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"code.hybscloud.com/history"
)

const subsystem = "history"

// Metrics holds the collectors a Display writes to.
type Metrics struct {
	// Steps counts reported steps.
	// Labels: name (value tag), depth (nesting level)
	Steps *prometheus.CounterVec

	// StepSeconds observes the time between consecutive reports at the
	// same level. The first report of a level is not observed.
	// Labels: name (value tag)
	StepSeconds *prometheus.HistogramVec

	// Depth is the depth of the last reported step.
	Depth prometheus.Gauge

	// RunsStarted and RunsFinished count runs whose Start and Stop hooks ran.
	RunsStarted  prometheus.Counter
	RunsFinished prometheus.Counter
}

// NewMetrics creates the collectors under namespace and registers them with
// reg. A nil reg creates unregistered collectors. Registering twice with the
// same registry and namespace panics.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "steps_total",
			Help:      "Total reported steps by value tag and depth",
		}, []string{"name", "depth"}),
		StepSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "step_duration_seconds",
			Help:      "Time between consecutive reports at the same level in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}, []string{"name"}),
		Depth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "depth",
			Help:      "Nesting depth of the last reported step",
		}),
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_started_total",
			Help:      "Total instrumented runs started",
		}),
		RunsFinished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_finished_total",
			Help:      "Total instrumented runs finished",
		}),
	}
}

// Display records every step into Metrics.
type Display struct {
	Metrics *Metrics
}

// HistoryOf is the History instantiation for Display.
type HistoryOf = history.History[Display, struct{}]

func (d Display) Start() error {
	d.Metrics.RunsStarted.Inc()
	return nil
}

func (d Display) Step(r history.Record, s struct{}, v history.Value) (struct{}, error) {
	name := v.Name()
	d.Metrics.Steps.WithLabelValues(name, strconv.Itoa(r.Depth)).Inc()
	if r.Sequence > 0 {
		d.Metrics.StepSeconds.WithLabelValues(name).Observe(r.Elapsed.Seconds())
	}
	d.Metrics.Depth.Set(float64(r.Depth))
	return s, nil
}

func (d Display) Stop(struct{}) error {
	d.Metrics.RunsFinished.Inc()
	return nil
}

// Active reports whether d has metrics to write to.
func (d Display) Active() bool { return d.Metrics != nil }

// Hook returns d as a [history.Hook].
func (d Display) Hook() history.Hook {
	return history.HookOf[Display, struct{}](d)
}

// WriteText writes every metric family gathered from g to w in the
// Prometheus text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
