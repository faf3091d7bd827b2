// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package oteldisplay provides a display that records reported steps
// through an OpenTelemetry metric.Meter.
package oteldisplay

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"code.hybscloud.com/history"
)

// Instrument names.
const (
	StepsName       = "history.steps"
	StepElapsedName = "history.step.duration"
	RunsName        = "history.runs"
)

type instruments struct {
	steps   metric.Int64Counter
	elapsed metric.Float64Histogram
	runs    metric.Int64Counter
}

// Display records every step with the instruments created by [New].
//
// Steps are counted with the attributes name and depth; the time between
// consecutive reports at a level is recorded in seconds with the attribute
// name. Runs are counted with the attribute phase ("start" or "stop").
type Display struct {
	inst *instruments
	ctx  context.Context
}

// HistoryOf is the History instantiation for Display.
type HistoryOf = history.History[Display, struct{}]

// New creates the instruments on meter.
func New(meter metric.Meter) (Display, error) {
	steps, err := meter.Int64Counter(
		StepsName,
		metric.WithDescription("Total reported steps"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return Display{}, fmt.Errorf("create %s: %w", StepsName, err)
	}
	elapsed, err := meter.Float64Histogram(
		StepElapsedName,
		metric.WithDescription("Time between consecutive reports at the same level"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return Display{}, fmt.Errorf("create %s: %w", StepElapsedName, err)
	}
	runs, err := meter.Int64Counter(
		RunsName,
		metric.WithDescription("Instrumented run boundaries"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return Display{}, fmt.Errorf("create %s: %w", RunsName, err)
	}
	return Display{
		inst: &instruments{steps: steps, elapsed: elapsed, runs: runs},
		ctx:  context.Background(),
	}, nil
}

// WithContext returns a copy of d recording under ctx.
func (d Display) WithContext(ctx context.Context) Display {
	d.ctx = ctx
	return d
}

func (d Display) Start() error {
	d.inst.runs.Add(d.ctx, 1, metric.WithAttributes(attribute.String("phase", "start")))
	return nil
}

func (d Display) Step(r history.Record, s struct{}, v history.Value) (struct{}, error) {
	name := attribute.String("name", v.Name())
	d.inst.steps.Add(d.ctx, 1, metric.WithAttributes(name, attribute.Int("depth", r.Depth)))
	if r.Sequence > 0 {
		d.inst.elapsed.Record(d.ctx, r.Elapsed.Seconds(), metric.WithAttributes(name))
	}
	return s, nil
}

func (d Display) Stop(struct{}) error {
	d.inst.runs.Add(d.ctx, 1, metric.WithAttributes(attribute.String("phase", "stop")))
	return nil
}

// Active reports whether d was created by New.
func (d Display) Active() bool { return d.inst != nil }

// Hook returns d as a [history.Hook].
func (d Display) Hook() history.Hook {
	return history.HookOf[Display, struct{}](d)
}
