// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"code.hybscloud.com/history"
	"code.hybscloud.com/history/exprfilter"
	"code.hybscloud.com/history/oteldisplay"
	"code.hybscloud.com/history/promdisplay"
	"code.hybscloud.com/history/slogdisplay"
)

// meterName is the instrumentation scope of the default meter.
const meterName = "code.hybscloud.com/history"

// BuildOptions supplies the sinks' dependencies.
type BuildOptions struct {
	// Logger receives step records; slog.Default when nil.
	Logger *slog.Logger

	// Registerer receives the Prometheus collectors;
	// prometheus.DefaultRegisterer when nil.
	Registerer prometheus.Registerer

	// Meter creates the OpenTelemetry instruments; the global meter
	// provider's meter when nil.
	Meter metric.Meter
}

// Build assembles the display c describes. Printers and tables write to w.
//
// Hooks are ordered printer, summary, log, Prometheus, OpenTelemetry. The
// filter expression gates every hook; in verbose mode the printer is further
// capped at MaxDepth. Hooks that would do no work, such as a log sink below
// the logger's level, are left out, so a silent configuration without
// working sinks yields an inactive display.
func (c Config) Build(w io.Writer, opts BuildOptions) (history.Dynamic, error) {
	if err := c.Validate(); err != nil {
		return history.Dynamic{}, err
	}
	filter, err := exprfilter.Compile(c.Filter)
	if err != nil {
		return history.Dynamic{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	keep := filter.Func()

	var hooks []history.Hook
	add := func(h history.Hook, extra ...history.FilterFunc) {
		if !history.HookActive(h) {
			return
		}
		hooks = append(hooks, history.FilterHook(h, combine(keep, extra...)))
	}

	printer := history.HookOf[history.LinePrinter, struct{}](history.LinePrinter{W: w})
	summary := history.HookOf[history.Summary, history.SummaryTable](history.Summary{W: w})
	switch c.Mode {
	case ModeVerbose:
		add(printer, history.MaxDepth(c.MaxDepth))
	case ModeDebug:
		add(printer)
	case ModeSummary:
		add(summary)
	}
	if c.Summary && c.Mode != ModeSummary {
		add(summary)
	}

	if c.Log.Enabled {
		add(slogdisplay.NewHook(opts.Logger, c.Log.SlogLevel()))
	}

	if c.Metrics.Prometheus {
		reg := opts.Registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		add(promdisplay.Display{Metrics: promdisplay.NewMetrics(reg, c.Metrics.Namespace)}.Hook())
	}

	if c.Metrics.OpenTelemetry {
		meter := opts.Meter
		if meter == nil {
			meter = otel.GetMeterProvider().Meter(meterName)
		}
		d, err := oteldisplay.New(meter)
		if err != nil {
			return history.Dynamic{}, err
		}
		add(d.Hook())
	}

	return history.Dynamic{Hooks: hooks}, nil
}

// combine joins keep with extra filters. It returns nil when nothing filters.
func combine(keep history.FilterFunc, extra ...history.FilterFunc) history.FilterFunc {
	if len(extra) == 0 {
		return keep
	}
	if keep == nil && len(extra) == 1 {
		return extra[0]
	}
	return history.AllFilters(append([]history.FilterFunc{keep}, extra...)...)
}
