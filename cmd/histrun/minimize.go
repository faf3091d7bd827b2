// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"code.hybscloud.com/history"
	"code.hybscloud.com/history/config"
	"code.hybscloud.com/history/optimize"
	"code.hybscloud.com/history/promdisplay"
)

var (
	errUnknownAlgo = errors.New("unknown algorithm")
	errUnknownFunc = errors.New("unknown function")
	errMismatch    = errors.New("algorithm does not apply to function")
)

type minimizeFlags struct {
	algo       string
	fn         string
	x0         []float64
	mode       string
	maxDepth   int
	filter     string
	summary    bool
	maxIter    int
	tol        float64
	configPath string
	metrics    bool
}

func newMinimizeCmd(a *app) *cobra.Command {
	f := &minimizeFlags{}
	cmd := &cobra.Command{
		Use:   "minimize",
		Short: "Minimize a test function and print the last iterate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.minimize(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.algo, "algo", "gd", "minimizer: gd, cg or newton")
	fl.StringVar(&f.fn, "func", "rosenbrock", "objective: rosenbrock, quadratic, cosine or quartic")
	fl.Float64SliceVar(&f.x0, "x0", nil, "starting point (default depends on --func)")
	fl.StringVar(&f.mode, "mode", "", "display mode: silent, verbose, debug or summary (overrides config)")
	fl.IntVar(&f.maxDepth, "max-depth", 1, "deepest level printed in verbose mode (overrides config)")
	fl.StringVar(&f.filter, "filter", "", "expression selecting the reported steps (overrides config)")
	fl.BoolVar(&f.summary, "summary", false, "add a summary table to verbose and debug output (overrides config)")
	fl.IntVar(&f.maxIter, "max-iter", 1000, "maximum iterations")
	fl.Float64Var(&f.tol, "tol", 1e-10, "gradient tolerance")
	fl.StringVar(&f.configPath, "config", "history.yaml", "config file; a missing file keeps the defaults")
	fl.BoolVar(&f.metrics, "metrics", false, "print Prometheus metrics of the run")
	return cmd
}

// objective is a test function with its default starting point. Exactly one
// of multi and single is set.
type objective struct {
	multi  func(n int) optimize.Problem
	single *optimize.Problem1D
	x0     []float64
}

func lookupObjective(name string) (objective, error) {
	switch name {
	case "rosenbrock":
		return objective{
			multi: func(int) optimize.Problem { return optimize.Rosenbrock() },
			x0:    []float64{-1.2, 1},
		}, nil
	case "quadratic":
		return objective{
			multi: func(n int) optimize.Problem {
				c := make([]float64, n)
				for i := range c {
					c[i] = math.Pow(10, float64(i))
				}
				return optimize.Quadratic(c...)
			},
			x0: []float64{1, 1},
		}, nil
	case "cosine":
		p := optimize.Cosine()
		return objective{single: &p, x0: []float64{3}}, nil
	case "quartic":
		p := optimize.Quartic()
		return objective{single: &p, x0: []float64{0}}, nil
	}
	return objective{}, fmt.Errorf("%w %q", errUnknownFunc, name)
}

// task is a resolved minimization.
type task struct {
	algo string
	obj  objective
	x0   []float64
	opts optimize.Options
}

func newTask(f *minimizeFlags) (task, error) {
	obj, err := lookupObjective(f.fn)
	if err != nil {
		return task{}, err
	}
	t := task{algo: f.algo, obj: obj, x0: obj.x0, opts: optimize.Options{MaxIter: f.maxIter, GradTol: f.tol}}
	if len(f.x0) > 0 {
		t.x0 = f.x0
	}
	switch f.algo {
	case "gd", "cg":
		if obj.multi == nil {
			return task{}, fmt.Errorf("%w: %s on %s", errMismatch, f.algo, f.fn)
		}
		if f.fn == "rosenbrock" && len(t.x0) != 2 {
			return task{}, fmt.Errorf("%w: rosenbrock takes 2 coordinates, got %d", optimize.ErrDimensionMismatch, len(t.x0))
		}
	case "newton":
		if obj.single == nil {
			return task{}, fmt.Errorf("%w: %s on %s", errMismatch, f.algo, f.fn)
		}
		if len(t.x0) != 1 {
			return task{}, fmt.Errorf("%w: newton takes 1 coordinate, got %d", optimize.ErrDimensionMismatch, len(t.x0))
		}
	default:
		return task{}, fmt.Errorf("%w %q", errUnknownAlgo, f.algo)
	}
	return t, nil
}

func solve[D history.Display[D, S], S any](h *history.History[D, S], t task) (history.Value, error) {
	switch t.algo {
	case "gd":
		s, err := optimize.GradientDescent(h, t.obj.multi(len(t.x0)), t.x0, t.opts)
		return s, err
	case "cg":
		s, err := optimize.ConjugateGradient(h, t.obj.multi(len(t.x0)), t.x0, t.opts)
		return s, err
	default:
		s, err := optimize.Newton(h, *t.obj.single, t.x0[0], t.opts.MaxIter, t.opts.GradTol)
		return s, err
	}
}

// loadConfig resolves the display configuration: flags > env > file > defaults.
func loadConfig(cmd *cobra.Command, f *minimizeFlags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	fl := cmd.Flags()
	if fl.Changed("mode") {
		m, err := config.ParseMode(f.mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = m
	}
	if fl.Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if fl.Changed("filter") {
		cfg.Filter = f.filter
	}
	if fl.Changed("summary") {
		cfg.Summary = f.summary
	}
	if f.metrics {
		cfg.Metrics.Prometheus = true
	}
	return cfg, cfg.Validate()
}

func (a *app) minimize(cmd *cobra.Command, f *minimizeFlags) error {
	t, err := newTask(f)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reg := prometheus.NewRegistry()
	dyn, err := cfg.Build(out, config.BuildOptions{Logger: a.logger, Registerer: reg})
	if err != nil {
		return err
	}

	a.logger.Info("minimize started", "algo", f.algo, "func", f.fn, "mode", cfg.Mode)
	start := time.Now()
	var res history.Value
	if dyn.Active() {
		res, err = history.Run(dyn, func(h *history.DynamicHistory) (history.Value, error) {
			return solve(h, t)
		})
	} else {
		res, err = history.RunSilent(func(h *history.SilentHistory) (history.Value, error) {
			return solve(h, t)
		})
	}
	if err != nil {
		a.logger.Error("minimize failed", "error", err, "duration", time.Since(start))
		return err
	}
	a.logger.Info("minimize finished", "result", res.String(), "duration", time.Since(start))

	fmt.Fprintf(out, "%s: %s\n", res.Name(), res)
	if f.metrics {
		return promdisplay.WriteText(out, reg)
	}
	return nil
}
