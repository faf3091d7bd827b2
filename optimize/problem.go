// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package optimize provides reference minimizers instrumented with history.
//
// Every minimizer is generic over the display and takes the run's History
// as its first argument, so the same code runs silent in production and
// traced under a debugger display:
//
//	res, err := history.RunSummary(os.Stderr, func(h *history.SummaryHistory) (optimize.Step, error) {
//		return optimize.GradientDescent(h, optimize.Rosenbrock(), optimize.Vector{-1.2, 1}, optimize.Options{})
//	})
package optimize

import (
	"errors"
	"fmt"

	"code.hybscloud.com/history"
)

var (
	// ErrLineSearchFailed indicates no trial step satisfied the sufficient decrease condition.
	ErrLineSearchFailed = errors.New("optimize: line search failed")

	// ErrZeroCurvature indicates a Newton step on a vanishing second derivative.
	ErrZeroCurvature = errors.New("optimize: zero curvature")

	// ErrDimensionMismatch indicates a gradient whose length differs from the point's.
	ErrDimensionMismatch = errors.New("optimize: dimension mismatch")
)

// Problem is a differentiable objective on R^n.
type Problem struct {
	F    func(x Vector) float64
	Grad func(x Vector) Vector
}

// Step is one iterate of a multivariate minimizer.
type Step struct {
	Tag  string
	X    Vector
	FX   float64
	Grad Vector

	// Dir is the search direction taken from X, when the minimizer keeps one.
	Dir Vector
}

func (s Step) Name() string { return s.Tag }

func (s Step) String() string {
	return fmt.Sprintf("x=%s fx=%.6g |g|=%.3g", s.X, s.FX, s.Grad.Norm())
}

func (s Step) FX1() float64 { return s.FX }

func (s Step) X1() Vector { return s.X }

// eval evaluates p at x.
func (p Problem) eval(tag string, x Vector) (Step, error) {
	g := p.Grad(x)
	if len(g) != len(x) {
		return Step{}, fmt.Errorf("%w: gradient has %d components at a point of %d", ErrDimensionMismatch, len(g), len(x))
	}
	return Step{Tag: tag, X: x, FX: p.F(x), Grad: g}, nil
}

// GradNormBelow holds when the gradient norm of the current iterate is below tol.
func GradNormBelow(tol float64) history.StopCondition[Step] {
	return func(_ history.Record, _, curr Step) bool {
		return curr.Grad.Norm() < tol
	}
}

// Options configures the multivariate minimizers. Zero fields take defaults.
type Options struct {
	// MaxIter bounds the iterations. Default 1000.
	MaxIter int
	// Tol is the relative objective tolerance of MulTolerance. Default 0 (disabled).
	Tol float64
	// GradTol stops once the gradient norm is below it. Default 1e-8.
	GradTol float64
	// LineSearch configures the backtracking line search.
	LineSearch LineSearchOptions
}

func (o Options) withDefaults() Options {
	if o.MaxIter <= 0 {
		o.MaxIter = 1000
	}
	if o.GradTol <= 0 {
		o.GradTol = 1e-8
	}
	o.LineSearch = o.LineSearch.withDefaults()
	return o
}

// stop returns the stop condition described by o.
func (o Options) stop() history.StopCondition[Step] {
	conds := []history.StopCondition[Step]{
		history.MaxIterations[Step](o.MaxIter),
		GradNormBelow(o.GradTol),
	}
	if o.Tol > 0 {
		conds = append(conds, history.MulTolerance[Step](o.Tol))
	}
	return history.AnyOf(conds...)
}

// Quadratic returns f(x) = ½ Σ c_i x_i², minimized at the origin.
func Quadratic(c ...float64) Problem {
	return Problem{
		F: func(x Vector) float64 {
			var s float64
			for i, xi := range x {
				s += c[i] * xi * xi
			}
			return s / 2
		},
		Grad: func(x Vector) Vector {
			g := make(Vector, len(x))
			for i, xi := range x {
				g[i] = c[i] * xi
			}
			return g
		},
	}
}

// Rosenbrock returns the two-dimensional Rosenbrock function
// (1-x)² + 100(y-x²)², minimized at (1, 1).
func Rosenbrock() Problem {
	return Problem{
		F: func(v Vector) float64 {
			x, y := v[0], v[1]
			return (1-x)*(1-x) + 100*(y-x*x)*(y-x*x)
		},
		Grad: func(v Vector) Vector {
			x, y := v[0], v[1]
			return Vector{
				-2*(1-x) - 400*x*(y-x*x),
				200 * (y - x*x),
			}
		},
	}
}
