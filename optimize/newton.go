// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package optimize

import (
	"fmt"
	"math"

	"code.hybscloud.com/history"
)

// Problem1D is a twice differentiable objective on R.
type Problem1D struct {
	F   func(x float64) float64
	DF  func(x float64) float64
	DDF func(x float64) float64
}

// Step1D is one Newton iterate.
type Step1D struct {
	X   float64
	FX  float64
	DF  float64
	DDF float64
}

func (Step1D) Name() string { return NewtonName }

func (s Step1D) String() string {
	return fmt.Sprintf("x=%.10g fx=%.10g f'=%.3g", s.X, s.FX, s.DF)
}

func (s Step1D) FX1() float64 { return s.FX }

func (s Step1D) X1() float64 { return s.X }

func (p Problem1D) eval(x float64) Step1D {
	return Step1D{X: x, FX: p.F(x), DF: p.DF(x), DDF: p.DDF(x)}
}

// Newton finds a stationary point of p from x0 with the Newton–Raphson
// iteration x ← x − f'(x)/f''(x). It stops after maxIter iterations, when
// |f'(x)| < tol, or when the objective changed by less than tol relatively.
func Newton[D history.Display[D, S], S any](h *history.History[D, S], p Problem1D, x0 float64, maxIter int, tol float64) (Step1D, error) {
	return history.BeginFunction(h, NewtonName, func(h *history.History[D, S]) (Step1D, error) {
		step := func(s Step1D) (Step1D, error) {
			if s.DDF == 0 {
				return s, fmt.Errorf("%w at x=%g", ErrZeroCurvature, s.X)
			}
			return p.eval(s.X - s.DF/s.DDF), nil
		}
		stop := history.AnyOf[Step1D](
			history.MaxIterations[Step1D](maxIter),
			history.MulTolerance[Step1D](tol),
			func(_ history.Record, _, curr Step1D) bool { return math.Abs(curr.DF) < tol },
		)
		return history.Iterate(h, step, p.eval(x0), stop)
	})
}

// Cosine returns f(x) = cos(x), with minima at odd multiples of π.
func Cosine() Problem1D {
	return Problem1D{
		F:   math.Cos,
		DF:  func(x float64) float64 { return -math.Sin(x) },
		DDF: func(x float64) float64 { return -math.Cos(x) },
	}
}

// Quartic returns f(x) = (x − 2)⁴ + x², minimized near x ≈ 1.165.
func Quartic() Problem1D {
	return Problem1D{
		F:   func(x float64) float64 { return math.Pow(x-2, 4) + x*x },
		DF:  func(x float64) float64 { return 4*math.Pow(x-2, 3) + 2*x },
		DDF: func(x float64) float64 { return 12*(x-2)*(x-2) + 2 },
	}
}
