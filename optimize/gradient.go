// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package optimize

import (
	"fmt"

	"code.hybscloud.com/history"
)

// Phase names, also the tags of the reported iterates.
const (
	GradientDescentName   = "GradientDescent"
	ConjugateGradientName = "ConjugateGradient"
	NewtonName            = "Newton"
)

// GradientDescent minimizes p from x0 by steepest descent with a
// backtracking line search. It returns the last iterate.
func GradientDescent[D history.Display[D, S], S any](h *history.History[D, S], p Problem, x0 Vector, o Options) (Step, error) {
	o = o.withDefaults()
	return history.BeginFunction(h, GradientDescentName, func(h *history.History[D, S]) (Step, error) {
		start, err := p.eval(GradientDescentName, x0.Clone())
		if err != nil {
			return start, err
		}
		step := func(s Step) (Step, error) {
			dir := s.Grad.Scale(-1)
			t, err := LineSearch(h, p, s, dir, o.LineSearch)
			if err != nil {
				return s, err
			}
			return p.eval(GradientDescentName, s.X.AddScaled(t, dir))
		}
		return history.Iterate(h, step, start, o.stop())
	})
}

// ConjugateGradient minimizes p from x0 with the Fletcher–Reeves nonlinear
// conjugate gradient method and a backtracking line search.
// The direction is reset to steepest descent every len(x0) iterations and
// whenever the conjugate direction is not a descent direction.
func ConjugateGradient[D history.Display[D, S], S any](h *history.History[D, S], p Problem, x0 Vector, o Options) (Step, error) {
	o = o.withDefaults()
	n := len(x0)
	if n == 0 {
		return Step{}, fmt.Errorf("%w: empty starting point", ErrDimensionMismatch)
	}
	return history.BeginFunction(h, ConjugateGradientName, func(h *history.History[D, S]) (Step, error) {
		start, err := p.eval(ConjugateGradientName, x0.Clone())
		if err != nil {
			return start, err
		}
		start.Dir = start.Grad.Scale(-1)
		step := func(s Step) (Step, error) {
			t, err := LineSearch(h, p, s, s.Dir, o.LineSearch)
			if err != nil {
				return s, err
			}
			next, err := p.eval(ConjugateGradientName, s.X.AddScaled(t, s.Dir))
			if err != nil {
				return s, err
			}
			next.Dir = next.Grad.Scale(-1)
			if (history.CurrentIteration(h)+1)%n != 0 {
				beta := next.Grad.Dot(next.Grad) / s.Grad.Dot(s.Grad)
				if d := next.Dir.AddScaled(beta, s.Dir); d.Dot(next.Grad) < 0 {
					next.Dir = d
				}
			}
			return next, nil
		}
		return history.Iterate(h, step, start, o.stop())
	})
}
