// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package optimize

import (
	"fmt"

	"code.hybscloud.com/history"
)

// LineSearchOptions configures the backtracking line search.
// Zero fields take defaults.
type LineSearchOptions struct {
	// Initial is the first trial step length. Default 1.
	Initial float64
	// Shrink multiplies the step length after a rejected trial. Default 0.5.
	Shrink float64
	// C1 is the sufficient decrease constant of the Armijo condition. Default 1e-4.
	C1 float64
	// MaxSteps bounds the rejected trials. Default 50.
	MaxSteps int
}

func (o LineSearchOptions) withDefaults() LineSearchOptions {
	if o.Initial <= 0 {
		o.Initial = 1
	}
	if o.Shrink <= 0 || o.Shrink >= 1 {
		o.Shrink = 0.5
	}
	if o.C1 <= 0 || o.C1 >= 1 {
		o.C1 = 1e-4
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = 50
	}
	return o
}

// Trial is one step length tried by the line search.
type Trial struct {
	T  float64
	FX float64
}

func (Trial) Name() string { return "Trial" }

func (t Trial) String() string { return fmt.Sprintf("t=%.3g fx=%.6g", t.T, t.FX) }

func (t Trial) FX1() float64 { return t.FX }

// LineSearch finds a step length t along dir from at satisfying the Armijo
// condition f(x + t·dir) ≤ f(x) + C1·t·∇f(x)ᵀdir, shrinking t from Initial.
// It runs as the phase "LineSearch" and reports every trial.
func LineSearch[D history.Display[D, S], S any](h *history.History[D, S], p Problem, at Step, dir Vector, o LineSearchOptions) (float64, error) {
	o = o.withDefaults()
	slope := at.Grad.Dot(dir)
	accept := func(tr Trial) bool { return tr.FX <= at.FX+o.C1*tr.T*slope }
	trial := func(t float64) Trial { return Trial{T: t, FX: p.F(at.X.AddScaled(t, dir))} }

	tr, err := history.BeginFunction(h, "LineSearch", func(h *history.History[D, S]) (Trial, error) {
		first := trial(o.Initial)
		if accept(first) {
			return history.Report(h, first), nil
		}
		shrink := func(tr Trial) (Trial, error) { return trial(tr.T * o.Shrink), nil }
		return history.Iterate(h, shrink, first, history.AnyOf[Trial](
			history.MaxIterations[Trial](o.MaxSteps),
			func(_ history.Record, _, curr Trial) bool { return accept(curr) },
		))
	})
	if err != nil {
		return 0, err
	}
	if !accept(tr) {
		return 0, fmt.Errorf("%w after %d trials (slope %.3g)", ErrLineSearchFailed, o.MaxSteps+1, slope)
	}
	return tr.T, nil
}
