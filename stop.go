// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

import "math"

// Stop conditions for Iterate.
// Every constructor returns a StopCondition of the same shape, so
// conditions compose with AnyOf, AllOf and Not.

// mulToleranceEpsilon keeps MulTolerance meaningful when both objectives are near zero.
const mulToleranceEpsilon = 1e-18

// MaxIterations holds once the current iteration reaches n.
// Started on a fresh level, Iterate then calls its step exactly n times
// (at least once).
func MaxIterations[V any](n int) StopCondition[V] {
	return func(r Record, _, _ V) bool {
		return r.Sequence >= n
	}
}

// StopBelow holds when the current objective is below threshold.
func StopBelow[V Objective](threshold float64) StopCondition[V] {
	return func(_ Record, _, curr V) bool {
		return curr.FX1() < threshold
	}
}

// FX1Grows holds when the objective increased since the previous value,
// halting a diverging algorithm before the divergence compounds.
func FX1Grows[V Objective]() StopCondition[V] {
	return func(_ Record, prev, curr V) bool {
		return curr.FX1() > prev.FX1()
	}
}

// MulTolerance holds when the objective converged relative to its size:
//
//	2·|curr − prev| < tol·(|curr| + |prev| + 1e-18)
//
// It never holds while the previous objective is infinite or NaN.
func MulTolerance[V Objective](tol float64) StopCondition[V] {
	return func(_ Record, prev, curr V) bool {
		p, c := prev.FX1(), curr.FX1()
		if math.IsInf(p, 0) || math.IsNaN(p) {
			return false
		}
		return 2*math.Abs(c-p) < tol*(math.Abs(c)+math.Abs(p)+mulToleranceEpsilon)
	}
}

// AnyOf holds when any condition holds. Conditions are evaluated in order
// and evaluation stops at the first that holds.
func AnyOf[V any](conds ...StopCondition[V]) StopCondition[V] {
	return func(r Record, prev, curr V) bool {
		for _, c := range conds {
			if c(r, prev, curr) {
				return true
			}
		}
		return false
	}
}

// AllOf holds when every condition holds. Evaluation stops at the first
// that does not.
func AllOf[V any](conds ...StopCondition[V]) StopCondition[V] {
	return func(r Record, prev, curr V) bool {
		for _, c := range conds {
			if !c(r, prev, curr) {
				return false
			}
		}
		return true
	}
}

// Not negates a condition.
func Not[V any](cond StopCondition[V]) StopCondition[V] {
	return func(r Record, prev, curr V) bool {
		return !cond(r, prev, curr)
	}
}
