// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

import "errors"

var (
	// ErrNilStep indicates Iterate was called without a step function.
	ErrNilStep = errors.New("history: Iterate requires a step function")

	// ErrNilStop indicates Iterate was called without a stop condition.
	ErrNilStop = errors.New("history: Iterate requires a stop condition")
)

// StopCondition decides whether Iterate halts.
// It receives the record of the step just reported (r.Sequence is the
// current iteration), the previous value and the current value.
type StopCondition[V any] func(r Record, prev, curr V) bool

// Iterate applies step until stop holds and returns the last value.
//
// Algorithm Outline:
//  1. Report x0, then curr = step(x0).
//  2. Report curr; if stop(record, prev, curr) return curr.
//  3. prev, curr = curr, step(curr); go to 2.
//
// Every value, x0 included, is reported exactly once. Iteration numbers
// are the sequence numbers of the current level, so Iterate is meant to run
// on a fresh level (inside [BeginFunction] or [CollectReports]).
//
// Iterate imposes no bound of its own: a stop condition that never holds
// loops forever. Compose [MaxIterations] into every condition.
//
// A step error ends the loop; the last value produced before it is returned
// with the error.
func Iterate[V Value, D Display[D, S], S any](h *History[D, S], step func(V) (V, error), x0 V, stop StopCondition[V]) (V, error) {
	if step == nil {
		return x0, ErrNilStep
	}
	if stop == nil {
		return x0, ErrNilStop
	}
	prev := Report(h, x0)
	curr, err := step(prev)
	if err != nil {
		return prev, err
	}
	for {
		Report(h, curr)
		if stop(h.Top(), prev, curr) {
			return curr, nil
		}
		next, err := step(curr)
		if err != nil {
			return curr, err
		}
		prev, curr = curr, next
	}
}
