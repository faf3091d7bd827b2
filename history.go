// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

import (
	"errors"
	"time"
)

// History is the execution context of one instrumented run.
// It owns the report stack and the display's accumulator state, and it is
// the only place that reads the clock and invokes display hooks.
//
// A History is created by [Run] and passed to the body; algorithms take it
// as their first argument and stay generic over the display:
//
//	func Solve[D history.Display[D, S], S any](h *history.History[D, S], x0 float64) (float64, error)
//
// A History is not safe for concurrent use. Run independent histories per
// goroutine.
type History[D Display[D, S], S any] struct {
	display D
	state   S
	stack   reportStack
	active  bool
	now     func() time.Time
	failure error
}

// Option configures a run.
type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock replaces the clock a run samples. The clock must be monotonic.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// hookFailure carries a display error from the hook that produced it to
// the Run that owns the history.
type hookFailure struct {
	owner any
	err   error
}

// fail records the first display error and aborts the body.
// The error is kept on h, so a body that recovers the panic cannot hide it
// from Run.
//
//go:noinline
func (h *History[D, S]) fail(err error) {
	if h.failure == nil {
		h.failure = err
	}
	panic(hookFailure{owner: h, err: err})
}

// Run executes body under display d.
//
// Run starts from the zero state, opens the top-level sentinel, calls
// d.Start, runs body, calls d.Stop with the final state and returns the
// body's result. A display hook error aborts the body and is returned as
// the hook produced it, even when the body recovers the panic that unwinds
// it. State committed before the failure is kept, later reports no longer
// reach the display, and Stop is not called. A body error is returned unchanged after Stop ran; if Stop
// fails as well both errors are joined.
//
// Example:
//
//	x, err := history.Run(history.LinePrinter{W: os.Stderr},
//	    func(h *history.History[history.LinePrinter, struct{}]) (float64, error) {
//	        return history.Report(h, history.Scalar(42)).FX1(), nil
//	    })
func Run[D Display[D, S], S any, A any](d D, body func(h *History[D, S]) (A, error), opts ...Option) (A, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	h := &History[D, S]{
		display: d,
		active:  isActive(d),
		now:     o.clock,
		stack:   make(reportStack, 1, 8),
	}
	h.stack[0] = Record{Sequence: -1}
	if h.active {
		h.stack[0].Start = h.now()
		if err := d.Start(); err != nil {
			var zero A
			return zero, err
		}
	}

	result, err := runBody(h, body)
	if len(h.stack) != 1 {
		panic("history: report stack not balanced at end of run")
	}
	if h.failure != nil {
		return result, h.failure
	}
	if !h.active {
		return result, err
	}
	if stopErr := d.Stop(h.state); stopErr != nil {
		if err == nil {
			return result, stopErr
		}
		return result, errors.Join(err, stopErr)
	}
	return result, err
}

// runBody runs body and stops the unwinding started by a display failure of
// h. Any other panic, including the failure of another history, continues
// unwinding.
func runBody[D Display[D, S], S any, A any](h *History[D, S], body func(*History[D, S]) (A, error)) (A, error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(hookFailure); !ok || f.owner != any(h) {
				panic(r)
			}
		}
	}()
	return body(h)
}

// Report records v as the next step of the current level and returns v
// unchanged. The display observes the step; the caller never does.
//
// Under an inactive display, or after the display failed, Report only
// advances the sequence number.
func Report[V Value, D Display[D, S], S any](h *History[D, S], v V) V {
	top := h.stack.top("Report")
	if !h.active || h.failure != nil {
		top.Sequence++
		return v
	}
	now := h.now()
	r := Record{Start: now, Sequence: top.Sequence + 1, Depth: top.Depth}
	if !top.IsSentinel() {
		r.Elapsed = now.Sub(top.Start)
	}
	*top = r
	s, err := h.display.Step(r, h.state, v)
	h.state = s
	if err != nil {
		h.fail(err)
	}
	return v
}

// CollectReports runs body one level deeper.
// The level is closed on every exit path of body, including an error
// return and a panic.
func CollectReports[D Display[D, S], S any, A any](h *History[D, S], body func(h *History[D, S]) (A, error)) (A, error) {
	var start time.Time
	if h.active {
		start = h.now()
	}
	h.stack.push(start)
	defer h.stack.pop()
	return body(h)
}

// BeginFunction runs body as a named phase.
//
// It opens a level, reports label as that level's first step, and runs
// body in a further level of its own. Reports made by body therefore sit
// two levels below the caller, and a summary attributes entering the phase
// and the steps inside it to distinct levels.
func BeginFunction[D Display[D, S], S any, A any](h *History[D, S], label string, body func(h *History[D, S]) (A, error)) (A, error) {
	return CollectReports(h, func(h *History[D, S]) (A, error) {
		Report(h, Label(label))
		return CollectReports(h, body)
	})
}

// CurrentIteration returns the sequence number of the current level.
// It is -1 before the level's first report.
func CurrentIteration[D Display[D, S], S any](h *History[D, S]) int {
	return h.stack.top("CurrentIteration").Sequence
}

// Top returns the record of the current level.
func (h *History[D, S]) Top() Record { return *h.stack.top("Top") }

// Depth returns the current nesting depth.
func (h *History[D, S]) Depth() int { return h.stack.top("Depth").Depth }

// Levels returns the number of open levels, including the top-level sentinel.
func (h *History[D, S]) Levels() int { return len(h.stack) }

// State returns the display's current accumulator state.
// The state stays owned by the History; callers must not retain mutable parts.
func (h *History[D, S]) State() S { return h.state }

// Display returns the display the run was started with.
func (h *History[D, S]) Display() D { return h.display }
