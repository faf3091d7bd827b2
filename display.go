// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

// Display is the F-bounded interface for display functions.
// The self-referencing constraint D Display[D, S] gives the compiler
// knowledge of the concrete display type at compile time, so each History
// instantiation is specialized for its display. S is the accumulator state
// the display threads through a run; its zero value is the initial state.
//
// Start runs once before the body, Step once per reported value, Stop once
// after the body with the final state. A returned error is the failure of
// the hook's effect and aborts the run.
type Display[D Display[D, S], S any] interface {
	Start() error
	Step(r Record, s S, v Value) (S, error)
	Stop(s S) error
}

// activity is implemented by displays that can declare themselves inert.
// An inactive display is never called and the History never reads the clock.
type activity interface {
	Active() bool
}

// isActive reports whether d wants its hooks invoked.
// Displays that do not implement Active are always active.
func isActive[D any](d D) bool {
	if a, ok := any(d).(activity); ok {
		return a.Active()
	}
	return true
}

// Silent is the zero display: every hook is a no-op.
// Running under Silent costs a sequence counter increment per report.
type Silent struct{}

func (Silent) Start() error { return nil }

func (Silent) Step(_ Record, s struct{}, _ Value) (struct{}, error) { return s, nil }

func (Silent) Stop(struct{}) error { return nil }

// Active implements the inert-display marker.
func (Silent) Active() bool { return false }

// Pair holds two values.
type Pair[A, B any] struct {
	Fst A
	Snd B
}

// Both runs two displays side by side.
// Its state pairs the two states; hooks run First then Second, and the
// first failing hook stops the sequence. State already returned by First
// is kept even when Second fails.
//
// Example:
//
//	d := history.Both[history.LinePrinter, struct{}, history.Summary, history.SummaryTable]{
//	    First:  history.LinePrinter{W: os.Stderr},
//	    Second: history.Summary{W: os.Stderr},
//	}
type Both[D1 Display[D1, S1], S1 any, D2 Display[D2, S2], S2 any] struct {
	First  D1
	Second D2
}

func (b Both[D1, S1, D2, S2]) Start() error {
	if err := b.First.Start(); err != nil {
		return err
	}
	return b.Second.Start()
}

func (b Both[D1, S1, D2, S2]) Step(r Record, s Pair[S1, S2], v Value) (Pair[S1, S2], error) {
	var err error
	if s.Fst, err = b.First.Step(r, s.Fst, v); err != nil {
		return s, err
	}
	s.Snd, err = b.Second.Step(r, s.Snd, v)
	return s, err
}

func (b Both[D1, S1, D2, S2]) Stop(s Pair[S1, S2]) error {
	if err := b.First.Stop(s.Fst); err != nil {
		return err
	}
	return b.Second.Stop(s.Snd)
}

// Active reports whether either side is active.
func (b Both[D1, S1, D2, S2]) Active() bool {
	return isActive(b.First) || isActive(b.Second)
}
