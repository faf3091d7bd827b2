// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

// Runtime-composed displays.
// Display composition with Both and Filtered is resolved at compile time.
// When the set of displays is only known at run time (read from a
// configuration file, chosen by a flag), hooks are collected into a Dynamic
// display instead, at the price of one interface call per hook and step.

// Hook is a stateful display: it keeps its own accumulator.
type Hook interface {
	Start() error
	Step(r Record, v Value) error
	Stop() error
}

// displayHook adapts a static display and its state to Hook.
type displayHook[D Display[D, S], S any] struct {
	d D
	s S
}

func (h *displayHook[D, S]) Start() error { return h.d.Start() }

func (h *displayHook[D, S]) Step(r Record, v Value) error {
	s, err := h.d.Step(r, h.s, v)
	h.s = s
	return err
}

func (h *displayHook[D, S]) Stop() error { return h.d.Stop(h.s) }

func (h *displayHook[D, S]) Active() bool { return isActive(h.d) }

// HookOf wraps a static display as a Hook holding its own state.
// The hook is active exactly when d is.
//
// Example:
//
//	hook := history.HookOf[history.Summary, history.SummaryTable](history.Summary{W: os.Stderr})
func HookOf[D Display[D, S], S any](d D) Hook {
	return &displayHook[D, S]{d: d}
}

// filterHook gates the Step of a hook.
type filterHook struct {
	hook Hook
	keep FilterFunc
}

func (f filterHook) Start() error { return f.hook.Start() }

func (f filterHook) Step(r Record, v Value) error {
	if !f.keep(r, v) {
		return nil
	}
	return f.hook.Step(r, v)
}

func (f filterHook) Stop() error { return f.hook.Stop() }

func (f filterHook) Active() bool { return HookActive(f.hook) }

// HookActive reports whether hook does any work. A hook without an
// Active method is active.
func HookActive(hook Hook) bool { return isActive(hook) }

// FilterHook gates the Step of hook with keep. A nil keep returns hook.
func FilterHook(hook Hook, keep FilterFunc) Hook {
	if keep == nil {
		return hook
	}
	return filterHook{hook: hook, keep: keep}
}

// Dynamic fans every hook call out to Hooks in order.
// The first failing hook stops the fan-out. A Dynamic without an active
// hook is inactive and behaves like Silent.
type Dynamic struct {
	Hooks []Hook
}

// DynamicHistory is the History instantiation for Dynamic.
type DynamicHistory = History[Dynamic, struct{}]

func (d Dynamic) Start() error {
	for _, h := range d.Hooks {
		if err := h.Start(); err != nil {
			return err
		}
	}
	return nil
}

func (d Dynamic) Step(r Record, s struct{}, v Value) (struct{}, error) {
	for _, h := range d.Hooks {
		if err := h.Step(r, v); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (d Dynamic) Stop(struct{}) error {
	for _, h := range d.Hooks {
		if err := h.Stop(); err != nil {
			return err
		}
	}
	return nil
}

// Active reports whether any hook of d is active.
func (d Dynamic) Active() bool {
	for _, h := range d.Hooks {
		if HookActive(h) {
			return true
		}
	}
	return false
}
