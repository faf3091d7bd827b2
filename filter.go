// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

// FilterFunc decides whether a reported step reaches a display.
type FilterFunc func(r Record, v Value) bool

// Filtered gates the Step hook of Inner with Keep.
// When Keep returns false the step is skipped: the incoming state is
// returned untouched and no effect is performed. A nil Keep keeps every step.
type Filtered[D Display[D, S], S any] struct {
	Inner D
	Keep  FilterFunc
}

func (f Filtered[D, S]) Start() error { return f.Inner.Start() }

func (f Filtered[D, S]) Step(r Record, s S, v Value) (S, error) {
	if f.Keep != nil && !f.Keep(r, v) {
		return s, nil
	}
	return f.Inner.Step(r, s, v)
}

func (f Filtered[D, S]) Stop(s S) error { return f.Inner.Stop(s) }

// Active reports whether the wrapped display is active.
func (f Filtered[D, S]) Active() bool { return isActive(f.Inner) }

// MaxDepth keeps steps reported at depth n or shallower.
func MaxDepth(n int) FilterFunc {
	return func(r Record, _ Value) bool { return r.Depth <= n }
}

// OnlyNames keeps steps whose value tag is one of names.
func OnlyNames(names ...string) FilterFunc {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(_ Record, v Value) bool {
		_, ok := set[v.Name()]
		return ok
	}
}

// ExceptNames drops steps whose value tag is one of names.
func ExceptNames(names ...string) FilterFunc {
	keep := OnlyNames(names...)
	return func(r Record, v Value) bool { return !keep(r, v) }
}

// AllFilters keeps a step only when every filter keeps it.
// Nil filters are ignored.
func AllFilters(filters ...FilterFunc) FilterFunc {
	return func(r Record, v Value) bool {
		for _, f := range filters {
			if f != nil && !f(r, v) {
				return false
			}
		}
		return true
	}
}
