// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package exprfilter compiles display filters written as boolean
// expr-lang expressions over a reported step.
//
// The expression sees the variables depth, itr, name, value, elapsed
// (seconds), fx1 and has_fx1:
//
//	depth <= 1 && name != "LineSearch"
//	has_fx1 && fx1 < 1e-3
package exprfilter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"code.hybscloud.com/history"
)

// ErrNotBool indicates an expression whose result is not a boolean.
var ErrNotBool = errors.New("exprfilter: expression must evaluate to bool")

// Env is the evaluation environment of a filter expression.
type Env struct {
	Depth   int     `expr:"depth"`
	Itr     int     `expr:"itr"`
	Name    string  `expr:"name"`
	Value   string  `expr:"value"`
	Elapsed float64 `expr:"elapsed"`
	FX1     float64 `expr:"fx1"`
	HasFX1  bool    `expr:"has_fx1"`
}

// EnvOf builds the environment for a step.
func EnvOf(r history.Record, v history.Value) Env {
	env := Env{
		Depth:   r.Depth,
		Itr:     r.Sequence,
		Name:    v.Name(),
		Value:   v.String(),
		Elapsed: r.Elapsed.Seconds(),
	}
	if o, ok := v.(history.Objective); ok {
		env.FX1, env.HasFX1 = o.FX1(), true
	}
	return env
}

// Filter is a compiled filter expression. The zero Filter keeps every step.
type Filter struct {
	source  string
	program *vm.Program
}

// Compile compiles src. An empty or blank src keeps every step.
func Compile(src string) (Filter, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return Filter{}, nil
	}
	program, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		// A source that type-checks without the bool constraint is well
		// formed but yields another type.
		if _, untyped := expr.Compile(src, expr.Env(Env{})); untyped == nil {
			return Filter{}, fmt.Errorf("%w: %q", ErrNotBool, src)
		}
		return Filter{}, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return Filter{source: src, program: program}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) Filter {
	f, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the source of f.
func (f Filter) String() string { return f.source }

// Eval evaluates f against a step.
func (f Filter) Eval(r history.Record, v history.Value) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, EnvOf(r, v))
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.source, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%w (got %T)", ErrNotBool, out)
	}
	return b, nil
}

// Keep reports whether a step passes f. A step whose evaluation fails is
// dropped.
func (f Filter) Keep(r history.Record, v history.Value) bool {
	ok, err := f.Eval(r, v)
	return err == nil && ok
}

// Func returns f as a [history.FilterFunc]. The zero Filter returns nil,
// which keeps every step.
func (f Filter) Func() history.FilterFunc {
	if f.program == nil {
		return nil
	}
	return f.Keep
}
