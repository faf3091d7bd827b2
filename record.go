// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

import "time"

// Record describes one instrumented step.
// A Record is a value; the History replaces the record of the current
// level on every report instead of mutating it in place.
type Record struct {
	// Start is the clock reading taken when the record was created.
	Start time.Time

	// Elapsed is the time since the previous report at the same level.
	// It is zero for the first report of a level.
	Elapsed time.Duration

	// Sequence counts reports at this level since the level was opened.
	// The value -1 marks the sentinel that opens a level; sentinels are
	// never passed to a display.
	Sequence int

	// Depth is the nesting level, 0 at the top.
	Depth int
}

// IsSentinel reports whether r is a level-opening sentinel.
func (r Record) IsSentinel() bool { return r.Sequence < 0 }

// reportStack holds one Record per open level, innermost level last.
type reportStack []Record

// stackUnderflow panics on a push/pop imbalance.
// Extracted as a noinline function so that the stack accessors remain inlineable.
//
//go:noinline
func stackUnderflow(op string) {
	panic("history: report stack underflow in " + op)
}

// top returns the record of the innermost level.
func (s reportStack) top(op string) *Record {
	if len(s) == 0 {
		stackUnderflow(op)
	}
	return &s[len(s)-1]
}

// push opens a level whose sentinel starts at start.
func (s *reportStack) push(start time.Time) {
	depth := s.top("push").Depth + 1
	*s = append(*s, Record{Start: start, Sequence: -1, Depth: depth})
}

// pop closes the innermost level. The top-level sentinel is never popped.
func (s *reportStack) pop() {
	if len(*s) <= 1 {
		stackUnderflow("pop")
	}
	*s = (*s)[:len(*s)-1]
}
