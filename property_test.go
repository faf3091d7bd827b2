// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history_test

import (
	"io"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"code.hybscloud.com/history"
)

const propertyN = 200

// op is one randomly generated body instruction.
type op uint8

const (
	opReport op = iota
	opEnter
	opLeave
	opPhase
)

// randProgram returns a random sequence of instructions.
func randProgram(rng *rand.Rand) []op {
	n := rng.IntN(40)
	prog := make([]op, n)
	for i := range prog {
		prog[i] = op(rng.IntN(4))
	}
	return prog
}

// interpret runs prog against h and returns a trace of every reported value
// with the depth and sequence observed right after reporting it.
// Enter opens a level that lasts until the matching Leave or the end.
func interpret[D history.Display[D, S], S any](h *history.History[D, S], prog []op, rng *rand.Rand) (trace []int, err error) {
	var run func(h *history.History[D, S], i int) (int, error)
	run = func(h *history.History[D, S], i int) (int, error) {
		for i < len(prog) {
			switch prog[i] {
			case opReport:
				v := history.Report(h, history.Scalar(rng.Float64()))
				trace = append(trace, int(v*1000), h.Depth(), history.CurrentIteration(h))
				i++
			case opEnter:
				next, err := history.CollectReports(h, func(h *history.History[D, S]) (int, error) {
					return run(h, i+1)
				})
				if err != nil {
					return next, err
				}
				i = next
			case opPhase:
				next, err := history.BeginFunction(h, "phase", func(h *history.History[D, S]) (int, error) {
					return run(h, i+1)
				})
				if err != nil {
					return next, err
				}
				i = next
			case opLeave:
				return i + 1, nil
			}
		}
		return i, nil
	}
	for i := 0; i < len(prog); {
		if i, err = run(h, i); err != nil {
			return trace, err
		}
	}
	return trace, nil
}

// TestPropertyDisplayTransparency: the body observes the same values,
// depths and sequence numbers under every display.
func TestPropertyDisplayTransparency(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	for range propertyN {
		prog := randProgram(rng)
		seed := rng.Uint64()

		silent, err := history.RunSilent(func(h *history.SilentHistory) ([]int, error) {
			return interpret(h, prog, rand.New(rand.NewPCG(seed, 0)))
		})
		require.NoError(t, err, "silent")
		debug, err := history.RunDebug(io.Discard, func(h *history.DebugHistory) ([]int, error) {
			return interpret(h, prog, rand.New(rand.NewPCG(seed, 0)))
		})
		require.NoError(t, err, "debug")
		summary, err := history.RunVerboseSummary(io.Discard, 2, func(h *history.VerboseSummaryHistory) ([]int, error) {
			return interpret(h, prog, rand.New(rand.NewPCG(seed, 0)))
		})
		require.NoError(t, err, "summary")

		require.Equal(t, silent, debug, "prog=%v", prog)
		require.Equal(t, silent, summary, "prog=%v", prog)
	}
}

// TestPropertySequenceMonotonic: a report either opens its level with
// sequence 0 or follows the previous report at the same depth by one.
func TestPropertySequenceMonotonic(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	for range propertyN {
		prog := randProgram(rng)
		var events []event
		_, err := history.Run(recorder{out: &events}, func(h *recHistory) ([]int, error) {
			return interpret(h, prog, rng)
		})
		require.NoError(t, err)
		last := map[int]int{}
		for i, e := range events {
			d, seq := e.Record.Depth, e.Record.Sequence
			require.True(t, seq == 0 || seq == last[d]+1,
				"event %d at depth %d: sequence %d after %d", i, d, seq, last[d])
			last[d] = seq
		}
	}
}

// TestPropertyStackBalanced: the stack holds only the sentinel after any body.
func TestPropertyStackBalanced(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	for range propertyN {
		prog := randProgram(rng)
		levels, err := history.RunSilent(func(h *history.SilentHistory) (int, error) {
			_, err := interpret(h, prog, rng)
			return h.Levels(), err
		})
		require.NoError(t, err)
		require.Equal(t, 1, levels, "prog=%v", prog)
	}
}
