// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/history"
)

func half(x history.Scalar) (history.Scalar, error) { return x / 2, nil }

func TestMaxIterationsStepCount(t *testing.T) {
	for n := 1; n <= 6; n++ {
		calls := 0
		step := func(x history.Scalar) (history.Scalar, error) {
			calls++
			return x + 1, nil
		}
		got, err := history.RunSilent(func(h *history.SilentHistory) (history.Scalar, error) {
			return history.CollectReports(h, func(h *history.SilentHistory) (history.Scalar, error) {
				return history.Iterate(h, step, 0, history.MaxIterations[history.Scalar](n))
			})
		})
		require.NoError(t, err)
		assert.Equal(t, n, calls, "n=%d", n)
		assert.Equal(t, history.Scalar(n), got, "n=%d", n)
	}
}

func TestMaxIterationsZeroStepsOnce(t *testing.T) {
	calls := 0
	step := func(x history.Scalar) (history.Scalar, error) {
		calls++
		return x, nil
	}
	_, err := history.RunSilent(func(h *history.SilentHistory) (history.Scalar, error) {
		return history.Iterate(h, step, 0, history.MaxIterations[history.Scalar](0))
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestIterateReportsEveryValueOnce(t *testing.T) {
	var events []event
	_, err := history.Run(recorder{out: &events}, func(h *recHistory) (history.Scalar, error) {
		return history.BeginFunction(h, "halve", func(h *recHistory) (history.Scalar, error) {
			return history.Iterate(h, half, 8, history.MaxIterations[history.Scalar](3))
		})
	})
	require.NoError(t, err)

	var texts []string
	for _, e := range events {
		texts = append(texts, e.Text)
	}
	assert.Equal(t, []string{"halve", "8", "4", "2", "1"}, texts)
	for i, e := range events[1:] {
		assert.Equal(t, i, e.Record.Sequence)
		assert.Equal(t, 2, e.Record.Depth)
	}
}

func TestIterateStopReceivesCurrentRecord(t *testing.T) {
	var seen []int
	var stop history.StopCondition[history.Scalar] = func(r history.Record, prev, curr history.Scalar) bool {
		seen = append(seen, r.Sequence)
		return curr < 1
	}
	got, err := history.RunSilent(func(h *history.SilentHistory) (history.Scalar, error) {
		return history.Iterate(h, half, 4, stop)
	})
	require.NoError(t, err)
	assert.Equal(t, history.Scalar(0.5), got)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestIterateStepError(t *testing.T) {
	errDiverged := errors.New("diverged")
	step := func(x history.Scalar) (history.Scalar, error) {
		if x > 3 {
			return 0, errDiverged
		}
		return x + 1, nil
	}
	got, err := history.RunSilent(func(h *history.SilentHistory) (history.Scalar, error) {
		return history.Iterate(h, step, 0, history.MaxIterations[history.Scalar](100))
	})
	assert.ErrorIs(t, err, errDiverged)
	assert.Equal(t, history.Scalar(4), got)

	got, err = history.RunSilent(func(h *history.SilentHistory) (history.Scalar, error) {
		return history.Iterate(h, step, 10, history.MaxIterations[history.Scalar](100))
	})
	assert.ErrorIs(t, err, errDiverged)
	assert.Equal(t, history.Scalar(10), got)
}

func TestIterateNilArguments(t *testing.T) {
	_, err := history.RunSilent(func(h *history.SilentHistory) (history.Scalar, error) {
		return history.Iterate(h, nil, history.Scalar(1), history.MaxIterations[history.Scalar](1))
	})
	assert.ErrorIs(t, err, history.ErrNilStep)

	_, err = history.RunSilent(func(h *history.SilentHistory) (history.Scalar, error) {
		return history.Iterate(h, half, 1, nil)
	})
	assert.ErrorIs(t, err, history.ErrNilStop)
}

func TestMulTolerance(t *testing.T) {
	stop := history.MulTolerance[history.Scalar](1e-6)
	r := history.Record{Sequence: 1}

	assert.True(t, stop(r, 10, 10+1e-10))
	assert.False(t, stop(r, 10, 11))
	assert.True(t, stop(r, 0, 0))
	assert.False(t, stop(r, history.Scalar(math.Inf(1)), 1))
	assert.False(t, stop(r, history.Scalar(math.NaN()), 1))
}

func TestStopBelowAndFX1Grows(t *testing.T) {
	r := history.Record{}
	below := history.StopBelow[history.Scalar](0.1)
	assert.True(t, below(r, 1, 0.05))
	assert.False(t, below(r, 0.05, 0.1))

	grows := history.FX1Grows[history.Scalar]()
	assert.True(t, grows(r, 1, 2))
	assert.False(t, grows(r, 2, 2))
	assert.False(t, grows(r, 2, 1))
}

func TestStopCombinators(t *testing.T) {
	r := history.Record{Sequence: 5}
	var yes history.StopCondition[history.Scalar] = func(history.Record, history.Scalar, history.Scalar) bool { return true }
	no := history.Not(yes)
	evaluated := false
	var probe history.StopCondition[history.Scalar] = func(history.Record, history.Scalar, history.Scalar) bool {
		evaluated = true
		return true
	}

	assert.False(t, no(r, 0, 0))
	assert.True(t, history.AnyOf(no, yes)(r, 0, 0))
	assert.False(t, history.AnyOf[history.Scalar]()(r, 0, 0))
	assert.True(t, history.AllOf[history.Scalar]()(r, 0, 0))

	assert.True(t, history.AnyOf(yes, probe)(r, 0, 0))
	assert.False(t, evaluated)
	assert.False(t, history.AllOf(no, probe)(r, 0, 0))
	assert.False(t, evaluated)

	assert.True(t, history.AnyOf(history.MaxIterations[history.Scalar](5), no)(r, 0, 0))
	assert.False(t, history.AllOf(history.MaxIterations[history.Scalar](6), yes)(r, 0, 0))
}

func TestIterateConverges(t *testing.T) {
	sqrt2 := func(x history.Scalar) (history.Scalar, error) {
		return (x + 2/x) / 2, nil
	}
	stop := history.AnyOf(
		history.MaxIterations[history.Scalar](50),
		history.MulTolerance[history.Scalar](1e-12),
	)
	got, err := history.RunSilent(func(h *history.SilentHistory) (history.Scalar, error) {
		return history.CollectReports(h, func(h *history.SilentHistory) (history.Scalar, error) {
			return history.Iterate(h, sqrt2, 1, stop)
		})
	})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, float64(got), 1e-12)
}
