// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package slogdisplay_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/history"
	"code.hybscloud.com/history/slogdisplay"
)

// decode returns one map per JSON log line in buf.
func decode(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		records = append(records, m)
	}
	require.NoError(t, sc.Err())
	return records
}

func TestDisplayLogsSteps(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	steps, err := history.Run(slogdisplay.Display{Logger: logger, Level: slog.LevelInfo},
		func(h *slogdisplay.HistoryOf) (int, error) {
			history.Report(h, history.Label("init"))
			_, err := history.BeginFunction(h, "solve", func(h *slogdisplay.HistoryOf) (int, error) {
				history.Report(h, history.Scalar(0.25))
				return 0, nil
			})
			return h.State(), err
		})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	records := decode(t, &buf)
	require.Len(t, records, 5)
	assert.Equal(t, "run started", records[0]["msg"])
	assert.Equal(t, "init", records[1]["name"])
	assert.Equal(t, "solve", records[2]["name"])
	assert.Equal(t, float64(1), records[2]["depth"])

	assert.Equal(t, "step", records[3]["msg"])
	assert.Equal(t, "Scalar", records[3]["name"])
	assert.Equal(t, "0.25", records[3]["value"])
	assert.Equal(t, float64(0), records[3]["itr"])
	assert.Equal(t, float64(2), records[3]["depth"])

	assert.Equal(t, "run finished", records[4]["msg"])
	assert.Equal(t, float64(3), records[4]["steps"])
}

func TestDisplayInactiveBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	d := slogdisplay.Display{Logger: logger, Level: slog.LevelDebug}
	assert.False(t, d.Active())

	_, err := history.Run(d, func(h *slogdisplay.HistoryOf) (int, error) {
		history.Report(h, history.Label("x"))
		return 0, nil
	})
	require.NoError(t, err)
	assert.Zero(t, buf.Len())
}

func TestHookCountsSteps(t *testing.T) {
	var buf bytes.Buffer
	hook := slogdisplay.NewHook(slog.New(slog.NewTextHandler(&buf, nil)), slog.LevelInfo)
	d := history.Dynamic{Hooks: []history.Hook{hook}}

	_, err := history.Run(d, func(h *history.DynamicHistory) (int, error) {
		for i := range 4 {
			history.Report(h, history.Scalar(float64(i)))
		}
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, hook.Steps())
	assert.Contains(t, buf.String(), "msg=\"run finished\" steps=4")
}
