// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/history/config"
	"code.hybscloud.com/history/optimize"
)

// execute runs histrun with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	for _, k := range []string{config.EnvMode, config.EnvMaxDepth, config.EnvFilter, config.EnvSummary, config.EnvLogLevel} {
		t.Setenv(k, "")
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestMinimizeSilent(t *testing.T) {
	out, logs, err := execute(t, "minimize", "--algo", "newton", "--func", "cosine")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Newton: x=3.14159265"), out)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, logs, "minimize started")
	assert.Contains(t, logs, "minimize finished")
	assert.Contains(t, logs, "run_id=")
}

func TestMinimizeDebug(t *testing.T) {
	out, _, err := execute(t, "minimize", "--algo", "newton", "--func", "cosine", "--mode", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "  Newton  itr=0 elapsed=0s\n")
	assert.Contains(t, out, "    Newton: x=3 fx=")
}

func TestMinimizeVerboseFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: verbose\nmax_depth: 1\n"), 0o644))

	out, _, err := execute(t, "minimize", "--algo", "newton", "--func", "quartic", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "  Newton  itr=0")
	assert.NotContains(t, out, "    Newton:")
}

func TestMinimizeSummary(t *testing.T) {
	out, _, err := execute(t, "minimize", "--algo", "gd", "--func", "quadratic", "--mode", "summary", "--max-iter", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "calls")
	assert.Contains(t, out, "LineSearch")
	assert.Contains(t, out, "Trial")
	assert.Contains(t, out, optimize.GradientDescentName+": x=")
}

func TestMinimizeMetrics(t *testing.T) {
	out, _, err := execute(t, "minimize", "--algo", "cg", "--func", "rosenbrock", "--max-iter", "20", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "history_history_runs_started_total 1")
	assert.Contains(t, out, "history_history_runs_finished_total 1")
	assert.Contains(t, out, `history_history_steps_total{depth="1",name="ConjugateGradient"} 1`)
}

func TestMinimizeJSONLogs(t *testing.T) {
	_, logs, err := execute(t, "--log-format", "json", "minimize", "--algo", "newton", "--func", "cosine")
	require.NoError(t, err)

	var runIDs []string
	sc := bufio.NewScanner(strings.NewReader(logs))
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		id, _ := rec["run_id"].(string)
		runIDs = append(runIDs, id)
	}
	require.Len(t, runIDs, 2)
	assert.Len(t, runIDs[0], 36)
	assert.Equal(t, runIDs[0], runIDs[1])
}

func TestMinimizeErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown algo", []string{"minimize", "--algo", "bfgs"}, errUnknownAlgo},
		{"unknown func", []string{"minimize", "--func", "himmelblau"}, errUnknownFunc},
		{"newton on rosenbrock", []string{"minimize", "--algo", "newton"}, errMismatch},
		{"gd on cosine", []string{"minimize", "--func", "cosine"}, errMismatch},
		{"bad start", []string{"minimize", "--x0", "1,2,3"}, optimize.ErrDimensionMismatch},
		{"bad mode", []string{"minimize", "--mode", "loud"}, config.ErrUnknownMode},
		{"bad filter", []string{"minimize", "--filter", "depth +"}, config.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBadLogFormat(t *testing.T) {
	_, _, err := execute(t, "--log-format", "xml", "minimize")
	assert.ErrorContains(t, err, "invalid --log-format")
}
