// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package slogdisplay provides a display that emits one structured log
// record per reported step through log/slog.
package slogdisplay

import (
	"context"
	"log/slog"

	"code.hybscloud.com/history"
)

// Display logs every step to Logger (slog.Default when nil) at Level.
// Its state counts the logged steps.
//
// Each step record carries the attributes name, value, itr, depth and
// elapsed. Run boundaries are logged as "run started" and "run finished".
type Display struct {
	Logger *slog.Logger
	Level  slog.Level
}

// HistoryOf is the History instantiation for Display.
type HistoryOf = history.History[Display, int]

func (d Display) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d Display) Start() error {
	d.logger().LogAttrs(context.Background(), d.Level, "run started")
	return nil
}

func (d Display) Step(r history.Record, n int, v history.Value) (int, error) {
	d.logger().LogAttrs(context.Background(), d.Level, "step",
		slog.String("name", v.Name()),
		slog.String("value", v.String()),
		slog.Int("itr", r.Sequence),
		slog.Int("depth", r.Depth),
		slog.Duration("elapsed", r.Elapsed),
	)
	return n + 1, nil
}

func (d Display) Stop(n int) error {
	d.logger().LogAttrs(context.Background(), d.Level, "run finished", slog.Int("steps", n))
	return nil
}

// Active reports whether the logger would emit records at Level.
// A display whose level is disabled costs nothing.
func (d Display) Active() bool {
	return d.logger().Enabled(context.Background(), d.Level)
}

// Hook is a [history.Hook] logging every step, for use in a [history.Dynamic].
type Hook struct {
	Display
	steps int
}

// NewHook returns a hook logging to logger at level.
func NewHook(logger *slog.Logger, level slog.Level) *Hook {
	return &Hook{Display: Display{Logger: logger, Level: level}}
}

func (h *Hook) Start() error {
	h.steps = 0
	return h.Display.Start()
}

func (h *Hook) Step(r history.Record, v history.Value) error {
	n, err := h.Display.Step(r, h.steps, v)
	h.steps = n
	return err
}

func (h *Hook) Stop() error { return h.Display.Stop(h.steps) }

// Steps returns the number of steps logged since Start.
func (h *Hook) Steps() int { return h.steps }
