// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package history provides hierarchical instrumentation for iterative
// numerical algorithms in Go.
//
// An algorithm reports every step of its computation to a [History]. The
// caller decides, when starting the run, which [Display] observes those
// steps: printing them, aggregating a timing summary, exporting metrics, or
// nothing at all. The algorithm's control flow and results never depend on
// the choice.
//
// # Design Philosophy
//
// history provides:
//   - A single reporting primitive, [Report], that returns its argument unchanged
//   - F-bounded polymorphism so each run is specialized for its display
//   - A silent display whose cost is one counter increment per report
//
// # F-Bounded Architecture
//
// [Display] is declared as type Display[D Display[D, S], S any]. A display
// knows its own concrete type and the type S of the accumulator state it
// threads through a run. Because [History] is parameterized by both, the
// compiler specializes every run for its display, and composed displays
// ([Both], [Filtered]) are resolved at compile time.
//
// # Core Operations
//
//   - [Run]: Execute a body under a display and return its result
//   - [Report]: Record a value as the next step of the current level
//   - [CollectReports]: Run a body one nesting level deeper
//   - [BeginFunction]: Run a body as a named phase
//   - [CurrentIteration]: Sequence number of the current level
//
// # Records and Levels
//
// Every open nesting level holds one [Record]: the clock reading of its last
// report, the time elapsed since the report before it, its sequence number
// and its depth. Opening a level pushes a sentinel record with sequence -1;
// the first report of the level turns it into sequence 0. Sentinels never
// reach a display. Levels are closed on every exit path, including panics.
//
// # Iteration
//
//   - [Iterate]: Apply a step function until a stop condition holds
//   - [MaxIterations], [StopBelow], [FX1Grows], [MulTolerance]: Stop conditions
//   - [AnyOf], [AllOf], [Not]: Combinators over stop conditions
//
// Iterate has no bound of its own; always compose [MaxIterations].
//
// # Displays
//
//   - [Silent]: No-op display; Run skips clock reads and hooks entirely
//   - [LinePrinter]: One indented line per step
//   - [Summary]: Calls and average elapsed time per value tag
//   - [Both]: Two displays side by side, state [Pair]
//   - [Filtered]: A display gated by a [FilterFunc]
//   - [Dynamic]: Hooks assembled at run time
//
// # Presets
//
//   - [RunSilent], [RunDebug], [RunVerbose], [RunSummary], [RunVerboseSummary]
//
// # Example
//
//	x, err := history.RunSummary(os.Stderr, func(h *history.SummaryHistory) (history.Scalar, error) {
//		return history.BeginFunction(h, "halve", func(h *history.SummaryHistory) (history.Scalar, error) {
//			half := func(x history.Scalar) (history.Scalar, error) { return x / 2, nil }
//			return history.Iterate(h, half, 1, history.MaxIterations[history.Scalar](10))
//		})
//	})
package history
