// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

import "io"

// History instantiations of the preset run modes.
type (
	SilentHistory         = History[Silent, struct{}]
	DebugHistory          = History[LinePrinter, struct{}]
	VerboseHistory        = History[VerboseDisplay, struct{}]
	SummaryHistory        = History[Summary, SummaryTable]
	VerboseSummaryHistory = History[VerboseSummaryDisplay, Pair[struct{}, SummaryTable]]
)

// VerboseDisplay is a line printer capped at a nesting depth.
type VerboseDisplay = Filtered[LinePrinter, struct{}]

// VerboseSummaryDisplay prints capped lines and a summary table.
type VerboseSummaryDisplay = Both[VerboseDisplay, struct{}, Summary, SummaryTable]

// Verbose returns a line printer writing to w that shows levels up to maxDepth.
func Verbose(w io.Writer, maxDepth int) VerboseDisplay {
	return VerboseDisplay{Inner: LinePrinter{W: w}, Keep: MaxDepth(maxDepth)}
}

// RunSilent runs body without instrumentation cost beyond sequence counting.
func RunSilent[A any](body func(h *SilentHistory) (A, error), opts ...Option) (A, error) {
	return Run(Silent{}, body, opts...)
}

// RunVerbose prints every step reported at depth maxDepth or shallower to w.
func RunVerbose[A any](w io.Writer, maxDepth int, body func(h *VerboseHistory) (A, error), opts ...Option) (A, error) {
	return Run(Verbose(w, maxDepth), body, opts...)
}

// RunDebug prints every step to w.
func RunDebug[A any](w io.Writer, body func(h *DebugHistory) (A, error), opts ...Option) (A, error) {
	return Run(LinePrinter{W: w}, body, opts...)
}

// RunSummary prints a per-tag summary table to w when body returns.
func RunSummary[A any](w io.Writer, body func(h *SummaryHistory) (A, error), opts ...Option) (A, error) {
	return Run(Summary{W: w}, body, opts...)
}

// RunVerboseSummary combines RunVerbose and RunSummary on the same writer.
func RunVerboseSummary[A any](w io.Writer, maxDepth int, body func(h *VerboseSummaryHistory) (A, error), opts ...Option) (A, error) {
	d := VerboseSummaryDisplay{First: Verbose(w, maxDepth), Second: Summary{W: w}}
	return Run(d, body, opts...)
}
