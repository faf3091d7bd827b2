// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

import (
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SummaryEntry aggregates the steps reported under one tag.
type SummaryEntry struct {
	Calls int
	Total time.Duration
}

// Average returns Total/Calls, or zero for an empty entry.
func (e SummaryEntry) Average() time.Duration {
	if e.Calls == 0 {
		return 0
	}
	return e.Total / time.Duration(e.Calls)
}

// SummaryTable maps value tags to their aggregates.
type SummaryTable map[string]SummaryEntry

// Add counts one step of elapsed duration under name.
// Add on a nil table allocates and returns a new table.
func (t SummaryTable) Add(name string, elapsed time.Duration) SummaryTable {
	if t == nil {
		t = make(SummaryTable)
	}
	e := t[name]
	e.Calls++
	e.Total += elapsed
	t[name] = e
	return t
}

// Names returns the tags in sorted order.
func (t SummaryTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var summaryHeader = [3]string{"name", "calls", "average"}

// Render writes the table to w: one row per tag sorted by tag, with the
// columns name, calls and average elapsed time. Each column is as wide as
// its widest cell, header included.
func (t SummaryTable) Render(w io.Writer) error {
	rows := make([][3]string, 0, len(t)+1)
	rows = append(rows, summaryHeader)
	for _, name := range t.Names() {
		e := t[name]
		rows = append(rows, [3]string{name, strconv.Itoa(e.Calls), e.Average().String()})
	}

	var widths [3]int
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	styles := [3]lipgloss.Style{
		lipgloss.NewStyle().Width(widths[0]),
		lipgloss.NewStyle().Width(widths[1]).Align(lipgloss.Right),
		lipgloss.NewStyle().Width(widths[2]).Align(lipgloss.Right),
	}

	var b strings.Builder
	for i, row := range rows {
		for j, cell := range row {
			if j > 0 {
				b.WriteString("  ")
			}
			b.WriteString(styles[j].Render(cell))
		}
		b.WriteByte('\n')
		if i == 0 {
			for j, n := range widths {
				if j > 0 {
					b.WriteString("  ")
				}
				b.WriteString(strings.Repeat("-", n))
			}
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Summary aggregates call counts and average elapsed time per value tag
// and renders the table to W (os.Stdout when nil) when the run stops.
type Summary struct {
	W io.Writer
}

func (Summary) Start() error { return nil }

func (Summary) Step(r Record, s SummaryTable, v Value) (SummaryTable, error) {
	return s.Add(v.Name(), r.Elapsed), nil
}

func (d Summary) Stop(s SummaryTable) error {
	w := d.W
	if w == nil {
		w = os.Stdout
	}
	return s.Render(w)
}
