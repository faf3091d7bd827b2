// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// LinePrinter writes one line per reported step to W (os.Stdout when nil).
//
// Lines are indented two spaces per depth level:
//
//	GradientDescent  itr=0 elapsed=0s
//	  GradientDescent: x=[1 1] fx=0  itr=3 elapsed=12µs
//
// A value whose rendering equals its tag, such as a [Label], is printed once.
type LinePrinter struct {
	W io.Writer
}

func (LinePrinter) Start() error { return nil }

func (p LinePrinter) Step(r Record, s struct{}, v Value) (struct{}, error) {
	w := p.W
	if w == nil {
		w = os.Stdout
	}
	name, text := v.Name(), v.String()
	if text != name {
		text = name + ": " + text
	}
	_, err := fmt.Fprintf(w, "%s%s  itr=%d elapsed=%s\n", strings.Repeat("  ", r.Depth), text, r.Sequence, r.Elapsed)
	return s, err
}

func (LinePrinter) Stop(struct{}) error { return nil }
