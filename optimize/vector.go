// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"
	"strconv"
	"strings"
)

// Vector is a point or direction in R^n.
type Vector []float64

// Clone returns a copy of v.
func (v Vector) Clone() Vector { return append(Vector(nil), v...) }

// Dot returns the inner product of v and w. The vectors must have equal length.
func (v Vector) Dot(w Vector) float64 {
	var s float64
	for i, x := range v {
		s += x * w[i]
	}
	return s
}

// Norm returns the Euclidean norm of v.
func (v Vector) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Scale returns a·v.
func (v Vector) Scale(a float64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = a * x
	}
	return out
}

// AddScaled returns v + a·w.
func (v Vector) AddScaled(a float64, w Vector) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x + a*w[i]
	}
	return out
}

// String formats v with six significant digits per component.
func (v Vector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(x, 'g', 6, 64))
	}
	b.WriteByte(']')
	return b.String()
}
