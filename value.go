// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package history

import (
	"fmt"
	"strconv"
)

// Value is the interface for reportable payloads.
// The engine treats values as opaque beyond a stable tag and a rendering.
//
// Name is used as the summary key, String as the display text.
type Value interface {
	Name() string
	String() string
}

// Objective is implemented by values that carry a scalar objective,
// the quantity stop conditions compare between iterations.
type Objective interface {
	Value
	FX1() float64
}

// Point is implemented by values that carry the current location of an
// algorithm in its search space.
type Point[X any] interface {
	Value
	X1() X
}

// Label is a reportable phase name.
// Its tag is the label text itself, so a summary groups labels by text.
type Label string

func (l Label) Name() string   { return string(l) }
func (l Label) String() string { return string(l) }

// Scalar is a reportable float64.
// It is its own objective and its own point.
type Scalar float64

func (Scalar) Name() string     { return "Scalar" }
func (x Scalar) String() string { return strconv.FormatFloat(float64(x), 'g', -1, 64) }
func (x Scalar) FX1() float64   { return float64(x) }
func (x Scalar) X1() float64    { return float64(x) }

// Tagged attaches an explicit tag to an arbitrary payload.
//
// Example:
//
//	history.Report(h, history.Tagged[[]float64]{Tag: "gradient", Value: g})
type Tagged[T any] struct {
	Tag   string
	Value T
}

func (t Tagged[T]) Name() string   { return t.Tag }
func (t Tagged[T]) String() string { return fmt.Sprint(t.Value) }
