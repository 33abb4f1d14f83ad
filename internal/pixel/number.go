// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package pixel holds the element types and the small grid abstractions
// shared by the border, channel, convolve and bayer packages.
package pixel

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"golang.org/x/exp/constraints"
)

// A sample element type. Arithmetic is carried out in float64 and narrowed
// back to the element type with a checked conversion.
type Number interface {
	constraints.Integer | constraints.Float
}

// Returned, wrapped in a *RangeError, when a value does not fit the target type
var ErrOutOfRange = errors.New("pixel: value out of range")

// A failed narrowing conversion at a given buffer index
type RangeError struct {
	Index int
	Value float64
	Type  string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("pixel: value %g at index %d out of range for %s", e.Value, e.Index, e.Type)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// Converts float64 accumulator values into T. Integer targets accept the
// truncated value only if it lies in [lo, hi), floating point targets
// accept anything.
type Converter[T Number] struct {
	lo, hi  float64
	top     float64 // largest float64 below hi
	integer bool
	name    string
}

// Creates a converter for T. Determines the limits once, so hot loops only compare.
func NewConverter[T Number]() Converter[T] {
	var zero T
	t := reflect.TypeOf(zero)
	c := Converter[T]{integer: true, name: t.String()}
	switch t.Kind() {
	case reflect.Int8:
		c.lo, c.hi = math.MinInt8, math.MaxInt8+1
	case reflect.Int16:
		c.lo, c.hi = math.MinInt16, math.MaxInt16+1
	case reflect.Int32:
		c.lo, c.hi = math.MinInt32, math.MaxInt32+1
	case reflect.Int64:
		c.lo, c.hi = math.MinInt64, math.MaxInt64+1
	case reflect.Int:
		c.lo, c.hi = math.MinInt, math.MaxInt+1
	case reflect.Uint8:
		c.lo, c.hi = 0, math.MaxUint8+1
	case reflect.Uint16:
		c.lo, c.hi = 0, math.MaxUint16+1
	case reflect.Uint32:
		c.lo, c.hi = 0, math.MaxUint32+1
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		c.lo, c.hi = 0, math.MaxUint64+1
	default:
		c.integer = false
	}
	c.top = c.hi - 1
	if c.top == c.hi {
		c.top = math.Nextafter(c.hi, 0)
	}
	return c
}

// Truncates v toward zero and converts it to T. Reports false for NaN and
// for values outside the range of an integer T.
func (c Converter[T]) Checked(v float64) (T, bool) {
	if !c.integer {
		return T(v), true
	}
	t := math.Trunc(v)
	if math.IsNaN(t) || t < c.lo || t >= c.hi {
		return 0, false
	}
	return T(t), true
}

// Truncates v toward zero and clamps it into the range of T. NaN maps to zero.
func (c Converter[T]) Saturate(v float64) T {
	if !c.integer {
		return T(v)
	}
	t := math.Trunc(v)
	switch {
	case math.IsNaN(t):
		return 0
	case t < c.lo:
		t = c.lo
	case t >= c.hi:
		t = c.top
	}
	return T(t)
}

// Builds the error for a failed conversion at index i
func (c Converter[T]) Error(i int, v float64) error {
	return &RangeError{Index: i, Value: v, Type: c.name}
}

// Checked conversion of a single value, see Converter.Checked
func Cast[T Number](v float64) (T, error) {
	c := NewConverter[T]()
	res, ok := c.Checked(v)
	if !ok {
		return 0, c.Error(0, v)
	}
	return res, nil
}
