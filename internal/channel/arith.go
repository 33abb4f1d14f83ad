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

package channel

import (
	"fmt"

	"github.com/mlnoga/rawlight/internal/pixel"
	"golang.org/x/exp/constraints"
)

// Returns the element-wise sum of a and b in a new buffer
func Add[T pixel.Number](a, b []T) []T {
	checkLen(len(a), len(b))
	sum := make([]T, len(a))
	for i := range sum {
		sum[i] = a[i] + b[i]
	}
	return sum
}

// Adds source into target element-wise and returns target
func AddInPlace[T pixel.Number](target, source []T) []T {
	checkLen(len(target), len(source))
	for i := range target {
		target[i] += source[i]
	}
	return target
}

// Shifts every sample left by the given number of bits into a new buffer.
// Bits shifted out of T are lost, so callers keep inputs within range.
func ShiftLeft[T constraints.Integer](in []T, bits uint) []T {
	res := make([]T, len(in))
	for i, v := range in {
		res[i] = v << bits
	}
	return res
}

// Converts to T after adding 0.5, i.e. rounds half up for non-negative values.
// Fails with a *pixel.RangeError if a rounded value does not fit into T.
func RoundAndConvert[T pixel.Number](in []float64) ([]T, error) {
	return convert[T](in, 0.5)
}

// Converts to T by truncation. Fails with a *pixel.RangeError if a value
// does not fit into T.
func FloorAndConvert[T pixel.Number](in []float64) ([]T, error) {
	return convert[T](in, 0)
}

func convert[T pixel.Number](in []float64, bias float64) ([]T, error) {
	conv := pixel.NewConverter[T]()
	res := make([]T, len(in))
	for i, v := range in {
		c, ok := conv.Checked(v + bias)
		if !ok {
			return nil, conv.Error(i, v+bias)
		}
		res[i] = c
	}
	return res, nil
}

func checkLen(a, b int) {
	if a != b {
		panic(fmt.Sprintf("channel: buffer lengths %d and %d differ", a, b))
	}
}
