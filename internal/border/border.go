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

// Package border synthesizes border-extended copies of sample grids, so that
// neighborhood operations can run on edge pixels without special cases.
package border

import (
	"fmt"
	"strings"

	"github.com/mlnoga/rawlight/internal/pixel"
)

// Border extension policy, named after the OpenCV equivalents
type Type int

const (
	Constant   Type = iota // iiiiii|abcdefgh|iiiiiii
	Replicate              // aaaaaa|abcdefgh|hhhhhhh
	Reflect                // fedcba|abcdefgh|hgfedcb
	Wrap                   // cdefgh|abcdefgh|abcdefg
	Reflect101             // gfedcb|abcdefgh|gfedcba
	Isolated               // margin left zero, never read
)

var typeNames = []string{"Constant", "Replicate", "Reflect", "Wrap", "Reflect101", "Isolated"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Parses a border type name, case-insensitively
func ParseType(s string) (Type, error) {
	for i, n := range typeNames {
		if strings.EqualFold(n, s) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("border: unknown border type %q", s)
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(b []byte) (err error) {
	*t, err = ParseType(string(b))
	return err
}

// Returns a copy of image padded by thickness samples on every side, with
// the margin filled according to t. fill is only used for Constant.
//
// Preconditions: len(image)==width*height, thickness>=0. Reflect and
// Reflect101 expect thickness<=min(width,height); beyond that the margin
// content is unspecified, or the call panics on a grid bounds check.
// Wrap cycles through the interior as often as needed.
func Add[T pixel.Number](image []T, width, height, thickness int, t Type, fill T) []T {
	if width < 0 || height < 0 || thickness < 0 {
		panic(fmt.Sprintf("border: invalid size %dx%d thickness %d", width, height, thickness))
	}
	src := pixel.WrapGrid(image, width, height)
	dst := pixel.NewGrid[T](width+2*thickness, height+2*thickness)

	for y := 0; y < height; y++ {
		copy(dst.Row(thickness + y)[thickness:thickness+width], src.Row(y))
	}

	e := extended[T]{Grid: dst, width: width, height: height, t: thickness}
	switch t {
	case Constant:
		e.constant(fill)
	case Replicate:
		e.mirror(func(k int) int { return 0 }, func(k int) int { return 0 })
	case Reflect:
		e.mirror(func(k int) int { return k }, func(k int) int { return k })
	case Reflect101:
		e.mirror(func(k int) int { return k + 1 }, func(k int) int { return k + 1 })
	case Wrap:
		e.wrap()
	case Isolated:
	default:
		panic(fmt.Sprintf("border: unsupported border type %v", t))
	}
	return dst.Data
}

// Returns the interior of an extended grid, i.e. the inverse of Add
func Crop[T any](extended []T, width, height, thickness int) []T {
	src := pixel.WrapGrid(extended, width+2*thickness, height+2*thickness)
	res := make([]T, width*height)
	for y := 0; y < height; y++ {
		copy(res[y*width:(y+1)*width], src.Row(thickness + y)[thickness:thickness+width])
	}
	return res
}

// An extended grid with interior size width x height at offset (t,t)
type extended[T any] struct {
	pixel.Grid[T]
	width, height, t int
}

func (e *extended[T]) constant(fill T) {
	for y := 0; y < e.Height; y++ {
		row := e.Row(y)
		if y < e.t || y >= e.t+e.height {
			for x := range row {
				row[x] = fill
			}
			continue
		}
		for k := 0; k < e.t; k++ {
			row[k] = fill
			row[e.t+e.width+k] = fill
		}
	}
}

// Fills the margin by mirroring. Margin ring k (0 = adjacent to the edge)
// takes the interior row or column at distance off(k) from the edge.
// Rows are filled first over the interior width, then columns over the
// full extended height, which fills the corners.
func (e *extended[T]) mirror(rowOff, colOff func(k int) int) {
	t, w, h := e.t, e.width, e.height
	for k := 0; k < t; k++ {
		copy(e.Row(t-1-k)[t:t+w], e.Row(t + rowOff(k))[t:t+w])
		copy(e.Row(t+h+k)[t:t+w], e.Row(t + h - 1 - rowOff(k))[t:t+w])
	}
	for k := 0; k < t; k++ {
		e.CopyCol(t-1-k, t+colOff(k))
		e.CopyCol(t+w+k, t+w-1-colOff(k))
	}
}

// Fills the margin cyclically. Ring k above the top edge takes interior row
// h-1-(k mod h), ring k below the bottom edge takes row k mod h, and
// likewise for columns.
func (e *extended[T]) wrap() {
	t, w, h := e.t, e.width, e.height
	if t == 0 {
		return
	}
	if w == 0 || h == 0 {
		panic(fmt.Sprintf("border: cannot wrap empty %dx%d image", w, h))
	}
	for k := 0; k < t; k++ {
		copy(e.Row(t-1-k)[t:t+w], e.Row(t + h - 1 - k%h)[t:t+w])
		copy(e.Row(t+h+k)[t:t+w], e.Row(t + k%h)[t:t+w])
	}
	for k := 0; k < t; k++ {
		e.CopyCol(t-1-k, t+w-1-k%w)
		e.CopyCol(t+w+k, t+k%w)
	}
}
