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

package pixel

import "fmt"

// A rectangular row-major view onto a flat buffer. Access through At and Set
// is bounds-checked in both dimensions, not just against the buffer length.
type Grid[T any] struct {
	Data   []T
	Width  int
	Height int
}

// Allocates a zeroed grid
func NewGrid[T any](width, height int) Grid[T] {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("pixel: invalid grid size %dx%d", width, height))
	}
	return Grid[T]{Data: make([]T, width*height), Width: width, Height: height}
}

// Wraps an existing buffer without copying. Panics if the length does not match.
func WrapGrid[T any](data []T, width, height int) Grid[T] {
	if width < 0 || height < 0 || len(data) != width*height {
		panic(fmt.Sprintf("pixel: buffer of length %d does not hold %dx%d samples", len(data), width, height))
	}
	return Grid[T]{Data: data, Width: width, Height: height}
}

// Returns the buffer index of (x,y)
func (g Grid[T]) Index(x, y int) int {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		panic(fmt.Sprintf("pixel: (%d,%d) outside %dx%d grid", x, y, g.Width, g.Height))
	}
	return y*g.Width + x
}

func (g Grid[T]) At(x, y int) T { return g.Data[g.Index(x, y)] }

func (g Grid[T]) Set(x, y int, v T) { g.Data[g.Index(x, y)] = v }

// Returns row y as a subslice sharing the grid's buffer
func (g Grid[T]) Row(y int) []T {
	if y < 0 || y >= g.Height {
		panic(fmt.Sprintf("pixel: row %d outside %dx%d grid", y, g.Width, g.Height))
	}
	return g.Data[y*g.Width : (y+1)*g.Width]
}

// Copies column srcX onto column dstX for all rows
func (g Grid[T]) CopyCol(dstX, srcX int) {
	g.Index(dstX, 0)
	g.Index(srcX, 0)
	for i := 0; i < len(g.Data); i += g.Width {
		g.Data[i+dstX] = g.Data[i+srcX]
	}
}
