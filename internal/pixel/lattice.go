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

// A sub-lattice of grid positions: x = StartX, StartX+StrideX, ... and
// likewise for y. Used to address a single CFA phase without materializing
// a sparse mask.
type Lattice struct {
	StartX, StartY   int
	StrideX, StrideY int
}

// Every position of the grid
var Full = Lattice{StartX: 0, StartY: 0, StrideX: 1, StrideY: 1}

// The positions of one phase of a repeating 2x2 pattern
func Phase(x, y int) Lattice {
	return Lattice{StartX: x, StartY: y, StrideX: 2, StrideY: 2}
}

// Panics unless starts are non-negative and strides positive
func (l Lattice) Validate() {
	if l.StartX < 0 || l.StartY < 0 || l.StrideX < 1 || l.StrideY < 1 {
		panic(fmt.Sprintf("pixel: invalid lattice %+v", l))
	}
}

// Number of lattice positions inside a width x height grid
func (l Lattice) Count(width, height int) int {
	l.Validate()
	if l.StartX >= width || l.StartY >= height {
		return 0
	}
	nx := (width - l.StartX + l.StrideX - 1) / l.StrideX
	ny := (height - l.StartY + l.StrideY - 1) / l.StrideY
	return nx * ny
}
