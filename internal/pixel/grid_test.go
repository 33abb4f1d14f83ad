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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridAccess(t *testing.T) {
	g := WrapGrid([]int{0, 1, 2, 3, 4, 5}, 3, 2)
	assert.Equal(t, 4, g.At(1, 1))
	g.Set(2, 0, 9)
	assert.Equal(t, []int{0, 1, 9}, g.Row(0))
	assert.Equal(t, 5, g.Index(2, 1))
}

func TestGridBoundsChecked(t *testing.T) {
	g := NewGrid[uint8](3, 2)
	// (3,0) is inside the buffer but outside the grid
	assert.Panics(t, func() { g.At(3, 0) })
	assert.Panics(t, func() { g.At(-1, 1) })
	assert.Panics(t, func() { g.At(0, 2) })
	assert.Panics(t, func() { g.Row(2) })
	assert.Panics(t, func() { WrapGrid(make([]uint8, 5), 3, 2) })
}

func TestGridCopyCol(t *testing.T) {
	g := WrapGrid([]int{1, 2, 3, 4, 5, 6}, 3, 2)
	g.CopyCol(0, 2)
	assert.Equal(t, []int{3, 2, 3, 6, 5, 6}, g.Data)
	assert.Panics(t, func() { g.CopyCol(3, 0) })
}

func TestLatticeCount(t *testing.T) {
	tcs := []struct {
		l    Lattice
		w, h int
		want int
	}{
		{Full, 5, 3, 15},
		{Phase(0, 0), 5, 3, 6},
		{Phase(1, 0), 5, 3, 4},
		{Phase(1, 1), 5, 3, 2},
		{Phase(1, 1), 1, 1, 0},
		{Phase(0, 0), 1, 1, 1},
	}
	for _, tc := range tcs {
		if got := tc.l.Count(tc.w, tc.h); got != tc.want {
			t.Errorf("%+v.Count(%d,%d)=%d; want %d", tc.l, tc.w, tc.h, got, tc.want)
		}
	}
	assert.Panics(t, func() { Lattice{StrideX: 0, StrideY: 1}.Validate() })
}
