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

package convolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastrand"

	"github.com/mlnoga/rawlight/internal/border"
	"github.com/mlnoga/rawlight/internal/pixel"
)

func identityKernel(size int) []float64 {
	k := make([]float64, size*size)
	k[len(k)/2] = 1
	return k
}

func TestIdentityKernel(t *testing.T) {
	rng := fastrand.RNG{}
	types := []border.Type{border.Constant, border.Replicate, border.Reflect, border.Wrap, border.Reflect101, border.Isolated}
	for _, size := range []int{1, 3, 5} {
		for _, bt := range types {
			w, h := 7, 5
			img := make([]uint16, w*h)
			for i := range img {
				img[i] = uint16(rng.Uint32n(1024))
			}
			got := Convolve(img, w, h, identityKernel(size), size, bt)
			for i, v := range img {
				if got[i] != float64(v) {
					t.Errorf("size %d %v: got[%d]=%g; want %d", size, bt, i, got[i], v)
				}
			}
		}
	}
}

func TestBoxKernelWithConstantBorder(t *testing.T) {
	img := []uint8{1, 2, 3, 4}
	box := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1}
	// every 3x3 footprint covers the whole 2x2 image plus zero margin
	assert.Equal(t, []float64{10, 10, 10, 10}, Convolve(img, 2, 2, box, 3, border.Constant))
}

func TestAsymmetricKernelIsCorrelation(t *testing.T) {
	// 1 2 3 replicated by one sample left and right
	src := []float64{1, 1, 2, 3, 3}
	// picks the right-hand neighbor, i.e. no kernel flip
	k := []float64{0, 0, 1}
	dst := make([]float64, 3)
	Extended(src, dst, 3, 1, k, 3, 1, pixel.Full)
	assert.Equal(t, []float64{2, 3, 3}, dst)
}

func TestExtendedTouchesOnlyLattice(t *testing.T) {
	w, h := 4, 4
	img := make([]uint8, w*h)
	for i := range img {
		img[i] = uint8(i)
	}
	src := border.Add(img, w, h, 1, border.Reflect101, 0)
	dst := make([]float64, w*h)
	for i := range dst {
		dst[i] = -1
	}
	Extended(src, dst, w, h, identityKernel(3), 3, 3, pixel.Phase(1, 0))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := -1.0
			if x%2 == 1 && y%2 == 0 {
				want = float64(img[y*w+x])
			}
			if got := dst[y*w+x]; got != want {
				t.Errorf("dst(%d,%d)=%g; want %g", x, y, got, want)
			}
		}
	}
}

func TestKernelPreconditions(t *testing.T) {
	img := []uint8{1, 2, 3, 4}
	assert.Panics(t, func() { Convolve(img, 2, 2, make([]float64, 4), 2, border.Replicate) })
	assert.Panics(t, func() { Convolve(img, 2, 2, make([]float64, 8), 3, border.Replicate) })
	assert.Panics(t, func() {
		Extended(make([]uint8, 9), make([]float64, 4), 2, 2, identityKernel(3), 3, 3, pixel.Full)
	}, "source of the wrong size")
}
