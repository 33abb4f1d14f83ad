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

// Package convolve correlates sample grids with small odd-sized kernels.
package convolve

import (
	"fmt"

	"github.com/mlnoga/rawlight/internal/border"
	"github.com/mlnoga/rawlight/internal/pixel"
)

// Correlates image with a kernelSize x kernelSize kernel. Extends the image by
// kernelSize/2 using the given border type first, so the result has the
// same size as the input. kernelSize must be odd.
func Convolve[T pixel.Number](image []T, width, height int, kernel []float64, kernelSize int, bt border.Type) []float64 {
	checkKernel(kernel, kernelSize, kernelSize)
	src := border.Add(image, width, height, kernelSize/2, bt, 0)
	dst := make([]float64, width*height)
	Extended(src, dst, width, height, kernel, kernelSize, kernelSize, pixel.Full)
	return dst
}

// Correlates an already extended source with a kernelWidth x kernelHeight
// kernel, for the destination positions on lattice l only. Other positions
// of dst are left untouched, so callers can fill one CFA phase per call.
//
// The source must be (dstWidth+kernelWidth-1) x (dstHeight+kernelHeight-1).
// Sums are accumulated in float64 regardless of T.
func Extended[T pixel.Number](src []T, dst []float64, dstWidth, dstHeight int, kernel []float64, kernelWidth, kernelHeight int, l pixel.Lattice) {
	checkKernel(kernel, kernelWidth, kernelHeight)
	l.Validate()
	srcWidth := dstWidth + kernelWidth - 1
	s := pixel.WrapGrid(src, srcWidth, dstHeight+kernelHeight-1)
	d := pixel.WrapGrid(dst, dstWidth, dstHeight)

	for y := l.StartY; y < dstHeight; y += l.StrideY {
		drow := d.Row(y)
		for x := l.StartX; x < dstWidth; x += l.StrideX {
			drow[x] = unit(s, x, y, kernel, kernelWidth, kernelHeight)
		}
	}
}

// Weighted sum of the kernel footprint with top left corner at (x,y)
func unit[T pixel.Number](s pixel.Grid[T], x, y int, kernel []float64, kw, kh int) float64 {
	sum := 0.0
	k := 0
	for j := 0; j < kh; j++ {
		row := s.Row(y + j)[x : x+kw]
		for _, v := range row {
			sum += kernel[k] * float64(v)
			k++
		}
	}
	return sum
}

func checkKernel(kernel []float64, kw, kh int) {
	if kw < 1 || kw%2 == 0 {
		panic(fmt.Sprintf("convolve: kernel width %d is not odd", kw))
	}
	if kh < 1 || kh%2 == 0 {
		panic(fmt.Sprintf("convolve: kernel height %d is not odd", kh))
	}
	if len(kernel) != kw*kh {
		panic(fmt.Sprintf("convolve: kernel has %d weights; want %dx%d", len(kernel), kw, kh))
	}
}
