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

package bayer

import (
	"github.com/mlnoga/rawlight/internal/border"
	"github.com/mlnoga/rawlight/internal/channel"
	"github.com/mlnoga/rawlight/internal/convolve"
	"github.com/mlnoga/rawlight/internal/pixel"
)

// Bilinear kernel for color c: the full diamond for red and blue, the plus for green
func bilinearKernel(c Color) []float64 {
	if c == Green {
		return kernelPlus
	}
	return kernelDiamond
}

func channelOpenCV[T pixel.Number](raw []T, width, height int, p Pattern, c Color, o options) ([]T, error) {
	f := convolve.Convolve(extract(raw, width, height, p, c), width, height, bilinearKernel(c), 3, border.Reflect101)
	patchEdges(f, width, height)
	return narrow[T](f, true, o)
}

// Overwrites the outermost ring with its inner neighbors: the first and
// last rows from the second and second-to-last, then the first and last
// columns likewise over the full height.
func patchEdges(f []float64, width, height int) {
	g := pixel.WrapGrid(f, width, height)
	copy(g.Row(0)[1:width-1], g.Row(1)[1:width-1])
	copy(g.Row(height-1)[1:width-1], g.Row(height-2)[1:width-1])
	g.CopyCol(0, 1)
	g.CopyCol(width-1, width-2)
}

func channelImatest[T pixel.Number](raw []T, width, height int, p Pattern, c Color, o options) ([]T, error) {
	ch := extract(raw, width, height, p, c)
	if c == Green {
		return narrow[T](convolve.Convolve(ch, width, height, kernelPlus, 3, border.Isolated), true, o)
	}
	diag := convolve.Convolve(ch, width, height, kernelX, 3, border.Isolated)
	cross := convolve.Convolve(diag, width, height, kernelCross, 3, border.Isolated)
	return narrow[T](channel.AddInPlace(cross, diag), true, o)
}

func channelLabVIEW[T pixel.Number](raw []T, width, height int, p Pattern, c Color, o options) ([]T, error) {
	f := convolve.Convolve(extract(raw, width, height, p, c), width, height, bilinearKernel(c), 3, border.Reflect101)
	g := pixel.WrapGrid(f, width, height)
	for y := 0; y < height; y++ {
		row := g.Row(y)
		for x := range row {
			row[x] += labVIEWBias(p, c, x, y, width)
		}
	}
	return narrow[T](f, false, o)
}

// Rounding bias at (x,y). Column 1 rounds red and blue half up only on rows
// where that column is green, and never rounds green. The first and last
// columns truncate. Everything else rounds half up.
func labVIEWBias(p Pattern, c Color, x, y, width int) float64 {
	switch {
	case x == 1:
		if c != Green && p.At(1, y) == Green {
			return 0.5
		}
		return 0
	case x == 0 || x == width-1:
		return 0
	}
	return 0.5
}

func channelMATLAB[T pixel.Number](raw []T, width, height int, p Pattern, c Color, o options) ([]T, error) {
	src := border.Add(raw, width, height, 2, border.Reflect101, 0)
	f := make([]float64, len(raw))
	for _, l := range p.Phases(c) {
		if err := channel.Convert2D(raw, f, width, height, l); err != nil {
			return nil, err
		}
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if k := gradientKernels[p][c][y][x]; k != nil {
				convolve.Extended(src, f, width, height, k, 5, 5, pixel.Phase(x, y))
			}
		}
	}
	return narrow[T](f, false, o)
}
