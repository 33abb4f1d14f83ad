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

// Package channel splits, converts and interleaves per-channel sample buffers.
package channel

import (
	"fmt"

	"github.com/mlnoga/rawlight/internal/pixel"
)

// Copies the samples on lattice l from src to dst. Both buffers hold width x height samples.
func Copy2D[T any](src, dst []T, width, height int, l pixel.Lattice) {
	s, d := pixel.WrapGrid(src, width, height), pixel.WrapGrid(dst, width, height)
	l.Validate()
	for y := l.StartY; y < height; y += l.StrideY {
		srow, drow := s.Row(y), d.Row(y)
		for x := l.StartX; x < width; x += l.StrideX {
			drow[x] = srow[x]
		}
	}
}

// Like Copy2D, but converts each sample from S to D. Stops at the first
// sample that does not fit into D and returns a *pixel.RangeError.
func Convert2D[S, D pixel.Number](src []S, dst []D, width, height int, l pixel.Lattice) error {
	s, d := pixel.WrapGrid(src, width, height), pixel.WrapGrid(dst, width, height)
	l.Validate()
	conv := pixel.NewConverter[D]()
	for y := l.StartY; y < height; y += l.StrideY {
		srow, drow := s.Row(y), d.Row(y)
		for x := l.StartX; x < width; x += l.StrideX {
			v := float64(srow[x])
			c, ok := conv.Checked(v)
			if !ok {
				return conv.Error(y*width+x, v)
			}
			drow[x] = c
		}
	}
	return nil
}

// Interleaves equally long channels, cycling the channel index fastest
func Merge[T any](channels ...[]T) []T {
	n := checkChannels(channels)
	k := len(channels)
	res := make([]T, n*k)
	for c, ch := range channels {
		for i, v := range ch {
			res[i*k+c] = v
		}
	}
	return res
}

// Interleaves channels like Merge, and appends the constant filling as one
// extra trailing channel, e.g. the reserved byte of BGR32.
func MergeFilled[T any](filling T, channels ...[]T) []T {
	n := checkChannels(channels)
	k := len(channels) + 1
	res := make([]T, n*k)
	for c, ch := range channels {
		for i, v := range ch {
			res[i*k+c] = v
		}
	}
	for i := k - 1; i < len(res); i += k {
		res[i] = filling
	}
	return res
}

// De-interleaves a buffer of k channels into k separate buffers
func Split[T any](interleaved []T, k int) [][]T {
	if k < 1 || len(interleaved)%k != 0 {
		panic(fmt.Sprintf("channel: cannot split %d samples into %d channels", len(interleaved), k))
	}
	n := len(interleaved) / k
	res := make([][]T, k)
	for c := range res {
		ch := make([]T, n)
		for i := range ch {
			ch[i] = interleaved[i*k+c]
		}
		res[c] = ch
	}
	return res
}

func checkChannels[T any](channels [][]T) int {
	if len(channels) == 0 {
		panic("channel: no channels to merge")
	}
	n := len(channels[0])
	for i, ch := range channels {
		if len(ch) != n {
			panic(fmt.Sprintf("channel: channel %d has %d samples; want %d", i, len(ch), n))
		}
	}
	return n
}
