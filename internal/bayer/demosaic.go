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
	"fmt"
	"math"

	"github.com/mlnoga/rawlight/internal/channel"
	"github.com/mlnoga/rawlight/internal/pixel"
)

// Left shift that normalizes 10-bit samples to the full 16-bit range
const shift10To16 = 6

// Demosaicing options
type Option func(*options)

type options struct {
	saturate bool
}

// Clamp reconstructed values into the output range instead of failing.
// Only the gradient-corrected method can overshoot.
func Saturating() Option { return func(o *options) { o.saturate = true } }

// Demosaics an 8-bit mosaic into interleaved BGR32, with the fourth byte of
// every pixel set to 0xff.
func ToBGR32(raw []uint8, width, height int, p Pattern, m Method, opts ...Option) ([]uint8, error) {
	r, g, b, err := Channels(raw, width, height, p, m, opts...)
	if err != nil {
		return nil, err
	}
	return channel.MergeFilled(math.MaxUint8, b, g, r), nil
}

// Demosaics a 10-bit mosaic into interleaved RGB48. Samples are shifted left
// by 6 bits first, so the output spans the full 16-bit range.
func ToRGB48(raw []uint16, width, height int, p Pattern, m Method, opts ...Option) ([]uint16, error) {
	checkArgs(len(raw), width, height, p, m)
	buf := channel.ShiftLeft(raw, shift10To16)
	r, g, b, err := Channels(buf, width, height, p, m, opts...)
	if err != nil {
		return nil, err
	}
	return channel.Merge(r, g, b), nil
}

// Reconstructs full-size red, green and blue channels from a mosaic.
// Panics on invalid arguments. Returns a *pixel.RangeError if a
// reconstructed value does not fit into T, unless Saturating is given.
func Channels[T pixel.Number](raw []T, width, height int, p Pattern, m Method, opts ...Option) (r, g, b []T, err error) {
	checkArgs(len(raw), width, height, p, m)
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var fn func(raw []T, width, height int, p Pattern, c Color, o options) ([]T, error)
	switch m {
	case OpenCV:
		fn = channelOpenCV[T]
	case Imatest:
		fn = channelImatest[T]
	case MATLAB:
		fn = channelMATLAB[T]
	case LabVIEW:
		fn = channelLabVIEW[T]
	}

	// one channel at a time, so intermediate buffers of the previous one can be collected
	res := [3][]T{}
	for c := Red; c <= Blue; c++ {
		if res[c], err = fn(raw, width, height, p, c, o); err != nil {
			return nil, nil, nil, fmt.Errorf("bayer: %v %v channel %v: %w", m, p, c, err)
		}
	}
	return res[Red], res[Green], res[Blue], nil
}

func checkArgs(n, width, height int, p Pattern, m Method) {
	if width < 2 || height < 2 {
		panic(fmt.Sprintf("bayer: image size %dx%d, want at least 2x2", width, height))
	}
	if n != width*height {
		panic(fmt.Sprintf("bayer: mosaic has %d samples; want %dx%d", n, width, height))
	}
	if !p.Valid() {
		panic(fmt.Sprintf("bayer: invalid pattern %d", int(p)))
	}
	if !m.Valid() {
		panic(fmt.Sprintf("bayer: invalid method %d", int(m)))
	}
}

// Copies the native samples of color c into an otherwise zero buffer
func extract[T pixel.Number](raw []T, width, height int, p Pattern, c Color) []T {
	res := make([]T, len(raw))
	for _, l := range p.Phases(c) {
		channel.Copy2D(raw, res, width, height, l)
	}
	return res
}

// Narrows accumulated values into T, rounding half up or truncating
func narrow[T pixel.Number](in []float64, round bool, o options) ([]T, error) {
	if !o.saturate {
		if round {
			return channel.RoundAndConvert[T](in)
		}
		return channel.FloorAndConvert[T](in)
	}
	bias := 0.0
	if round {
		bias = 0.5
	}
	conv := pixel.NewConverter[T]()
	res := make([]T, len(in))
	for i, v := range in {
		res[i] = conv.Saturate(v + bias)
	}
	return res, nil
}
