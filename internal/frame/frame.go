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

// Package frame holds mosaics and demosaiced images together with their
// metadata, and converts them into standard library images for export.
package frame

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/mlnoga/rawlight/internal/stats"
)

// Sample layout of a frame
type Format int

const (
	Mosaic8  Format = iota // one uint8 per pixel
	Mosaic16               // one uint16 per pixel
	BGR32                  // uint8 B,G,R,0xff per pixel
	RGB48                  // uint16 R,G,B per pixel
)

var formatNames = [...]string{"mosaic8", "mosaic16", "bgr32", "rgb48"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Interleaved samples per pixel
func (f Format) Channels() int {
	switch f {
	case BGR32:
		return 4
	case RGB48:
		return 3
	}
	return 1
}

// Channel layout in the notation of stats.Calc
func (f Format) layout() string {
	switch f {
	case BGR32:
		return "BGRx"
	case RGB48:
		return "RGB"
	}
	return "Y"
}

// A mosaic or demosaiced image. Exactly one of Data8 and Data16 is set,
// depending on the format.
type Frame struct {
	ID       int          // Sequential ID, for log output
	FileName string       // Source file, if any
	Width    int          // Width in pixels
	Height   int          // Height in pixels
	Format   Format       // Sample layout
	Data8    []uint8      // Samples for Mosaic8 and BGR32
	Data16   []uint16     // Samples for Mosaic16 and RGB48
	Stats    *stats.Stats // Channel statistics, calculated on demand
}

// Creates a frame over the given 8-bit data. Panics if the length does not match.
func New8(id int, fileName string, width, height int, format Format, data []uint8) *Frame {
	f := &Frame{ID: id, FileName: fileName, Width: width, Height: height, Format: format, Data8: data}
	if format != Mosaic8 && format != BGR32 {
		panic(fmt.Sprintf("frame: format %v does not hold 8-bit samples", format))
	}
	f.checkLen(len(data))
	return f
}

// Creates a frame over the given 16-bit data. Panics if the length does not match.
func New16(id int, fileName string, width, height int, format Format, data []uint16) *Frame {
	f := &Frame{ID: id, FileName: fileName, Width: width, Height: height, Format: format, Data16: data}
	if format != Mosaic16 && format != RGB48 {
		panic(fmt.Sprintf("frame: format %v does not hold 16-bit samples", format))
	}
	f.checkLen(len(data))
	return f
}

func (f *Frame) checkLen(n int) {
	if want := f.Width * f.Height * f.Format.Channels(); n != want {
		panic(fmt.Sprintf("frame: %d samples for %dx%d %v; want %d", n, f.Width, f.Height, f.Format, want))
	}
}

// True for single-channel mosaics
func (f *Frame) IsMosaic() bool { return f.Format == Mosaic8 || f.Format == Mosaic16 }

// Returns image dimensions as a string, e.g. "640x480 rgb48"
func (f *Frame) DimensionsToString() string {
	return fmt.Sprintf("%dx%d %v", f.Width, f.Height, f.Format)
}

// Calculates the channel statistics and stores them in f.Stats
func (f *Frame) CalcStats() *stats.Stats {
	if f.Data16 != nil {
		f.Stats = stats.Calc(f.Data16, f.Format.layout(), math.MaxUint16)
	} else {
		f.Stats = stats.Calc(f.Data8, f.Format.layout(), math.MaxUint8)
	}
	return f.Stats
}

// Converts the frame into a standard library image sharing no memory with it.
// Mosaics become gray images, BGR32 becomes RGBA and RGB48 becomes RGBA64.
func (f *Frame) Image() image.Image {
	r := image.Rect(0, 0, f.Width, f.Height)
	switch f.Format {
	case Mosaic8:
		img := image.NewGray(r)
		copy(img.Pix, f.Data8)
		return img

	case Mosaic16:
		img := image.NewGray16(r)
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				img.SetGray16(x, y, color.Gray16{Y: f.Data16[y*f.Width+x]})
			}
		}
		return img

	case BGR32:
		img := image.NewRGBA(r)
		for i := 0; i < len(f.Data8); i += 4 {
			img.Pix[i+0] = f.Data8[i+2]
			img.Pix[i+1] = f.Data8[i+1]
			img.Pix[i+2] = f.Data8[i+0]
			img.Pix[i+3] = f.Data8[i+3]
		}
		return img

	case RGB48:
		img := image.NewRGBA64(r)
		for y := 0; y < f.Height; y++ {
			yoffset := y * f.Width
			for x := 0; x < f.Width; x++ {
				i := (yoffset + x) * 3
				c := color.RGBA64{f.Data16[i], f.Data16[i+1], f.Data16[i+2], math.MaxUint16}
				img.SetRGBA64(x, y, c)
			}
		}
		return img
	}
	panic(fmt.Sprintf("frame: unsupported format %v", f.Format))
}
