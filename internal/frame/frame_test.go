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

package frame

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastrand"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func randomFrame8(w, h int, format Format) *Frame {
	data := make([]uint8, w*h*format.Channels())
	for i := range data {
		data[i] = uint8(fastrand.Uint32n(256))
	}
	if format == BGR32 {
		for i := 3; i < len(data); i += 4 {
			data[i] = 0xff
		}
	}
	return New8(1, "", w, h, format, data)
}

func rgb8(c color.Color) [3]uint32 {
	r, g, b, _ := c.RGBA()
	return [3]uint32{r >> 8, g >> 8, b >> 8}
}

func TestConstructorsCheckShape(t *testing.T) {
	assert.Panics(t, func() { New8(0, "", 2, 2, BGR32, make([]uint8, 4)) })
	assert.Panics(t, func() { New8(0, "", 2, 2, RGB48, make([]uint8, 12)) })
	assert.Panics(t, func() { New16(0, "", 2, 2, Mosaic8, make([]uint16, 4)) })
	assert.NotPanics(t, func() { New16(0, "", 2, 2, RGB48, make([]uint16, 12)) })

	f := New8(3, "a.raw", 4, 2, Mosaic8, make([]uint8, 8))
	assert.True(t, f.IsMosaic())
	assert.Equal(t, "4x2 mosaic8", f.DimensionsToString())
}

func TestImageSwapsBGR(t *testing.T) {
	f := New8(0, "", 2, 1, BGR32, []uint8{1, 2, 3, 255, 4, 5, 6, 255})
	img, ok := f.Image().(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, []uint8{3, 2, 1, 255, 6, 5, 4, 255}, img.Pix)
}

func TestImageRGB48(t *testing.T) {
	f := New16(0, "", 1, 2, RGB48, []uint16{1, 2, 3, 65535, 0, 1000})
	img, ok := f.Image().(*image.RGBA64)
	require.True(t, ok)
	assert.Equal(t, color.RGBA64{1, 2, 3, 65535}, img.RGBA64At(0, 0))
	assert.Equal(t, color.RGBA64{65535, 0, 1000, 65535}, img.RGBA64At(0, 1))
}

func TestCalcStats(t *testing.T) {
	f := New16(0, "", 2, 1, RGB48, []uint16{65535, 0, 0, 65535, 0, 0})
	s := f.CalcStats()
	require.Same(t, s, f.Stats)
	require.Len(t, s.Channels, 3)
	assert.Equal(t, "#ff0000", s.Color)

	f = New8(0, "", 2, 2, Mosaic8, []uint8{1, 2, 3, 4})
	s = f.CalcStats()
	require.Len(t, s.Channels, 1)
	assert.Equal(t, "Y", s.Channels[0].Name)
	assert.Equal(t, 2.5, s.Channels[0].Mean)
}

func TestEncodingFromName(t *testing.T) {
	for name, want := range map[string]Encoding{
		"out.bmp": BMP, "dir/out0001.PNG": PNG, "a.jpg": JPEG, "a.jpeg": JPEG,
		"x.tif": TIFF, "x.tiff": TIFF, "png": PNG, "bmp": BMP,
	} {
		got, err := EncodingFromName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := EncodingFromName("out.gif")
	assert.Error(t, err)
	assert.Equal(t, "image/png", PNG.ContentType())
}

func TestWriteDecodesBack(t *testing.T) {
	f := randomFrame8(7, 5, BGR32)
	want := f.Image()

	decoders := map[Encoding]func(*bytes.Buffer) (image.Image, error){
		BMP:  func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) },
		PNG:  func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) },
		TIFF: func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) },
	}
	for enc, decode := range decoders {
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf, enc, 95), enc.String())
		got, err := decode(&buf)
		require.NoError(t, err, enc.String())
		require.Equal(t, want.Bounds(), got.Bounds())
		for y := 0; y < 5; y++ {
			for x := 0; x < 7; x++ {
				assert.Equal(t, rgb8(want.At(x, y)), rgb8(got.At(x, y)), "%v (%d,%d)", enc, x, y)
			}
		}
	}
}

func TestWritePNGKeeps16Bits(t *testing.T) {
	data := make([]uint16, 3*4*4)
	for i := range data {
		data[i] = uint16(fastrand.Uint32n(1024)) << 6
	}
	f := New16(0, "", 4, 4, RGB48, data)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf, PNG, 0))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	r, g, b, _ := img.At(2, 3).RGBA()
	i := (3*4 + 2) * 3
	assert.Equal(t, [3]uint32{uint32(data[i]), uint32(data[i+1]), uint32(data[i+2])}, [3]uint32{r, g, b})
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	f := New16(0, "", 3, 3, Mosaic16, make([]uint16, 9))
	for _, name := range []string{"a.bmp", "a.png", "a.jpg", "a.tif"} {
		fileName := filepath.Join(dir, name)
		require.NoError(t, f.WriteFile(fileName, 90), name)
		fi, err := os.Stat(fileName)
		require.NoError(t, err)
		assert.Greater(t, fi.Size(), int64(0))
	}
	assert.Error(t, f.WriteFile(filepath.Join(dir, "a.gif"), 90))
}
