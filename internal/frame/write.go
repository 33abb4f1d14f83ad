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
	"bufio"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// An export file format, derived from the file name suffix
type Encoding int

const (
	BMP Encoding = iota
	PNG
	JPEG
	TIFF
)

var encodingNames = [...]string{"bmp", "png", "jpeg", "tiff"}

func (e Encoding) String() string {
	if e < 0 || int(e) >= len(encodingNames) {
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
	return encodingNames[e]
}

// MIME type for HTTP responses
func (e Encoding) ContentType() string {
	return "image/" + e.String()
}

// Determines the encoding from a file name or bare suffix like "png" or ".tif"
func EncodingFromName(name string) (Encoding, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = "." + strings.ToLower(name)
	}
	switch ext {
	case ".bmp":
		return BMP, nil
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".tif", ".tiff":
		return TIFF, nil
	}
	return 0, fmt.Errorf("frame: unknown image suffix %q", ext)
}

// Write the frame to the named file, choosing the encoding by suffix.
// quality applies to JPEG only.
func (f *Frame) WriteFile(fileName string, quality int) error {
	enc, err := EncodingFromName(fileName)
	if err != nil {
		return err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := f.Write(writer, enc, quality); err != nil {
		return err
	}
	return writer.Flush()
}

// Write the frame in the given encoding. BMP and JPEG hold 8 bits per
// channel, so 16-bit frames are reduced to their upper byte. PNG and TIFF
// keep 16 bits.
func (f *Frame) Write(writer io.Writer, enc Encoding, quality int) error {
	img := f.Image()
	switch enc {
	case BMP:
		return bmp.Encode(writer, to8Bit(img))
	case PNG:
		return png.Encode(writer, img)
	case JPEG:
		return jpeg.Encode(writer, to8Bit(img), &jpeg.Options{Quality: quality})
	case TIFF:
		return tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	return fmt.Errorf("frame: unsupported encoding %v", enc)
}

// Converts 16-bit images into their 8-bit counterparts
func to8Bit(img image.Image) image.Image {
	switch src := img.(type) {
	case *image.Gray16:
		dst := image.NewGray(src.Bounds())
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return dst
	case *image.RGBA64:
		dst := image.NewRGBA(src.Bounds())
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return dst
	}
	return img
}
