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

// Package raw reads headerless Bayer mosaic dumps: a fixed-size header to
// skip, followed by width*height samples of 8 or 10 bits.
package raw

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Returned when the source is shorter than header plus payload
var ErrInsufficientData = errors.New("raw: insufficient data")

// Bits per sample of a raw dump
type Depth int

const (
	Bpp8  Depth = 8  // one byte per sample
	Bpp10 Depth = 10 // little-endian uint16 per sample, 10 significant bits
)

func (d Depth) Valid() bool { return d == Bpp8 || d == Bpp10 }

// Bytes per sample on disk
func (d Depth) BytesPerSample() int {
	if d == Bpp8 {
		return 1
	}
	return 2
}

func (d Depth) String() string { return fmt.Sprintf("%dbpp", int(d)) }

// Parses "8" or "10", optionally followed by "bpp"
func ParseDepth(s string) (Depth, error) {
	switch s {
	case "8", "8bpp":
		return Bpp8, nil
	case "10", "10bpp":
		return Bpp10, nil
	}
	return 0, fmt.Errorf("raw: unsupported depth %q, want 8 or 10", s)
}

// Geometry of a raw dump
type Layout struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Header int   `json:"header"`
	Depth  Depth `json:"bpp"`
}

// Number of bytes a file with this layout needs at least
func (l Layout) Size() int64 {
	return int64(l.Header) + int64(l.Width)*int64(l.Height)*int64(l.Depth.BytesPerSample())
}

// Returns an error unless the layout describes a readable dump
func (l Layout) Validate() error {
	if l.Width < 1 || l.Height < 1 {
		return fmt.Errorf("raw: invalid size %dx%d", l.Width, l.Height)
	}
	if l.Header < 0 {
		return fmt.Errorf("raw: negative header size %d", l.Header)
	}
	if !l.Depth.Valid() {
		return fmt.Errorf("raw: unsupported depth %d", int(l.Depth))
	}
	return nil
}

// Reads an 8-bit mosaic from the named file
func ReadFile8(fileName string, header, width, height int) ([]uint8, error) {
	l := Layout{Width: width, Height: height, Header: header, Depth: Bpp8}
	f, err := openChecked(fileName, l)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read8(bufio.NewReader(f), header, width, height)
}

// Reads a 10-bit mosaic from the named file
func ReadFile10(fileName string, header, width, height int) ([]uint16, error) {
	l := Layout{Width: width, Height: height, Header: header, Depth: Bpp10}
	f, err := openChecked(fileName, l)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read10(bufio.NewReader(f), header, width, height)
}

// Opens a file after checking it is large enough for the layout
func openChecked(fileName string, l Layout) (*os.File, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() < l.Size() {
		f.Close()
		return nil, fmt.Errorf("%w: %s has %d bytes; want at least %d", ErrInsufficientData, fileName, fi.Size(), l.Size())
	}
	return f, nil
}

// Skips header bytes, then reads width*height bytes
func Read8(r io.Reader, header, width, height int) ([]uint8, error) {
	if err := skip(r, header); err != nil {
		return nil, err
	}
	buf := make([]uint8, width*height)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, short(err)
	}
	return buf, nil
}

// Skips header bytes, then reads width*height little-endian 16-bit samples
func Read10(r io.Reader, header, width, height int) ([]uint16, error) {
	if err := skip(r, header); err != nil {
		return nil, err
	}
	buf := make([]uint16, width*height)
	if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
		return nil, short(err)
	}
	return buf, nil
}

func skip(r io.Reader, n int) error {
	if n < 0 {
		return fmt.Errorf("raw: negative header size %d", n)
	}
	if s, ok := r.(io.Seeker); ok {
		_, err := s.Seek(int64(n), io.SeekCurrent)
		return err
	}
	if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
		return short(err)
	}
	return nil
}

// Maps premature end of input to ErrInsufficientData
func short(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrInsufficientData
	}
	return err
}
