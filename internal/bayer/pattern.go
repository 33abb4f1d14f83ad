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

// Package bayer reconstructs color images from single-channel Bayer mosaics.
//
// Pattern layouts, as [row][col] of the 2x2 repeat:
//
//	BGGR  B G    GBRG  G B    GRBG  G R    RGGB  R G
//	      G R          R G          B G          G B
package bayer

import (
	"fmt"
	"strings"

	"github.com/mlnoga/rawlight/internal/pixel"
)

// A primary color recorded by a CFA site
type Color int

const (
	Red Color = iota
	Green
	Blue
)

func (c Color) String() string {
	switch c {
	case Red:
		return "R"
	case Green:
		return "G"
	case Blue:
		return "B"
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

// One of the four 2x2 Bayer color filter array layouts
type Pattern int

const (
	BGGR Pattern = iota
	GBRG
	GRBG
	RGGB
)

var patternNames = [...]string{"BGGR", "GBRG", "GRBG", "RGGB"}

// Color of each phase, indexed [pattern][y&1][x&1]
var layouts = [...][2][2]Color{
	BGGR: {{Blue, Green}, {Green, Red}},
	GBRG: {{Green, Blue}, {Red, Green}},
	GRBG: {{Green, Red}, {Blue, Green}},
	RGGB: {{Red, Green}, {Green, Blue}},
}

func (p Pattern) Valid() bool { return p >= BGGR && p <= RGGB }

func (p Pattern) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Pattern(%d)", int(p))
	}
	return patternNames[p]
}

// Parses a pattern name like "RGGB", case-insensitively
func ParsePattern(s string) (Pattern, error) {
	for i, n := range patternNames {
		if strings.EqualFold(n, s) {
			return Pattern(i), nil
		}
	}
	return 0, fmt.Errorf("bayer: unknown color filter array %q, want one of %v", s, patternNames)
}

func (p Pattern) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("bayer: invalid pattern %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Pattern) UnmarshalText(b []byte) (err error) {
	*p, err = ParsePattern(string(b))
	return err
}

// Color recorded at grid position (x,y)
func (p Pattern) At(x, y int) Color { return layouts[p][y&1][x&1] }

// Lattices of the phases that natively record color c. Green has two.
func (p Pattern) Phases(c Color) []pixel.Lattice {
	var res []pixel.Lattice
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if layouts[p][y][x] == c {
				res = append(res, pixel.Phase(x, y))
			}
		}
	}
	return res
}
