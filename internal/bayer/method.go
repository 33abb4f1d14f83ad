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
	"strings"
)

// A demosaicing algorithm
type Method int

const (
	OpenCV  Method = iota // bilinear, full 3x3 kernels, edge ring patched from its neighbors
	Imatest               // bilinear, separable diagonal pass plus cross correction
	MATLAB                // gradient-corrected 5x5 kernels (Malvar-He-Cutler)
	LabVIEW               // bilinear with per-column rounding rules at the edges
)

var methodNames = [...]string{"OpenCV", "Imatest", "MATLAB", "LabVIEW"}

func (m Method) Valid() bool { return m >= OpenCV && m <= LabVIEW }

func (m Method) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Parses a method name like "MATLAB", case-insensitively
func ParseMethod(s string) (Method, error) {
	for i, n := range methodNames {
		if strings.EqualFold(n, s) {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("bayer: unknown demosaic method %q, want one of %v", s, methodNames)
}

func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("bayer: invalid method %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(b []byte) (err error) {
	*m, err = ParseMethod(string(b))
	return err
}

// 3x3 bilinear kernels, applied to channels that are zero off their native phases
var (
	kernelDiamond = []float64{
		0.25, 0.50, 0.25,
		0.50, 1.00, 0.50,
		0.25, 0.50, 0.25,
	}
	kernelPlus = []float64{
		0.00, 0.25, 0.00,
		0.25, 1.00, 0.25,
		0.00, 0.25, 0.00,
	}
	kernelX = []float64{
		0.25, 0.00, 0.25,
		0.00, 1.00, 0.00,
		0.25, 0.00, 0.25,
	}
	kernelCross = []float64{
		0.00, 0.25, 0.00,
		0.25, 0.00, 0.25,
		0.00, 0.25, 0.00,
	}
)

// 5x5 gradient-corrected kernels, applied to the raw mosaic
var (
	// green at red or blue sites
	kernelG = []float64{
		0, 0, -0.125, 0, 0,
		0, 0, 0.250, 0, 0,
		-0.125, 0.250, 0.500, 0.250, -0.125,
		0, 0, 0.250, 0, 0,
		0, 0, -0.125, 0, 0,
	}
	// red or blue at green sites whose row holds the wanted color
	kernelRB1 = []float64{
		0, 0, 0.0625, 0, 0,
		0, -0.125, 0, -0.125, 0,
		-0.125, 0.500, 0.6250, 0.500, -0.125,
		0, -0.125, 0, -0.125, 0,
		0, 0, 0.0625, 0, 0,
	}
	// red or blue at green sites whose column holds the wanted color
	kernelRB2 = []float64{
		0, 0, -0.125, 0, 0,
		0, -0.125, 0.500, -0.125, 0,
		0.0625, 0, 0.625, 0, 0.0625,
		0, -0.125, 0.500, -0.125, 0,
		0, 0, -0.125, 0, 0,
	}
	// red at blue sites and vice versa
	kernelRB3 = []float64{
		0, 0, -0.1875, 0, 0,
		0, 0.25, 0, 0.25, 0,
		-0.1875, 0, 0.75, 0, -0.1875,
		0, 0.25, 0, 0.25, 0,
		0, 0, -0.1875, 0, 0,
	}
)

// Gradient-corrected kernel for each channel at each phase, indexed
// [pattern][color][y&1][x&1]. Nil where the phase natively records the color.
var gradientKernels = [4][3][2][2][]float64{
	BGGR: {
		Red:   {{kernelRB3, kernelRB2}, {kernelRB1, nil}},
		Green: {{kernelG, nil}, {nil, kernelG}},
		Blue:  {{nil, kernelRB1}, {kernelRB2, kernelRB3}},
	},
	GBRG: {
		Red:   {{kernelRB2, kernelRB3}, {nil, kernelRB1}},
		Green: {{nil, kernelG}, {kernelG, nil}},
		Blue:  {{kernelRB1, nil}, {kernelRB3, kernelRB2}},
	},
	GRBG: {
		Red:   {{kernelRB1, nil}, {kernelRB3, kernelRB2}},
		Green: {{nil, kernelG}, {kernelG, nil}},
		Blue:  {{kernelRB2, kernelRB3}, {nil, kernelRB1}},
	},
	RGGB: {
		Red:   {{nil, kernelRB1}, {kernelRB2, kernelRB3}},
		Green: {{kernelG, nil}, {nil, kernelG}},
		Blue:  {{kernelRB3, kernelRB2}, {kernelRB1, nil}},
	},
}
