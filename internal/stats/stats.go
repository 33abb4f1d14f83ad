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

// Package stats computes per-channel statistics of mosaics and
// demosaiced frames.
package stats

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mlnoga/rawlight/internal/channel"
	"github.com/mlnoga/rawlight/internal/pixel"
)

// Number of histogram bins used for the mode estimate
const numBins = 256

// Statistics on a single channel
type Channel struct {
	Name   string  `json:"name"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Mode   float64 `json:"mode"` // Histogram peak
	Median float64 `json:"median"`
}

// Pretty print channel stats to string
func (c *Channel) String() string {
	return fmt.Sprintf("%s Min %.6g Max %.6g Mean %.6g StdDev %.6g Mode %.6g Median %.6g",
		c.Name, c.Min, c.Max, c.Mean, c.StdDev, c.Mode, c.Median)
}

// Statistics on all channels of a frame
type Stats struct {
	Channels []Channel `json:"channels"`
	Color    string    `json:"color,omitempty"` // Mean color as hex, for frames with R, G and B
}

// Calculate statistics for interleaved data. layout names each interleaved
// channel with one letter, e.g. "BGRx" for BGR32 or "RGB" for RGB48. Channels
// named x are skipped. fullScale is the largest representable sample value,
// used to normalize the mean color.
func Calc[T pixel.Number](data []T, layout string, fullScale float64) *Stats {
	k := len(layout)
	s := &Stats{}
	var rgb [3]float64
	var seen [3]bool
	for i, ch := range channel.Split(data, k) {
		name := layout[i : i+1]
		if name == "x" {
			continue
		}
		c := calcChannel(name, ch)
		s.Channels = append(s.Channels, c)
		if j := strings.Index("RGB", name); j >= 0 {
			rgb[j], seen[j] = c.Mean/fullScale, true
		}
	}
	if seen[0] && seen[1] && seen[2] {
		s.Color = colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.Clamped().Hex()
	}
	return s
}

func calcChannel[T pixel.Number](name string, data []T) Channel {
	xs := make([]float64, len(data))
	for i, v := range data {
		xs[i] = float64(v)
	}
	c := Channel{Name: name}
	if len(xs) == 0 {
		return c
	}
	c.Min, c.Max = floats.Min(xs), floats.Max(xs)
	c.Mean, c.StdDev = stat.PopMeanStdDev(xs, nil)

	bins := make([]int32, numBins)
	Histogram(xs, c.Min, c.Max, bins)
	c.Mode, _ = GetPeak(bins, c.Min, c.Max)

	c.Median = Median(xs) // reorders xs, so last
	return c
}

// Returns true if the difference between max and min of all channels is tiny
func (s *Stats) LowDynamicRange() bool {
	for _, c := range s.Channels {
		if c.Max-c.Min >= 1e-8 {
			return false
		}
	}
	return true
}

// Pretty print stats to string
func (s *Stats) String() string {
	parts := make([]string, len(s.Channels))
	for i := range s.Channels {
		parts[i] = s.Channels[i].String()
	}
	res := strings.Join(parts, "; ")
	if s.Color != "" {
		res += " Color " + s.Color
	}
	return res
}

// Pretty print stats to CSV header
func (s *Stats) ToCSVHeader() string {
	var sb strings.Builder
	for i, c := range s.Channels {
		if i > 0 {
			sb.WriteByte(',')
		}
		n := c.Name
		fmt.Fprintf(&sb, "%sMin,%sMax,%sMean,%sStdDev,%sMode,%sMedian", n, n, n, n, n, n)
	}
	return sb.String()
}

// Pretty print stats to CSV line item
func (s *Stats) ToCSVLine() string {
	var sb strings.Builder
	for i, c := range s.Channels {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%.6g,%.6g,%.6g,%.6g,%.6g,%.6g", c.Min, c.Max, c.Mean, c.StdDev, c.Mode, c.Median)
	}
	return sb.String()
}
