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

package pre

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mlnoga/rawlight/internal/bayer"
	"github.com/mlnoga/rawlight/internal/frame"
	"github.com/mlnoga/rawlight/internal/ops"
)

// Demosaics a raw mosaic into a color frame. 8-bit mosaics become BGR32,
// 10-bit mosaics become RGB48.
type OpDemosaic struct {
	ops.OpUnaryBase
	ColorFilterArray bayer.Pattern `json:"colorFilterArray"`
	Method           bayer.Method  `json:"method"`
	Saturate         bool          `json:"saturate"` // clamp out-of-range values instead of failing
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpDemosaicDefaults() }) } // register the operator for JSON decoding

func NewOpDemosaicDefaults() *OpDemosaic { return NewOpDemosaic(bayer.RGGB, bayer.OpenCV, false) }

func NewOpDemosaic(cfa bayer.Pattern, method bayer.Method, saturate bool) *OpDemosaic {
	op := &OpDemosaic{
		OpUnaryBase:      ops.OpUnaryBase{OpBase: ops.OpBase{Type: "demosaic", Active: true}},
		ColorFilterArray: cfa,
		Method:           method,
		Saturate:         saturate,
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpDemosaic) UnmarshalJSON(data []byte) error {
	type defaults OpDemosaic
	def := defaults(*NewOpDemosaicDefaults())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpDemosaic(def)
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpDemosaic) Apply(f *frame.Frame, c *ops.Context) (result *frame.Frame, err error) {
	if !f.IsMosaic() {
		return nil, fmt.Errorf("%d: cannot demosaic %s frame", f.ID, f.DimensionsToString())
	}
	if f.Width < 2 || f.Height < 2 {
		return nil, fmt.Errorf("%d: cannot demosaic %s frame, need at least 2x2 pixels", f.ID, f.DimensionsToString())
	}
	var opts []bayer.Option
	if op.Saturate {
		opts = append(opts, bayer.Saturating())
	}

	start := time.Now()
	if f.Format == frame.Mosaic8 {
		data, err := bayer.ToBGR32(f.Data8, f.Width, f.Height, op.ColorFilterArray, op.Method, opts...)
		if err != nil {
			return nil, fmt.Errorf("%d: %w", f.ID, err)
		}
		result = frame.New8(f.ID, f.FileName, f.Width, f.Height, frame.BGR32, data)
	} else {
		data, err := bayer.ToRGB48(f.Data16, f.Width, f.Height, op.ColorFilterArray, op.Method, opts...)
		if err != nil {
			return nil, fmt.Errorf("%d: %w", f.ID, err)
		}
		result = frame.New16(f.ID, f.FileName, f.Width, f.Height, frame.RGB48, data)
	}
	elapsed := time.Since(start)

	result.CalcStats()
	fmt.Fprintf(c.Log, "%d: Demosaiced %v mosaic with method %v in %v, now %s with %v\n",
		f.ID, op.ColorFilterArray, op.Method, elapsed.Round(time.Millisecond), result.DimensionsToString(), result.Stats)
	return result, nil
}
