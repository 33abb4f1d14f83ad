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
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlnoga/rawlight/internal/bayer"
	"github.com/mlnoga/rawlight/internal/frame"
	"github.com/mlnoga/rawlight/internal/ops"
	"github.com/mlnoga/rawlight/internal/pixel"
)

func testContext() (*ops.Context, *bytes.Buffer) {
	var log bytes.Buffer
	c := ops.NewContext(&log)
	c.MaxThreads = 2
	return c, &log
}

// 4x4 RGGB mosaic with red 100, green 150, blue 200
func flatRGGB8() *frame.Frame {
	row0 := []uint8{100, 150, 100, 150}
	row1 := []uint8{150, 200, 150, 200}
	var data []uint8
	for y := 0; y < 2; y++ {
		data = append(data, row0...)
		data = append(data, row1...)
	}
	return frame.New8(5, "flat.raw", 4, 4, frame.Mosaic8, data)
}

func TestDemosaic8(t *testing.T) {
	c, log := testContext()
	for _, m := range []bayer.Method{bayer.OpenCV, bayer.MATLAB, bayer.LabVIEW} {
		op := NewOpDemosaic(bayer.RGGB, m, false)
		out, err := op.Apply(flatRGGB8(), c)
		require.NoError(t, err, m.String())
		assert.Equal(t, frame.BGR32, out.Format)
		assert.Equal(t, 5, out.ID)
		assert.Equal(t, "flat.raw", out.FileName)
		for i := 0; i < 16; i++ {
			assert.Equal(t, []uint8{200, 150, 100, 255}, out.Data8[4*i:4*i+4])
		}
		require.NotNil(t, out.Stats)
		assert.Equal(t, "#6496c8", out.Stats.Color)
	}
	assert.Contains(t, log.String(), "5: Demosaiced RGGB mosaic with method MATLAB")
}

func TestDemosaic16(t *testing.T) {
	c, _ := testContext()
	in := frame.New16(1, "", 2, 2, frame.Mosaic16, []uint16{1023, 0, 0, 0})
	out, err := NewOpDemosaic(bayer.RGGB, bayer.OpenCV, false).Apply(in, c)
	require.NoError(t, err)
	assert.Equal(t, frame.RGB48, out.Format)
	require.Len(t, out.Data16, 12)
	for i := 0; i < 4; i++ {
		assert.Equal(t, uint16(1023<<6), out.Data16[3*i], "red everywhere")
		assert.Equal(t, uint16(0), out.Data16[3*i+1])
		assert.Equal(t, uint16(0), out.Data16[3*i+2])
	}
}

func TestDemosaicRejects(t *testing.T) {
	c, _ := testContext()
	op := NewOpDemosaicDefaults()

	_, err := op.Apply(frame.New8(0, "", 2, 2, frame.BGR32, make([]uint8, 16)), c)
	assert.Error(t, err)

	_, err = op.Apply(frame.New8(0, "", 4, 1, frame.Mosaic8, make([]uint8, 4)), c)
	assert.Error(t, err)

	// a lone bright red sample overshoots green under gradient correction
	in := frame.New8(0, "", 6, 6, frame.Mosaic8, make([]uint8, 36))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			if bayer.RGGB.At(x, y) == bayer.Green {
				in.Data8[y*6+x] = 255
			}
		}
	}
	in.Data8[2*6+2] = 255
	_, err = NewOpDemosaic(bayer.RGGB, bayer.MATLAB, false).Apply(in, c)
	assert.True(t, errors.Is(err, pixel.ErrOutOfRange))
	out, err := NewOpDemosaic(bayer.RGGB, bayer.MATLAB, true).Apply(in, c)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), out.Data8[4*(2*6+2)+1])
}

func TestDemosaicJSON(t *testing.T) {
	op, err := ops.UnmarshalOperator([]byte(`{"type":"demosaic","method":"MATLAB"}`))
	require.NoError(t, err)
	d, ok := op.(*OpDemosaic)
	require.True(t, ok)
	assert.True(t, d.Active)
	assert.Equal(t, bayer.RGGB, d.ColorFilterArray)
	assert.Equal(t, bayer.MATLAB, d.Method)
	assert.NotNil(t, d.OpUnaryBase.Apply)

	b, err := json.Marshal(NewOpDemosaic(bayer.GBRG, bayer.Imatest, true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"demosaic","active":true,"colorFilterArray":"GBRG","method":"Imatest","saturate":true}`, string(b))

	_, err = ops.UnmarshalOperator([]byte(`{"type":"demosaic","colorFilterArray":"XYZW"}`))
	assert.Error(t, err)
}

func TestDemosaicInPipeline(t *testing.T) {
	c, _ := testContext()
	seq := ops.NewOpSequence(ops.NewOpForEach(NewOpDemosaic(bayer.RGGB, bayer.Imatest, false)))
	in := func() (*frame.Frame, error) { return flatRGGB8(), nil }
	promises, err := seq.MakePromises([]ops.Promise{in, in}, c)
	require.NoError(t, err)
	frames, err := ops.MaterializeAll(promises, c.MaxThreads, false)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	for _, f := range frames {
		assert.Equal(t, frame.BGR32, f.Format)
	}
}
