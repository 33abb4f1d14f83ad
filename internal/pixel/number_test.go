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

package pixel

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckedUint8(t *testing.T) {
	c := NewConverter[uint8]()
	tcs := []struct {
		in   float64
		want uint8
		ok   bool
	}{
		{0, 0, true},
		{-0.5, 0, true},
		{254.6, 254, true},
		{255.9, 255, true},
		{256, 0, false},
		{-1, 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
	}
	for _, tc := range tcs {
		got, ok := c.Checked(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Checked(%g)=%d,%v; want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCheckedSigned(t *testing.T) {
	c := NewConverter[int16]()
	got, ok := c.Checked(-32768.7)
	assert.True(t, ok)
	assert.Equal(t, int16(-32768), got)
	_, ok = c.Checked(-32769)
	assert.False(t, ok)
	_, ok = c.Checked(32768)
	assert.False(t, ok)
}

func TestCheckedFloatAcceptsAll(t *testing.T) {
	c := NewConverter[float32]()
	got, ok := c.Checked(1e10)
	assert.True(t, ok)
	assert.Equal(t, float32(1e10), got)
}

func TestSaturate(t *testing.T) {
	c8 := NewConverter[uint8]()
	assert.Equal(t, uint8(255), c8.Saturate(300))
	assert.Equal(t, uint8(0), c8.Saturate(-5))
	assert.Equal(t, uint8(0), c8.Saturate(math.NaN()))
	assert.Equal(t, uint8(17), c8.Saturate(17.9))

	c16 := NewConverter[uint16]()
	assert.Equal(t, uint16(math.MaxUint16), c16.Saturate(1e9))

	c64 := NewConverter[int64]()
	assert.Equal(t, int64(math.MinInt64), c64.Saturate(-1e30))
	assert.True(t, c64.Saturate(1e30) > math.MaxInt64/2)

	cu := NewConverter[uint64]()
	assert.True(t, cu.Saturate(1e30) > math.MaxUint64/2)
}

func TestCast(t *testing.T) {
	v, err := Cast[uint8](200.2)
	require.NoError(t, err)
	assert.Equal(t, uint8(200), v)

	_, err = Cast[uint8](256)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	var re *RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "uint8", re.Type)
	assert.Equal(t, 256.0, re.Value)
}
