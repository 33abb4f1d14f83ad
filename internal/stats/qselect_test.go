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

package stats

import (
	"testing"

	"github.com/valyala/fastrand"
)

func TestMedian(t *testing.T) {
	rng := fastrand.RNG{}
	for i := 1; i < 1000; i++ {
		// random permutation of 1..n
		arr := make([]float64, i)
		for j := range arr {
			arr[j] = float64(j + 1)
		}
		for j := range arr {
			k := rng.Uint32n(uint32(len(arr)))
			arr[j], arr[k] = arr[k], arr[j]
		}

		var want float64
		if i&1 != 0 {
			want = float64((i + 1) / 2)
		} else {
			want = 0.5 * (float64(i/2) + float64(i/2+1))
		}

		if got := Median(arr); got != want {
			t.Fatalf("median(1..%d) = %g; want %g", i, got, want)
		}
	}
	if got := Median(nil); got != 0 {
		t.Errorf("median of empty slice = %g; want 0", got)
	}
}

func TestQSelectWithDuplicates(t *testing.T) {
	arr := []uint8{5, 1, 5, 1, 5, 3, 3}
	want := []uint8{1, 1, 3, 3, 5, 5, 5}
	for k := 1; k <= len(arr); k++ {
		tmp := append([]uint8(nil), arr...)
		if got := QSelect(tmp, k); got != want[k-1] {
			t.Errorf("select(%d) = %d; want %d", k, got, want[k-1])
		}
	}
	defer func() {
		if recover() == nil {
			t.Errorf("select(0) did not panic")
		}
	}()
	QSelect(arr, 0)
}
