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
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/mlnoga/rawlight/internal/frame"
	"github.com/mlnoga/rawlight/internal/ops"
)

// Appends one CSV line of channel statistics per frame to a file. The
// header is taken from the first frame written.
type OpExportStats struct {
	ops.OpUnaryBase
	FileName string     `json:"fileName"`
	mutex    sync.Mutex `json:"-"`
	written  int        `json:"-"`
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpExportStatsDefault() }) } // register the operator for JSON decoding

func NewOpExportStatsDefault() *OpExportStats { return NewOpExportStats("") }

func NewOpExportStats(fileName string) *OpExportStats {
	op := &OpExportStats{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: "exportStats", Active: fileName != ""}},
		FileName:    fileName,
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries.
// Decodes into a shadow of the exported fields only, leaving the mutex
// and write count of op untouched.
func (op *OpExportStats) UnmarshalJSON(data []byte) error {
	def := NewOpExportStatsDefault()
	aux := struct {
		ops.OpUnaryBase
		FileName string `json:"fileName"`
	}{OpUnaryBase: def.OpUnaryBase, FileName: def.FileName}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	op.OpUnaryBase = aux.OpUnaryBase
	op.FileName = aux.FileName
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpExportStats) Apply(f *frame.Frame, c *ops.Context) (result *frame.Frame, err error) {
	if op.FileName == "" {
		fmt.Fprintf(c.Log, "%d: exportStats empty fileName\n", f.ID)
		return f, nil
	}
	if f.Stats == nil {
		f.CalcStats()
	}

	op.mutex.Lock() // lock so a single thread is active
	defer op.mutex.Unlock()

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if op.written == 0 {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	file, err := os.OpenFile(op.FileName, flags, 0666)
	if err != nil {
		return nil, fmt.Errorf("%d: error opening file %s: %w", f.ID, op.FileName, err)
	}
	defer file.Close()
	w := bufio.NewWriter(file)

	if op.written == 0 {
		fmt.Fprintf(w, "ID,FileName,Format,%s\n", f.Stats.ToCSVHeader())
	}
	fmt.Fprintf(w, "%d,%q,%v,%s\n", f.ID, f.FileName, f.Format, f.Stats.ToCSVLine())
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("%d: error writing to file %s: %w", f.ID, op.FileName, err)
	}
	op.written++
	fmt.Fprintf(c.Log, "%d: Wrote statistics to file %s\n", f.ID, op.FileName)
	return f, nil
}
