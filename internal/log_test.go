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

package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogTeesToFile(t *testing.T) {
	var stdout bytes.Buffer
	old := logStdout
	logStdout = &stdout
	defer func() {
		logClose()
		logStdout = old
	}()

	fileName := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, LogAlsoToFile(fileName))
	LogPrintf("%d: Loaded %s\n", 3, "a.raw")
	LogPrintln("Done.")
	LogSync()

	assert.Equal(t, "3: Loaded a.raw\nDone.\n", stdout.String())
	b, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Equal(t, stdout.String(), string(b))

	// a second file replaces the first
	second := filepath.Join(t.TempDir(), "second.log")
	require.NoError(t, LogAlsoToFile(second))
	LogPrint("x")
	logClose()
	b, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "x", string(b))
	LogSync()
}
