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

package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/klauspost/cpuid"

	nl "github.com/mlnoga/rawlight/internal"
	"github.com/mlnoga/rawlight/internal/bayer"
	"github.com/mlnoga/rawlight/internal/ops"
	"github.com/mlnoga/rawlight/internal/ops/pre"
	"github.com/mlnoga/rawlight/internal/raw"
	"github.com/mlnoga/rawlight/internal/rest"
)

const version = "0.1.0"

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

var out = flag.String("out", "out%04d.bmp", "save demosaiced frames with given filename pattern, e.g. `out%04d.png`. Suffix selects bmp, png, jpg or tif")
var quality = flag.Int("quality", 95, "JPEG quality in [1,100]")
var log = flag.String("log", "", "save log output to `file`. `%auto` picks a timestamped name")
var csv = flag.String("csv", "", "append per-frame channel statistics as CSV to `file`")
var opsFile = flag.String("ops", "", "run the JSON operator sequence from `file`")

var width = flag.Int("width", 640, "raw image width in pixels, in [1,10000]")
var height = flag.Int("height", 480, "raw image height in pixels, in [1,10000]")
var header = flag.Int("header", 0, "raw file header size in bytes, in [0,100]")
var bpp = flag.String("bpp", "8", "bits per raw sample, 8 or 10")
var cfa = flag.String("cfa", "RGGB", "color filter array, one of BGGR, GBRG, GRBG, RGGB")
var method = flag.String("method", "OpenCV", "demosaicing method, one of OpenCV, Imatest, MATLAB, LabVIEW")
var saturate = flag.Bool("saturate", false, "clamp out-of-range values instead of failing")

var addr = flag.String("addr", ":8080", "listen address for serve")
var chroot = flag.String("chroot", "", "chroot to `dir` before serving (requires root)")
var setuid = flag.Int("setuid", -1, "change to user `id` before serving, -1: keep")

func main() {
	logWriter := nl.Log
	start := time.Now()
	flag.Usage = func() {
		fmt.Fprintf(logWriter, `Rawlight Copyright (c) 2020 Markus L. Noga
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (demosaic|stats|run|serve|legal|version) (img0.raw ... imgn.raw)

Commands:
  demosaic Demosaic raw mosaics and save them as images
  stats    Show raw mosaic statistics
  run      Run the operator sequence given with -ops
  serve    Serve the web interface and REST API
  legal    Show license and attribution information
  version  Show version information

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Initialize logging to file in addition to stdout, if selected
	if *log != "" {
		if err := nl.LogAlsoToFile(*log); err != nil {
			nl.LogFatalf("Unable to open logfile '%s'\n", *log)
		}
	}

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			nl.LogFatal("Could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			nl.LogFatal("Could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	var err error
	switch args[0] {
	case "demosaic":
		err = cmdDemosaic(args[1:], logWriter)

	case "stats":
		err = cmdStats(args[1:], logWriter)

	case "run":
		err = cmdRun(logWriter)

	case "serve":
		printBanner(logWriter)
		if err = rest.MakeSandbox(*chroot, *setuid, logWriter); err == nil {
			err = rest.Serve(*addr, logWriter)
		}

	case "legal":
		cmdLegal(logWriter)

	case "version":
		fmt.Fprintf(logWriter, "Version %s\n", version)
		printBanner(logWriter)

	case "help", "?":
		flag.Usage()

	default:
		fmt.Fprintf(logWriter, "Unknown command '%s'\n\n", args[0])
		flag.Usage()
		return
	}

	elapsed := time.Since(start)
	fmt.Fprintf(logWriter, "\nDone after %v\n", elapsed)

	// Store memory profile if flagged
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			nl.LogFatal("Could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			nl.LogFatal("Could not write allocation profile: ", err)
		}
	}

	if err != nil {
		pprof.StopCPUProfile()
		nl.LogFatalf("Error: %s\n", err.Error())
	}
	nl.LogSync()
}

// Prints CPU and memory information
func printBanner(logWriter io.Writer) {
	c := ops.NewContext(logWriter)
	avx2 := ""
	if cpuid.CPU.AVX2() {
		avx2 = " with AVX2"
	}
	fmt.Fprintf(logWriter, "Running on %s%s, %d physical/%d logical cores, %d MiB memory, using %d threads\n",
		strings.TrimSpace(cpuid.CPU.BrandName), avx2, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores,
		c.MemoryMB, c.MaxThreads)
}

// Parses and range checks the raw layout flags
func layoutFromFlags() (raw.Layout, error) {
	depth, err := raw.ParseDepth(*bpp)
	if err != nil {
		return raw.Layout{}, err
	}
	if *width < 1 || *width > 10000 {
		return raw.Layout{}, fmt.Errorf("width %d outside [1,10000]", *width)
	}
	if *height < 1 || *height > 10000 {
		return raw.Layout{}, fmt.Errorf("height %d outside [1,10000]", *height)
	}
	if *header < 0 || *header > 100 {
		return raw.Layout{}, fmt.Errorf("header size %d outside [0,100]", *header)
	}
	return raw.Layout{Width: *width, Height: *height, Header: *header, Depth: depth}, nil
}

// Builds load, demosaic, stats export and save steps from the flags
func demosaicSequenceFromFlags(patterns []string) (*ops.OpSequence, raw.Layout, error) {
	layout, err := layoutFromFlags()
	if err != nil {
		return nil, layout, err
	}
	p, err := bayer.ParsePattern(*cfa)
	if err != nil {
		return nil, layout, err
	}
	m, err := bayer.ParseMethod(*method)
	if err != nil {
		return nil, layout, err
	}
	if *quality < 1 || *quality > 100 {
		return nil, layout, fmt.Errorf("quality %d outside [1,100]", *quality)
	}
	seq := ops.NewOpSequence(
		ops.NewOpLoadMany(patterns, layout),
		pre.NewOpDemosaic(p, m, *saturate),
	)
	if *csv != "" {
		seq.Append(pre.NewOpExportStats(*csv))
	}
	seq.Append(ops.NewOpSave(*out, *quality))
	return seq, layout, nil
}

func cmdDemosaic(patterns []string, logWriter io.Writer) error {
	if len(patterns) == 0 {
		return errors.New("no input files given")
	}
	seq, layout, err := demosaicSequenceFromFlags(patterns)
	if err != nil {
		return err
	}
	m, err := json.MarshalIndent(seq, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(logWriter, "Demosaicing with these settings:\n%s\n", string(m))
	c := ops.NewContext(logWriter)
	return run(seq, c, c.Concurrency(layout.Width, layout.Height))
}

func cmdStats(patterns []string, logWriter io.Writer) error {
	if len(patterns) == 0 {
		return errors.New("no input files given")
	}
	layout, err := layoutFromFlags()
	if err != nil {
		return err
	}
	seq := ops.NewOpSequence(
		ops.NewOpLoadMany(patterns, layout),
		pre.NewOpExportStats(*csv),
	)
	c := ops.NewContext(logWriter)
	return run(seq, c, c.MaxThreads)
}

func cmdRun(logWriter io.Writer) error {
	if *opsFile == "" {
		return errors.New("run needs an operator sequence file given with -ops")
	}
	data, err := os.ReadFile(*opsFile)
	if err != nil {
		return err
	}
	op, err := ops.UnmarshalOperator(data)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(*opsFile), err)
	}
	c := ops.NewContext(logWriter)
	return run(op, c, c.MaxThreads)
}

// Materializes all outputs of the operator, forgetting the results
func run(op ops.Operator, c *ops.Context, maxThreads int) error {
	promises, err := op.MakePromises(nil, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Log, "Processing %d frames with %d threads\n", len(promises), maxThreads)
	_, err = ops.MaterializeAll(promises, maxThreads, true)
	return err
}
