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

// Package rest exposes demosaicing and operator sequences over HTTP.
package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mlnoga/rawlight/internal/bayer"
	"github.com/mlnoga/rawlight/internal/frame"
	"github.com/mlnoga/rawlight/internal/ops"
	"github.com/mlnoga/rawlight/internal/ops/pre"
	"github.com/mlnoga/rawlight/internal/pixel"
	"github.com/mlnoga/rawlight/internal/raw"
	"github.com/mlnoga/rawlight/web"
)

// Largest accepted operator sequence, in bytes
const maxSequenceBytes = 1 << 20

// Listens on addr and serves the API until the server fails
func Serve(addr string, log io.Writer) error {
	fmt.Fprintf(log, "Listening on %s\n", addr)
	return NewRouter(log).Run(addr)
}

// Creates the router with all API routes. Server-side log output goes to log.
func NewRouter(log io.Writer) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(log), gin.Recovery())
	s := &server{log: log}

	r.GET("/", getIndex)
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.GET("/operators", getOperators)
			v1.POST("/demosaic", s.postDemosaic)
			v1.POST("/run", s.postRun)
		}
	}
	return r
}

type server struct {
	log io.Writer
}

func getIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
}

func getPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

func getOperators(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"operators": ops.OperatorTypes(),
	})
}

// Query parameters of a demosaic request. The request body is the raw file.
type demosaicArgs struct {
	Width    int    `form:"width" binding:"required,min=2,max=10000"`
	Height   int    `form:"height" binding:"required,min=2,max=10000"`
	Header   int    `form:"header" binding:"min=0,max=100"`
	Bpp      int    `form:"bpp,default=8" binding:"oneof=8 10"`
	CFA      string `form:"cfa,default=RGGB"`
	Method   string `form:"method,default=OpenCV"`
	Format   string `form:"format,default=png"`
	Quality  int    `form:"quality,default=95" binding:"min=1,max=100"`
	Saturate bool   `form:"saturate"`
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (s *server) postDemosaic(c *gin.Context) {
	var args demosaicArgs
	if err := c.ShouldBindQuery(&args); err != nil {
		badRequest(c, err)
		return
	}
	cfa, err := bayer.ParsePattern(args.CFA)
	if err != nil {
		badRequest(c, err)
		return
	}
	method, err := bayer.ParseMethod(args.Method)
	if err != nil {
		badRequest(c, err)
		return
	}
	enc, err := frame.EncodingFromName(args.Format)
	if err != nil {
		badRequest(c, err)
		return
	}

	layout := raw.Layout{Width: args.Width, Height: args.Height, Header: args.Header, Depth: raw.Depth(args.Bpp)}
	body := http.MaxBytesReader(c.Writer, c.Request.Body, layout.Size())
	var f *frame.Frame
	if layout.Depth == raw.Bpp8 {
		data, err := raw.Read8(body, layout.Header, layout.Width, layout.Height)
		if err != nil {
			badRequest(c, err)
			return
		}
		f = frame.New8(0, "upload", layout.Width, layout.Height, frame.Mosaic8, data)
	} else {
		data, err := raw.Read10(body, layout.Header, layout.Width, layout.Height)
		if err != nil {
			badRequest(c, err)
			return
		}
		f = frame.New16(0, "upload", layout.Width, layout.Height, frame.Mosaic16, data)
	}

	ctx := ops.NewContext(s.log)
	f, err = pre.NewOpDemosaic(cfa, method, args.Saturate).Apply(f, ctx)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pixel.ErrOutOfRange) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := f.Write(&buf, enc, args.Quality); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, enc.ContentType(), buf.Bytes())
}

// Runs an operator graph given as JSON, streaming the log back as plain text.
// File access is restricted to the server's working directory tree.
func (s *server) postRun(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxSequenceBytes))
	if err != nil {
		badRequest(c, err)
		return
	}
	op, err := ops.UnmarshalOperator(body)
	if err != nil {
		badRequest(c, err)
		return
	}

	logWriter := &syncWriter{w: c.Writer}
	header := c.Writer.Header()
	header.Set("Content-Type", "text/plain; charset=utf-8")
	c.Writer.WriteHeader(http.StatusOK)

	if err := printArgs(logWriter, "Arguments:\n", "\n", op); err != nil {
		fmt.Fprintf(logWriter, "Error printing arguments: %s\n", err.Error())
		return
	}

	ctx := ops.NewContext(io.MultiWriter(logWriter, s.log))
	ctx.RestrictPaths = true
	promises, err := op.MakePromises(nil, ctx)
	if err != nil {
		fmt.Fprintf(logWriter, "error: %s\n", err.Error())
		return
	}
	if _, err := ops.MaterializeAll(promises, ctx.MaxThreads, true); err != nil {
		fmt.Fprintf(logWriter, "error: %s\n", err.Error())
		return
	}
	fmt.Fprintf(logWriter, "Done.\n")
	c.Writer.Flush()
}

func printArgs(logWriter io.Writer, prefix, suffix string, args interface{}) error {
	m, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(logWriter, "%s%s%s", prefix, string(m), suffix)
	return nil
}

// Serializes concurrent log writes from operator goroutines
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
