// Package ingest decodes profile documents into the structures the
// visualizations work on. Decoders never return partial results: any
// structural problem fails the whole document.
package ingest

import (
	"bufio"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/grafana/regexp"
	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/grafana/profileview/pkg/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Format int

const (
	FormatUnknown Format = iota
	FormatFlameGraph
	FormatHeatmap
	FormatMemory
	FormatBundle
	FormatPprof
	FormatCollapsed
)

func (f Format) String() string {
	switch f {
	case FormatFlameGraph:
		return "flamegraph"
	case FormatHeatmap:
		return "heatmap"
	case FormatMemory:
		return "memory"
	case FormatBundle:
		return "bundle"
	case FormatPprof:
		return "pprof"
	case FormatCollapsed:
		return "collapsed"
	default:
		return "unknown"
	}
}

// Profile types as keyed in a bundle document.
const (
	bundleFlameGraph = "c"
	bundleMemory     = "m"
	bundleHeatmap    = "h"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Open returns a reader over the decompressed input. Input that is not
// gzip-compressed is passed through.
func Open(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "peek")
	}
	if !bytes.Equal(magic, gzipMagic) {
		return br, nil
	}
	gr, err := gzip.NewReader(br)
	if err != nil {
		return nil, errors.Wrap(err, "gzip")
	}
	return gr, nil
}

// ReadAll reads and decompresses the whole input.
func ReadAll(r io.Reader) ([]byte, error) {
	r, err := Open(r)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	return data, nil
}

var collapsedLine = regexp.MustCompile(`^\S.* \d+$`)

// Detect guesses the format of decompressed data. The file name is consulted
// first, then the content.
func Detect(name string, data []byte) Format {
	name = strings.TrimSuffix(strings.ToLower(name), ".gz")
	switch filepath.Ext(name) {
	case ".pprof", ".pb":
		return FormatPprof
	case ".collapsed", ".folded":
		return FormatCollapsed
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' {
		return detectDocument(trimmed)
	}
	first, _, _ := bytes.Cut(trimmed, []byte{'\n'})
	if collapsedLine.Match(bytes.TrimRight(first, "\r")) {
		return FormatCollapsed
	}
	return FormatPprof
}

func detectDocument(data []byte) Format {
	has := func(key string) bool {
		return json.Get(data, key).ValueType() != jsoniter.InvalidValue
	}
	switch {
	case has("callStats"):
		return FormatFlameGraph
	case has("heatmaps"):
		return FormatHeatmap
	case has("codeEvents"):
		return FormatMemory
	case has(bundleFlameGraph), has(bundleHeatmap), has(bundleMemory):
		return FormatBundle
	}
	return FormatUnknown
}

func malformed(path, format string, args ...any) error {
	return &model.MalformedProfileError{Path: path, Err: errors.Errorf(format, args...)}
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case interface{ Float64() (float64, error) }:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}
