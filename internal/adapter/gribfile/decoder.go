// Package gribfile decodes MRMS GRIB2 files from disk into grids the ingest
// loader can publish. It is the only package that touches the GRIB2 wire
// format.
package gribfile

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nilsmagnus/grib/griblib"

	"github.com/msimp2/GaugeVsQPE/internal/ingest"
)

// gzipMagic is the two-byte gzip stream header. MRMS distributes files both
// raw and as .grib2.gz, so the decoder sniffs instead of trusting the
// extension.
var gzipMagic = []byte{0x1f, 0x8b}

// Decoder reads GRIB2 files under a base directory. Requested paths are
// resolved relative to the base and may not escape it.
type Decoder struct {
	baseDir string
}

// NewDecoder creates a Decoder rooted at baseDir. An empty baseDir accepts
// paths as given.
func NewDecoder(baseDir string) *Decoder {
	return &Decoder{baseDir: baseDir}
}

// Decode reads the first message of the GRIB2 file at path, transparently
// decompressing gzip, and returns its value array with the parameter identity
// resolved from the product table.
func (d *Decoder) Decode(ctx context.Context, path string) (*ingest.DecodedGrid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := d.resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ingest.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader, err := sniffGzip(f)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %s", ingest.ErrNoMessages, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ingest.ErrDecode, path, err)
	}

	messages, err := griblib.ReadMessages(reader)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: %s", ingest.ErrNoMessages, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ingest.ErrDecode, path, err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: %s", ingest.ErrNoMessages, path)
	}

	// MRMS files carry a single message per product; extras are ignored.
	m := messages[0]
	param := LookupParameter(
		m.Section0.Discipline,
		int(m.Section4.ProductDefinitionTemplate.ParameterCategory),
		int(m.Section4.ProductDefinitionTemplate.ParameterNumber),
	)

	values := make([]float32, len(m.Section7.Data))
	for i, v := range m.Section7.Data {
		values[i] = float32(v)
	}
	return &ingest.DecodedGrid{Values: values, Param: param}, nil
}

// resolve joins path onto the base directory and rejects traversal outside
// it.
func (d *Decoder) resolve(path string) (string, error) {
	if d.baseDir == "" {
		return path, nil
	}
	base := filepath.Clean(d.baseDir)
	full := filepath.Join(base, path)
	if full != base && !strings.HasPrefix(full, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes the grib directory", path)
	}
	return full, nil
}

// sniffGzip wraps f in a gzip reader when the stream starts with the gzip
// magic. An empty file surfaces the Peek io.EOF so the caller can report it
// as a no-message file rather than a parse failure.
func sniffGzip(f *os.File) (io.Reader, error) {
	br := bufio.NewReader(f)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil {
		return nil, err
	}
	if magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return gz, nil
	}
	return br, nil
}
