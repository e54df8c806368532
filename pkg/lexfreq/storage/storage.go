// Package storage selects how frequency tables are written to and read from
// disk: plain text or one of the deflate, bzip2 and LZMA compressed formats.
package storage

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	dbzip2 "github.com/dsnet/compress/bzip2"
	"github.com/ulikunitz/xz"
)

// Codec identifies an output storage format.
type Codec int

const (
	Plain Codec = iota
	Deflate
	Bzip2
	LZMA
)

// Suffix returns the conventional file suffix for the codec.
func (c Codec) Suffix() string {
	switch c {
	case Deflate:
		return ".gz"
	case Bzip2:
		return ".bz2"
	case LZMA:
		return ".xz"
	}
	return ""
}

func (c Codec) String() string {
	switch c {
	case Deflate:
		return "deflate"
	case Bzip2:
		return "bzip2"
	case LZMA:
		return "lzma"
	}
	return "plain"
}

// FromFlags maps the mutually exclusive compression flags to a Codec.
// More than one set flag is a configuration error.
func FromFlags(deflate, bz, lz bool) (Codec, error) {
	n := 0
	c := Plain
	if deflate {
		n, c = n+1, Deflate
	}
	if bz {
		n, c = n+1, Bzip2
	}
	if lz {
		n, c = n+1, LZMA
	}
	if n > 1 {
		return Plain, fmt.Errorf("compression flags are mutually exclusive")
	}
	return c, nil
}

// FromName maps a config-file codec name to a Codec. The empty string and
// "plain" select uncompressed output.
func FromName(name string) (Codec, error) {
	switch name {
	case "", "plain":
		return Plain, nil
	case "deflate", "gzip":
		return Deflate, nil
	case "bzip2":
		return Bzip2, nil
	case "lzma", "xz":
		return LZMA, nil
	}
	return Plain, fmt.Errorf("unknown compression %q", name)
}

type compressedWriter struct {
	io.WriteCloser
	file *os.File
}

func (w *compressedWriter) Close() error {
	if err := w.WriteCloser.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Create opens path for writing through the codec.
func (c Codec) Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch c {
	case Plain:
		return f, nil
	case Deflate:
		return &compressedWriter{WriteCloser: gzip.NewWriter(f), file: f}, nil
	case Bzip2:
		w, err := dbzip2.NewWriter(f, nil)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &compressedWriter{WriteCloser: w, file: f}, nil
	case LZMA:
		w, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &compressedWriter{WriteCloser: w, file: f}, nil
	}
	f.Close()
	return nil, fmt.Errorf("unknown codec %d", c)
}

type compressedReader struct {
	io.Reader
	file   *os.File
	closer io.Closer // nil when the decompressor needs no Close
}

func (r *compressedReader) Close() error {
	if r.closer != nil {
		if err := r.closer.Close(); err != nil {
			r.file.Close()
			return err
		}
	}
	return r.file.Close()
}

// Open opens path for reading through the codec.
func (c Codec) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch c {
	case Plain:
		return f, nil
	case Deflate:
		r, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &compressedReader{Reader: r, file: f, closer: r}, nil
	case Bzip2:
		return &compressedReader{Reader: bzip2.NewReader(f), file: f}, nil
	case LZMA:
		r, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &compressedReader{Reader: r, file: f}, nil
	}
	f.Close()
	return nil, fmt.Errorf("unknown codec %d", c)
}
