package table

// codec.go reads delimited text into a Table and writes it back.
//
// The format is deliberately minimal: first line is the header, one data row
// per following line, a single delimiter rune, no quoting or escaping. Every
// data line must have exactly as many fields as the header; a short or long
// line fails the load with ErrSchemaMismatch instead of shifting the
// addressing of every row after it.

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// maxLineBytes bounds a single CSV line.
const maxLineBytes = 16 << 20

// Option configures the codec.
type Option func(*codecOptions)

type codecOptions struct {
	delim       rune
	sampleSize  int
	logger      *slog.Logger
	compression Compression
	detect      bool
}

func newCodecOptions(opts []Option) codecOptions {
	o := codecOptions{
		delim:      DefaultDelimiter,
		sampleSize: DefaultSampleSize,
		logger:     slog.Default(),
		detect:     true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDelimiter sets the field separator. Default ','.
func WithDelimiter(delim rune) Option {
	return func(o *codecOptions) {
		if delim != 0 {
			o.delim = delim
		}
	}
}

// WithSampleSize sets how many leading rows type inference inspects for the
// loaded table and every table derived from it. Default 100.
func WithSampleSize(n int) Option {
	return func(o *codecOptions) {
		if n > 0 {
			o.sampleSize = n
		}
	}
}

// WithLogger routes codec diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *codecOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCompression forces a compression format instead of detecting it from
// the file extension. Read and Write use CompressionNone unless this is set.
func WithCompression(c Compression) Option {
	return func(o *codecOptions) {
		o.compression = c
		o.detect = false
	}
}

// Load reads the CSV file at path, infers column types and returns the
// table. Files ending in .gz, .zst or .lz4 are decompressed transparently.
func Load(path string, opts ...Option) (*Table, error) {
	o := newCodecOptions(opts)
	if o.detect {
		o.compression = CompressionFromPath(path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, wrapError("Load", ErrFileNotFound, err, "%s", path)
		}
		return nil, wrapError("Load", ErrIO, err, "%s", path)
	}
	defer f.Close()

	t, n, err := read(f, o)
	if err != nil {
		if te, ok := err.(*Error); ok {
			te.Op = "Load"
			te.Detail = path + ": " + te.Detail
		}
		return nil, err
	}

	o.logger.Debug("table loaded",
		"path", path,
		"rows", t.rows,
		"columns", t.cols,
		"bytes", n,
		"compression", o.compression.String(),
	)
	return t, nil
}

// Read parses CSV text from r.
func Read(r io.Reader, opts ...Option) (*Table, error) {
	o := newCodecOptions(opts)
	if o.detect {
		o.compression = CompressionNone
	}
	t, n, err := read(r, o)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("table read", "rows", t.rows, "columns", t.cols, "bytes", n)
	return t, nil
}

func read(r io.Reader, o codecOptions) (*Table, int64, error) {
	src, release, err := decompress(r, o.compression)
	if err != nil {
		return nil, 0, wrapError("Read", ErrIO, err, "open %s stream", o.compression)
	}
	defer release()

	counter := &countingReader{r: src}
	sc := bufio.NewScanner(newBOMSkippingReader(counter))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, counter.n, wrapError("Read", ErrIO, err, "reading header")
		}
		return nil, counter.n, newError("Read", ErrSchemaMismatch, "empty file")
	}
	header := Tokenize(cleanLine(sc.Text()), o.delim)
	cols := len(header)

	var (
		data    []string
		rows    int
		lineNo  = 1
		blanks  []int // line numbers of blank lines not yet committed
		addLine = func(n int, line string) error {
			fields := Tokenize(line, o.delim)
			if len(fields) != cols {
				return newError("Read", ErrSchemaMismatch,
					"line %d has %d fields, header has %d", n, len(fields), cols)
			}
			data = append(data, fields...)
			rows++
			return nil
		}
	)

	for sc.Scan() {
		lineNo++
		line := cleanLine(sc.Text())
		if line == "" {
			blanks = append(blanks, lineNo)
			continue
		}
		// Blank lines in the middle of the file are real (all-missing) rows.
		for _, n := range blanks {
			if err := addLine(n, ""); err != nil {
				return nil, counter.n, err
			}
		}
		blanks = blanks[:0]
		if err := addLine(lineNo, line); err != nil {
			return nil, counter.n, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, counter.n, wrapError("Read", ErrIO, err, "line %d", lineNo+1)
	}

	return build(header, data, rows, cols, o.sampleSize), counter.n, nil
}

// cleanLine strips a CRLF remainder and replaces invalid UTF-8 with '?'.
func cleanLine(s string) string {
	s = strings.TrimSuffix(s, "\r")
	return strings.ToValidUTF8(s, "?")
}

// Save writes the table to path, header first, one row per line. The file
// is compressed when path ends in .gz, .zst or .lz4.
func (t *Table) Save(path string, opts ...Option) error {
	o := newCodecOptions(opts)
	if o.detect {
		o.compression = CompressionFromPath(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return wrapError("Save", ErrIO, err, "%s", path)
	}
	if err := t.write(f, o); err != nil {
		f.Close()
		return wrapError("Save", ErrIO, err, "%s", path)
	}
	if err := f.Close(); err != nil {
		return wrapError("Save", ErrIO, err, "%s", path)
	}

	o.logger.Debug("table saved",
		"path", path,
		"rows", t.rows,
		"columns", t.cols,
		"compression", o.compression.String(),
	)
	return nil
}

// Write serializes the table to w in the same format Save produces.
func (t *Table) Write(w io.Writer, opts ...Option) error {
	o := newCodecOptions(opts)
	if o.detect {
		o.compression = CompressionNone
	}
	if err := t.write(w, o); err != nil {
		return wrapError("Write", ErrIO, err, "")
	}
	return nil
}

func (t *Table) write(w io.Writer, o codecOptions) error {
	cw, err := compress(w, o.compression)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(cw)
	sep := string(o.delim)

	if _, err := bw.WriteString(strings.Join(t.header, sep) + "\n"); err != nil {
		return err
	}
	for i := 0; i < t.rows; i++ {
		start := t.offset(i, 0)
		if _, err := bw.WriteString(strings.Join(t.data[start:start+t.cols], sep) + "\n"); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return cw.Close()
}
