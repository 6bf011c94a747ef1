// Command describe loads delimited text files and prints a summary of each:
// per-column statistics, shape and completeness, the leading rows, or the
// rows with missing cells.
//
//	describe [options] <file.csv> [file.csv.gz ...]
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/flatframe/internal/logging"
	"github.com/JonMunkholm/flatframe/internal/table"
)

// maxParallelLoads bounds how many files are parsed at once.
const maxParallelLoads = 4

type options struct {
	mode       string
	delimiter  rune
	sampleSize int
	head       int
	output     string
	logLevel   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		mode       = fs.String("mode", "stats", "what to print: stats, info, head, missing")
		delimiter  = fs.String("d", ",", "field delimiter (single character)")
		sampleSize = fs.Int("sample", table.DefaultSampleSize, "rows inspected by type inference")
		head       = fs.Int("n", 10, "rows printed by -mode head")
		output     = fs.String("o", "", "also save the result table here (compressed by extension); single input only")
		logLevel   = fs.String("log-level", "warn", "log level: debug, info, warn, error")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: describe [options] <file> [file ...]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	opts := options{
		mode:       *mode,
		sampleSize: *sampleSize,
		head:       *head,
		output:     *output,
		logLevel:   *logLevel,
	}
	if err := opts.setDelimiter(*delimiter); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if err := opts.validate(fs.NArg()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fs.Usage()
		return 2
	}

	logger := logging.New(stderr, opts.logLevel, "text")

	tables, err := loadAll(fs.Args(), opts, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", describeError(err))
		return 1
	}

	for i, path := range fs.Args() {
		if len(tables) > 1 && opts.mode != "info" {
			fmt.Fprintf(stdout, "==> %s <==\n", path)
		}
		if err := opts.print(stdout, path, tables[i], logger); err != nil {
			fmt.Fprintf(stderr, "Error: %s: %s\n", path, describeError(err))
			return 1
		}
	}
	return 0
}

func (o *options) setDelimiter(s string) error {
	if s == `\t` || s == "tab" {
		o.delimiter = '\t'
		return nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	o.delimiter, _ = utf8.DecodeRuneInString(s)
	if o.delimiter == '\n' || o.delimiter == '\r' {
		return errors.New("delimiter cannot be a line break")
	}
	return nil
}

func (o *options) validate(files int) error {
	switch o.mode {
	case "stats", "info", "head", "missing":
	default:
		return fmt.Errorf("unknown mode %q", o.mode)
	}
	if files == 0 {
		return errors.New("no input files")
	}
	if o.sampleSize < 1 {
		return errors.New("-sample must be at least 1")
	}
	if o.head < 0 {
		return errors.New("-n cannot be negative")
	}
	if o.output != "" && (files > 1 || o.mode == "info") {
		return errors.New("-o needs a single input and a table-producing mode")
	}
	return nil
}

// loadAll parses every file concurrently and returns the tables in argument
// order.
func loadAll(paths []string, o options, logger *slog.Logger) ([]*table.Table, error) {
	tables := make([]*table.Table, len(paths))

	var g errgroup.Group
	g.SetLimit(maxParallelLoads)
	for i, path := range paths {
		g.Go(func() error {
			t, err := table.Load(path,
				table.WithDelimiter(o.delimiter),
				table.WithSampleSize(o.sampleSize),
				table.WithLogger(logger.With("path", path)),
			)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

type infoLine struct {
	Path  string   `json:"path"`
	Types []string `json:"types"`
	table.Info
}

func (o options) print(w io.Writer, path string, t *table.Table, logger *slog.Logger) error {
	var out *table.Table
	switch o.mode {
	case "info":
		line := infoLine{Path: path, Info: t.Info()}
		for _, d := range t.ColumnTypes() {
			line.Types = append(line.Types, d.String())
		}
		return json.NewEncoder(w).Encode(line)
	case "stats":
		var err error
		if out, err = t.Statistics(); err != nil {
			return err
		}
	case "head":
		idx := make([]int, min(o.head, t.RowCount()))
		for i := range idx {
			idx[i] = i
		}
		var err error
		if out, err = t.SelectRows(idx); err != nil {
			return err
		}
	case "missing":
		out = t.RowsWithMissing()
	}

	if err := out.Write(w, table.WithDelimiter(o.delimiter)); err != nil {
		return err
	}
	if o.output != "" {
		if err := out.Save(o.output, table.WithDelimiter(o.delimiter), table.WithLogger(logger)); err != nil {
			return err
		}
		logger.Info("result saved", "path", o.output, "rows", out.RowCount())
	}
	return nil
}

// describeError renders err with its user-facing hint when it has one.
func describeError(err error) string {
	msg := table.MapError(err)
	if msg.Code == "ERR000" {
		return err.Error()
	}
	return fmt.Sprintf("%v (%s: %s)", err, msg.Code, msg.Action)
}
