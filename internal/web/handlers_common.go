package web

// This file contains request parsing and response shaping shared across
// handlers.

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/flatframe/internal/table"
)

const (
	// maxJSONBody caps operation request bodies.
	maxJSONBody = 1 << 20

	defaultPageSize = 100
	maxPageSize     = 1000
)

// tableView is the JSON description of a workspace table.
type tableView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Source   string    `json:"source"`
	Created  time.Time `json:"created"`
	Rows     int       `json:"rows"`
	Columns  int       `json:"columns"`
	Features []string  `json:"features"`
	Types    []string  `json:"types"`
}

func summarize(e *Entry, t *table.Table) tableView {
	types := t.ColumnTypes()
	names := make([]string, len(types))
	for i, d := range types {
		names[i] = d.String()
	}
	return tableView{
		ID:       e.ID,
		Name:     e.Name,
		Source:   e.Source,
		Created:  e.Created,
		Rows:     t.RowCount(),
		Columns:  t.ColumnCount(),
		Features: t.FeatureNames(),
		Types:    names,
	}
}

// pageView is a window of data rows.
type pageView struct {
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Rows   [][]string `json:"rows"`
}

func page(t *table.Table, offset, limit int) pageView {
	p := pageView{Offset: offset, Limit: limit, Rows: [][]string{}}
	end := min(offset+limit, t.RowCount())
	for i := offset; i < end; i++ {
		row, _ := t.Row(i)
		p.Rows = append(p.Rows, row)
	}
	return p
}

// entry resolves the {id} URL parameter.
func (s *Server) entry(r *http.Request) (*Entry, error) {
	return s.lookup(chi.URLParam(r, "id"))
}

func (s *Server) lookup(raw string) (*Entry, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, badRequest("invalid table id %q", raw)
	}
	return s.workspace.Get(id)
}

// decodeJSON reads a bounded JSON body into v. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return badRequest("empty request body")
		}
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return 0, badRequest("%s must be a non-negative integer", name)
	}
	return i, nil
}

// parsePage reads offset and limit, clamping limit to maxPageSize.
func parsePage(r *http.Request) (offset, limit int, err error) {
	if offset, err = parseIntParam(r, "offset", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = parseIntParam(r, "limit", defaultPageSize); err != nil {
		return 0, 0, err
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit, nil
}

// parseDelimiter reads the single-character delimiter query parameter.
// Characters with meaning in a query string (";", "&", "+") must be
// percent-encoded; a query that fails to parse is rejected rather than read
// with the fallback.
func parseDelimiter(r *http.Request, fallback rune) (rune, error) {
	query, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return 0, badRequest("malformed query string (percent-encode the delimiter): %v", err)
	}
	val := query.Get("delimiter")
	if val == "" {
		return fallback, nil
	}
	if val == `\t` || strings.EqualFold(val, "tab") {
		return '\t', nil
	}
	if utf8.RuneCountInString(val) != 1 {
		return 0, badRequest("delimiter must be a single character")
	}
	d, _ := utf8.DecodeRuneInString(val)
	if d == '\n' || d == '\r' {
		return 0, badRequest("delimiter cannot be a line break")
	}
	return d, nil
}

// parseCompression maps a compression name to the codec constant. An empty
// name falls back to the file extension of filename.
func parseCompression(name, filename string) (table.Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return table.CompressionFromPath(filename), nil
	case "none":
		return table.CompressionNone, nil
	case "gzip", "gz":
		return table.CompressionGzip, nil
	case "zstd", "zst":
		return table.CompressionZstd, nil
	case "lz4":
		return table.CompressionLZ4, nil
	default:
		return 0, badRequest("unknown compression %q", name)
	}
}

// columnIndex resolves a column given by name or, failing that, by index.
func columnIndex(t *table.Table, ref string) (int, error) {
	if ref == "" {
		return 0, badRequest("column is required")
	}
	idx, err := t.ColumnIndex(ref)
	if err == nil {
		return idx, nil
	}
	if n, convErr := strconv.Atoi(ref); convErr == nil {
		return n, nil
	}
	return 0, err
}
