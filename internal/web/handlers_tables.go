package web

import (
	"cmp"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/JonMunkholm/flatframe/internal/logging"
	"github.com/JonMunkholm/flatframe/internal/table"
)

// handleUpload parses a CSV body into a new workspace table. The body is
// either raw CSV text or a multipart form with a "file" part. Query
// parameters: name, delimiter, compression, sampleSize.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.uploads.acquire(ctx); err != nil {
		respondError(w, r, err)
		return
	}
	defer s.uploads.release()

	q := r.URL.Query()
	delim, err := parseDelimiter(r, s.cfg.Engine.DelimiterRune())
	if err != nil {
		respondError(w, r, err)
		return
	}
	sampleSize, err := parseIntParam(r, "sampleSize", s.cfg.Engine.SampleSize)
	if err != nil {
		respondError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Engine.MaxUploadBytes)

	var (
		body     io.Reader = r.Body
		filename string
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, r, fileError(err))
			return
		}
		defer file.Close()
		body, filename = file, header.Filename
	}

	compression, err := parseCompression(q.Get("compression"), filename)
	if err != nil {
		respondError(w, r, err)
		return
	}

	log := logging.WithFields(ctx, "filename", filename, "compression", compression.String())
	t, err := table.Read(body,
		table.WithDelimiter(delim),
		table.WithSampleSize(sampleSize),
		table.WithCompression(compression),
		table.WithLogger(log),
	)
	if err != nil {
		respondError(w, r, err)
		return
	}

	name := q.Get("name")
	if name == "" && filename != "" {
		name = strings.TrimSuffix(filename, filepath.Ext(filename))
		if compression != table.CompressionNone {
			name = strings.TrimSuffix(name, filepath.Ext(name))
		}
	}
	e, err := s.workspace.Add(name, "upload", t)
	if err != nil {
		respondError(w, r, err)
		return
	}

	log.Info("table uploaded", "table_id", e.ID, "rows", t.RowCount(), "columns", t.ColumnCount())
	writeJSON(w, http.StatusCreated, summarize(e, t))
}

// fileError turns a multipart failure into a client error unless the body
// was too large, which keeps its own status.
func fileError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return badRequest("multipart body needs a \"file\" part: %v", err)
}

// handleListTables lists every workspace table.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	entries := s.workspace.All()
	views := make([]tableView, 0, len(entries))
	for _, e := range entries {
		_ = e.View(func(t *table.Table) error {
			views = append(views, summarize(e, t))
			return nil
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": views})
}

// handleGetTable describes one table with a page of its rows and its
// per-column completeness.
func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	offset, limit, err := parsePage(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var resp struct {
		tableView
		Info table.Info `json:"info"`
		Page pageView   `json:"page"`
	}
	_ = e.View(func(t *table.Table) error {
		resp.tableView = summarize(e, t)
		resp.Info = t.Info()
		resp.Page = page(t, offset, limit)
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteTable removes a table from the workspace.
func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.workspace.Remove(e.ID); err != nil {
		respondError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("table deleted", "table_id", e.ID, "name", e.Name)
	w.WriteHeader(http.StatusNoContent)
}

// handleDownloadCSV streams the table as CSV. Query parameters: delimiter,
// compression (none, gzip, zstd, lz4).
func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	delim, err := parseDelimiter(r, s.cfg.Engine.DelimiterRune())
	if err != nil {
		respondError(w, r, err)
		return
	}
	compression, err := parseCompression(r.URL.Query().Get("compression"), "")
	if err != nil {
		respondError(w, r, err)
		return
	}

	filename := e.Name + ".csv" + compressionExt(compression)
	contentType := "text/csv; charset=utf-8"
	if compression != table.CompressionNone {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))

	err = e.View(func(t *table.Table) error {
		return t.Write(w, table.WithDelimiter(delim), table.WithCompression(compression))
	})
	if err != nil {
		// Headers are gone; all that is left is to log
		logging.FromContext(r.Context()).Error("csv download failed", "table_id", e.ID, "error", err)
	}
}

func compressionExt(c table.Compression) string {
	switch c {
	case table.CompressionGzip:
		return ".gz"
	case table.CompressionZstd:
		return ".zst"
	case table.CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

type cellView struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Value  string `json:"value"`
}

// handleGetCell returns one cell. Query parameters: row, column (name or
// index).
func (s *Server) handleGetCell(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	row, err := strconv.Atoi(r.URL.Query().Get("row"))
	if err != nil {
		respondError(w, r, badRequest("row must be an integer"))
		return
	}

	var cell cellView
	err = e.View(func(t *table.Table) error {
		col, err := columnIndex(t, r.URL.Query().Get("column"))
		if err != nil {
			return err
		}
		v, err := t.GetAt(row, col)
		if err != nil {
			return err
		}
		cell = cellView{Row: row, Column: col, Value: v}
		return nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cell)
}

type replaceCellRequest struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`

	// Refresh re-infers column types after the write
	Refresh bool `json:"refresh"`
}

// handleReplaceCell overwrites one cell in place.
func (s *Server) handleReplaceCell(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req replaceCellRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	var view tableView
	var col int
	err = e.Update(func(t *table.Table) error {
		var err error
		if col, err = columnIndex(t, req.Column); err != nil {
			return err
		}
		if err := t.ReplaceAt(req.Row, col, req.Value); err != nil {
			return err
		}
		if req.Refresh {
			t.Refresh()
		}
		view = summarize(e, t)
		return nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("cell replaced", "table_id", e.ID, "row", req.Row, "column", col)
	writeJSON(w, http.StatusOK, view)
}

// handleStatistics returns the per-column summary table. With
// format=csv the summary is written as CSV; with store=true it is also
// added to the workspace.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var stats *table.Table
	err = e.View(func(t *table.Table) error {
		var statsErr error
		stats, statsErr = t.Statistics()
		return statsErr
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	q := r.URL.Query()
	if q.Get("store") == "true" {
		if _, err := s.workspace.Add(e.Name+"-statistics", "statistics of "+e.ID.String(), stats); err != nil {
			respondError(w, r, err)
			return
		}
	}
	if q.Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if err := stats.Write(w); err != nil {
			logging.FromContext(r.Context()).Error("statistics write failed", "table_id", e.ID, "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"features": stats.FeatureNames(),
		"rows":     page(stats, 0, stats.RowCount()).Rows,
	})
}

type uniqueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// handleUnique returns the distinct values of a column with their counts,
// most frequent first.
func (s *Server) handleUnique(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var counts map[string]int
	err = e.View(func(t *table.Table) error {
		col, err := columnIndex(t, r.URL.Query().Get("column"))
		if err != nil {
			return err
		}
		counts, err = t.UniqueCounts(col)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]uniqueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, uniqueCount{Value: v, Count: n})
	}
	slices.SortFunc(out, func(a, b uniqueCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	})
	writeJSON(w, http.StatusOK, map[string]any{"values": out})
}
