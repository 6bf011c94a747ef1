package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/flatframe/internal/logging"
	"github.com/JonMunkholm/flatframe/internal/pgexport"
	"github.com/JonMunkholm/flatframe/internal/table"
)

type exportRequest struct {
	Table   string `json:"table"`
	Schema  string `json:"schema"`
	Replace bool   `json:"replace"`
}

// handleExport copies a workspace table into PostgreSQL. The table is held
// under a read lock until the COPY finishes.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		respondError(w, r, ErrExportDisabled)
		return
	}
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req exportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	opts := pgexport.Options{Schema: req.Schema, Table: req.Table, Replace: req.Replace}
	if opts.Schema == "" {
		opts.Schema = s.cfg.Export.Schema
	}
	if opts.Table == "" {
		opts.Table = e.Name
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Export.Timeout)
	defer cancel()

	var res pgexport.Result
	err = e.View(func(t *table.Table) error {
		var exportErr error
		res, exportErr = pgexport.Export(ctx, s.db, t, opts)
		return exportErr
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("table exported",
		"table_id", e.ID,
		"target", res.Schema+"."+res.Table,
		"rows", res.Rows,
	)
	writeJSON(w, http.StatusOK, res)
}

// handleHealth reports liveness plus workspace and upload pressure.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"tables":  s.workspace.Len(),
		"uploads": s.uploads.status(),
		"export":  s.db != nil,
	})
}
