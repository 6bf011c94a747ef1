package web

// Operations that derive a new workspace table from existing ones. The
// source tables are only read; results are stored under a fresh ID and
// returned with status 201.

import (
	"net/http"

	"github.com/JonMunkholm/flatframe/internal/logging"
	"github.com/JonMunkholm/flatframe/internal/matrix"
	"github.com/JonMunkholm/flatframe/internal/table"
)

// derive runs op against e's table under a read lock and stores the result.
func (s *Server) derive(w http.ResponseWriter, r *http.Request, e *Entry, name, verb string, op func(*table.Table) (*table.Table, error)) {
	var out *table.Table
	err := e.View(func(t *table.Table) error {
		var opErr error
		out, opErr = op(t)
		return opErr
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.store(w, r, name, verb+" of "+e.ID.String(), out)
}

func (s *Server) store(w http.ResponseWriter, r *http.Request, name, source string, t *table.Table) {
	child, err := s.workspace.Add(name, source, t)
	if err != nil {
		respondError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("table derived",
		"table_id", child.ID,
		"source", source,
		"rows", t.RowCount(),
		"columns", t.ColumnCount(),
	)
	writeJSON(w, http.StatusCreated, summarize(child, t))
}

// cutRequest selects the half-open window [RowStart, RowEnd) x
// [ColumnStart, ColumnEnd). Omitted bounds default to the full extent.
type cutRequest struct {
	Name        string `json:"name"`
	RowStart    *int   `json:"rowStart"`
	RowEnd      *int   `json:"rowEnd"`
	ColumnStart *int   `json:"columnStart"`
	ColumnEnd   *int   `json:"columnEnd"`
}

func orDefault(p *int, v int) int {
	if p == nil {
		return v
	}
	return *p
}

func (s *Server) handleCut(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req cutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	s.derive(w, r, e, req.Name, "cut", func(t *table.Table) (*table.Table, error) {
		return t.Cut(
			orDefault(req.RowStart, 0), orDefault(req.RowEnd, t.RowCount()),
			orDefault(req.ColumnStart, 0), orDefault(req.ColumnEnd, t.ColumnCount()),
		)
	})
}

// selectRequest projects columns (by name or index, not both) and then
// picks data rows by index. Indexes may repeat.
type selectRequest struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Indexes []int    `json:"indexes"`
	Rows    []int    `json:"rows"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req selectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if len(req.Columns) > 0 && len(req.Indexes) > 0 {
		respondError(w, r, badRequest("give columns or indexes, not both"))
		return
	}
	if req.Columns == nil && req.Indexes == nil && req.Rows == nil {
		respondError(w, r, badRequest("nothing to select"))
		return
	}

	s.derive(w, r, e, req.Name, "select", func(t *table.Table) (*table.Table, error) {
		out := t
		var err error
		switch {
		case len(req.Columns) > 0:
			out, err = t.SelectColumnsByName(req.Columns)
		case len(req.Indexes) > 0:
			out, err = t.SelectColumns(req.Indexes)
		}
		if err != nil {
			return nil, err
		}
		if req.Rows != nil {
			return out.SelectRows(req.Rows)
		}
		if out == t {
			return t.Clone(), nil
		}
		return out, nil
	})
}

// filterRequest keeps rows with a missing cell in any Null column or a
// present cell in any NonNull column. Missing keeps rows with any missing
// cell and cannot be combined with the other criteria.
type filterRequest struct {
	Name    string   `json:"name"`
	Null    []string `json:"null"`
	NonNull []string `json:"nonNull"`
	Missing bool     `json:"missing"`
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req filterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	criteria := len(req.Null) + len(req.NonNull)
	if req.Missing == (criteria > 0) {
		respondError(w, r, badRequest("give either missing or null/nonNull columns"))
		return
	}

	s.derive(w, r, e, req.Name, "filter", func(t *table.Table) (*table.Table, error) {
		if req.Missing {
			return t.RowsWithMissing(), nil
		}
		return t.NullOrNonNullByName(req.Null, req.NonNull)
	})
}

// handleCorrelation derives the Pearson correlation matrix of an
// all-numeric table.
func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.derive(w, r, e, e.Name+"-correlation", "correlation", matrix.Correlation)
}

// concatRequest joins two workspace tables. Axis is "rows" (stack Right
// under Left) or "columns" (place Right beside Left).
type concatRequest struct {
	Name  string `json:"name"`
	Left  string `json:"left"`
	Right string `json:"right"`
	Axis  string `json:"axis"`
}

func (s *Server) handleConcat(w http.ResponseWriter, r *http.Request) {
	var req concatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	var join func(a, b *table.Table) (*table.Table, error)
	switch req.Axis {
	case "rows", "":
		join = table.RowConcat
	case "columns":
		join = table.ColumnConcat
	default:
		respondError(w, r, badRequest("axis must be rows or columns"))
		return
	}

	left, err := s.lookup(req.Left)
	if err != nil {
		respondError(w, r, err)
		return
	}
	right, err := s.lookup(req.Right)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var out *table.Table
	err = ViewPair(left, right, func(a, b *table.Table) error {
		var joinErr error
		out, joinErr = join(a, b)
		return joinErr
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.store(w, r, req.Name, "concat of "+left.ID.String()+" and "+right.ID.String(), out)
}
