package web

// In-place mutations. Each one holds the entry's write lock for its whole
// duration and answers with the updated table description.

import (
	"math/rand/v2"
	"net/http"

	"github.com/JonMunkholm/flatframe/internal/logging"
	"github.com/JonMunkholm/flatframe/internal/table"
)

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, e *Entry, action string, fn func(*table.Table) error, attrs ...any) {
	var view tableView
	err := e.Update(func(t *table.Table) error {
		if err := fn(t); err != nil {
			return err
		}
		view = summarize(e, t)
		return nil
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	logging.WithFields(r.Context(), "table_id", e.ID, "action", action).Info("table modified", attrs...)
	writeJSON(w, http.StatusOK, view)
}

// sortRequest orders rows by a numeric column. Start and End, when both
// given, restrict the sort to rows Start..End inclusive.
type sortRequest struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
	Start     *int   `json:"start"`
	End       *int   `json:"end"`
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req sortRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	dir, err := table.ParseDirection(req.Direction)
	if err != nil {
		respondError(w, r, badRequest("%v", err))
		return
	}
	if (req.Start == nil) != (req.End == nil) {
		respondError(w, r, badRequest("start and end go together"))
		return
	}

	s.mutate(w, r, e, "sort", func(t *table.Table) error {
		col, err := columnIndex(t, req.Column)
		if err != nil {
			return err
		}
		if req.Start != nil {
			return t.SortRange(col, *req.Start, *req.End, dir)
		}
		return t.Sort(col, dir)
	}, "column", req.Column, "direction", dir.String())
}

// shuffleRequest permutes rows. Equal seeds give equal permutations; without
// a seed one is drawn and reported back in the log.
type shuffleRequest struct {
	Seed *uint64 `json:"seed"`
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req shuffleRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	}
	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}

	s.mutate(w, r, e, "shuffle", func(t *table.Table) error {
		t.Shuffle(seed)
		return nil
	}, "seed", seed)
}

type renameRequest struct {
	Column string `json:"column"`
	To     string `json:"to"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req renameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.To == "" {
		respondError(w, r, badRequest("to is required"))
		return
	}

	s.mutate(w, r, e, "rename", func(t *table.Table) error {
		col, err := columnIndex(t, req.Column)
		if err != nil {
			return err
		}
		return t.RenameColumn(col, req.To)
	}, "column", req.Column, "to", req.To)
}
