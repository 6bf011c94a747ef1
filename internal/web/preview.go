package web

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/flatframe/internal/logging"
	"github.com/JonMunkholm/flatframe/internal/table"
)

const previewRows = 50

// previewData is a snapshot taken under the entry's read lock so rendering
// never touches the live table.
type previewData struct {
	Name     string
	ID       string
	Rows     int
	Features []string
	Types    []table.DType
	Page     [][]string
}

// previewPage renders an HTML preview of the first rows of a table.
func previewPage(d previewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		esc := templ.EscapeString[string]
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>%s</title>`+
			`<style>table{border-collapse:collapse;font-family:monospace}td,th{border:1px solid #ccc;padding:2px 6px}`+
			`th small{color:#888;font-weight:normal}.nan{color:#c33}</style></head><body>`,
			esc(d.Name)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<h1>%s</h1><p>%s &middot; %d rows, %d columns (showing %d)</p><table><thead><tr>`,
			esc(d.Name), esc(d.ID), d.Rows, len(d.Features), len(d.Page)); err != nil {
			return err
		}
		for j, name := range d.Features {
			if _, err := fmt.Fprintf(w, `<th>%s<br><small>%s</small></th>`, esc(name), d.Types[j]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</tr></thead><tbody>`); err != nil {
			return err
		}
		for _, row := range d.Page {
			if _, err := io.WriteString(w, `<tr>`); err != nil {
				return err
			}
			for _, cell := range row {
				class := ""
				if cell == table.Sentinel {
					class = ` class="nan"`
				}
				if _, err := fmt.Fprintf(w, `<td%s>%s</td>`, class, esc(cell)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</tr>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table></body></html>`)
		return err
	})
}

// handlePreview serves the HTML preview page.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	e, err := s.entry(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var d previewData
	_ = e.View(func(t *table.Table) error {
		d = previewData{
			Name:     e.Name,
			ID:       e.ID.String(),
			Rows:     t.RowCount(),
			Features: t.FeatureNames(),
			Types:    t.ColumnTypes(),
			Page:     page(t, 0, previewRows).Rows,
		}
		return nil
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewPage(d).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("preview render failed", "table_id", e.ID, "error", err)
	}
}
