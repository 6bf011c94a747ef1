package pgexport

import (
	"context"

	"github.com/JonMunkholm/flatframe/internal/table"
)

// rowSource feeds table rows to pgx.CopyFrom, converting each cell to the
// pgtype matching its column.
type rowSource struct {
	ctx   context.Context
	t     *table.Table
	types []table.DType
	row   int
	vals  []any
	err   error
}

func newRowSource(ctx context.Context, t *table.Table) *rowSource {
	return &rowSource{
		ctx:   ctx,
		t:     t,
		types: t.ColumnTypes(),
		row:   -1,
		vals:  make([]any, t.ColumnCount()),
	}
}

func (s *rowSource) Next() bool {
	if s.err != nil {
		return false
	}
	s.row++
	if s.row >= s.t.RowCount() {
		return false
	}
	if s.row%max(ContextCheckInterval, 1) == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return false
		}
	}

	cells, err := s.t.Row(s.row)
	if err != nil {
		s.err = err
		return false
	}
	for j, cell := range cells {
		switch s.types[j] {
		case table.Integer:
			s.vals[j] = ToPgInt8(cell)
		case table.Float:
			s.vals[j] = ToPgFloat8(cell)
		default:
			s.vals[j] = ToPgText(cell)
		}
	}
	return true
}

func (s *rowSource) Values() ([]any, error) {
	return s.vals, nil
}

func (s *rowSource) Err() error {
	return s.err
}
