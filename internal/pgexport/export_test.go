package pgexport

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/flatframe/internal/table"
)

// fakeTx records the statements and copied rows of one transaction. Methods
// Export does not call fall through to the nil embedded interface.
type fakeTx struct {
	pgx.Tx

	execs      []string
	copyTarget pgx.Identifier
	copyCols   []string
	copied     [][]any
	execErr    error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeTx) CopyFrom(_ context.Context, ident pgx.Identifier, cols []string, src pgx.CopyFromSource) (int64, error) {
	f.copyTarget = ident
	f.copyCols = cols
	for src.Next() {
		vals, err := src.Values()
		if err != nil {
			return 0, err
		}
		f.copied = append(f.copied, append([]any(nil), vals...))
	}
	if err := src.Err(); err != nil {
		return 0, err
	}
	return int64(len(f.copied)), nil
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx       *fakeTx
	beginErr error
}

func (d *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	return d.tx, nil
}

func sample(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.NewFromRows([][]string{
		{"id", "name", "score"},
		{"1", "ann", "3.5"},
		{"2", "NAN", "1.25"},
		{"3", "cy", "NAN"},
	})
	require.NoError(t, err)
	return tbl
}

func TestExport(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}

	res, err := Export(context.Background(), db, sample(t), Options{Table: "scores", Replace: true})
	require.NoError(t, err)

	assert.Equal(t, "public", res.Schema)
	assert.Equal(t, "scores", res.Table)
	assert.Equal(t, int64(3), res.Rows)

	tx := db.tx
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	assert.Equal(t, []string{
		`DROP TABLE IF EXISTS "public"."scores"`,
		`CREATE TABLE "public"."scores" ("id" bigint, "name" text, "score" double precision)`,
	}, tx.execs)
	assert.Equal(t, pgx.Identifier{"public", "scores"}, tx.copyTarget)
	assert.Equal(t, []string{"id", "name", "score"}, tx.copyCols)

	require.Len(t, tx.copied, 3)
	assert.Equal(t, []any{
		pgtype.Int8{Int64: 2, Valid: true},
		pgtype.Text{Valid: false},
		pgtype.Float8{Float64: 1.25, Valid: true},
	}, tx.copied[1])
	assert.Equal(t, pgtype.Float8{Valid: false}, tx.copied[2][2])
}

func TestExport_NoReplace(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}

	_, err := Export(context.Background(), db, sample(t), Options{Schema: "stage", Table: "s"})
	require.NoError(t, err)
	require.Len(t, db.tx.execs, 1)
	assert.Contains(t, db.tx.execs[0], `CREATE TABLE "stage"."s"`)
}

func TestExport_Errors(t *testing.T) {
	dup, err := table.NewFromRows([][]string{{"a", "a"}, {"1", "2"}})
	require.NoError(t, err)

	tests := []struct {
		name    string
		db      *fakeDB
		tbl     *table.Table
		opts    Options
		wantErr error
	}{
		{"missing table name", &fakeDB{tx: &fakeTx{}}, sample(t), Options{}, ErrInvalidTarget},
		{"duplicate column", &fakeDB{tx: &fakeTx{}}, dup, Options{Table: "x"}, table.ErrNameCollision},
		{"begin fails", &fakeDB{beginErr: errors.New("no conn")}, sample(t), Options{Table: "x"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Export(context.Background(), tt.db, tt.tbl, tt.opts)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestExport_RollsBackOnFailure(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P07", Message: "relation already exists", Hint: "use replace"}
	tx := &fakeTx{execErr: pgErr}

	_, err := Export(context.Background(), &fakeDB{tx: tx}, sample(t), Options{Table: "scores"})
	require.Error(t, err)

	var got *pgconn.PgError
	assert.ErrorAs(t, err, &got)
	assert.Contains(t, err.Error(), "42P07")
	assert.Contains(t, err.Error(), "hint: use replace")
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
	assert.Empty(t, tx.copied)
}

func TestExport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tx := &fakeTx{}

	_, err := Export(ctx, &fakeDB{tx: tx}, sample(t), Options{Table: "scores"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, tx.committed)
}

func TestRowSource_ZeroCheckInterval(t *testing.T) {
	saved := ContextCheckInterval
	ContextCheckInterval = 0
	t.Cleanup(func() { ContextCheckInterval = saved })

	tbl := sample(t)
	src := newRowSource(context.Background(), tbl)
	rows := 0
	for src.Next() {
		rows++
	}
	require.NoError(t, src.Err())
	assert.Equal(t, tbl.RowCount(), rows)
}

func TestToPgInt8(t *testing.T) {
	tests := []struct {
		in   string
		want pgtype.Int8
	}{
		{"42", pgtype.Int8{Int64: 42, Valid: true}},
		{"+7", pgtype.Int8{Int64: 7, Valid: true}},
		{" -3 ", pgtype.Int8{Int64: -3, Valid: true}},
		{"1e3", pgtype.Int8{Int64: 1000, Valid: true}},
		{"2.5", pgtype.Int8{}},
		{"7kg", pgtype.Int8{}},
		{table.Sentinel, pgtype.Int8{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPgInt8(tt.in))
		})
	}
}

func TestToPgText(t *testing.T) {
	assert.Equal(t, pgtype.Text{}, ToPgText(table.Sentinel))
	assert.Equal(t, pgtype.Text{String: " x ", Valid: true}, ToPgText(" x "))
}
