// Package pgexport copies a table into PostgreSQL.
//
// Export creates (or replaces) a destination table whose column types follow
// the inferred table types and bulk-loads every data row through the COPY
// protocol inside a single transaction:
//
//	INTEGER -> bigint
//	FLOAT   -> double precision
//	STRING  -> text
//
// Cells that are missing (Sentinel) or do not parse under the column type are
// written as NULL.
package pgexport

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/flatframe/internal/logging"
	"github.com/JonMunkholm/flatframe/internal/table"
)

// ContextCheckInterval is how often (in rows) the copy source checks for
// cancellation. Values below 1 check every row.
var ContextCheckInterval = 100

// ErrInvalidTarget reports an unusable destination name.
var ErrInvalidTarget = errors.New("invalid export target")

// Beginner starts transactions. *pgxpool.Pool and *pgx.Conn satisfy it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Options selects the destination of an export.
type Options struct {
	Schema  string // Defaults to "public"
	Table   string // Required
	Replace bool   // Drop an existing table first
}

// Result reports a finished export.
type Result struct {
	Schema   string        `json:"schema"`
	Table    string        `json:"table"`
	Rows     int64         `json:"rows"`
	Duration time.Duration `json:"duration"`
}

func (o Options) identifier() (pgx.Identifier, error) {
	schema := strings.TrimSpace(o.Schema)
	if schema == "" {
		schema = "public"
	}
	name := strings.TrimSpace(o.Table)
	if name == "" {
		return nil, fmt.Errorf("%w: table name is required", ErrInvalidTarget)
	}
	return pgx.Identifier{schema, name}, nil
}

// Export writes t to the destination named by opts. Either every row is
// committed or none is.
func Export(ctx context.Context, db Beginner, t *table.Table, opts Options) (Result, error) {
	start := time.Now()

	ident, err := opts.identifier()
	if err != nil {
		return Result{}, err
	}
	if err := checkColumnNames(t.FeatureNames()); err != nil {
		return Result{}, err
	}

	logger := logging.WithFields(ctx,
		"target", ident.Sanitize(),
		"rows", t.RowCount(),
		"columns", t.ColumnCount(),
	)

	tx, err := db.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	if opts.Replace {
		if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident.Sanitize()); err != nil {
			return Result{}, fmt.Errorf("drop %s: %w", ident.Sanitize(), err)
		}
	}
	if _, err := tx.Exec(ctx, CreateTableSQL(ident, t)); err != nil {
		return Result{}, fmt.Errorf("create %s: %w", ident.Sanitize(), describePgError(err))
	}

	n, err := tx.CopyFrom(ctx, ident, t.FeatureNames(), newRowSource(ctx, t))
	if err != nil {
		return Result{}, fmt.Errorf("copy into %s: %w", ident.Sanitize(), describePgError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	res := Result{
		Schema:   ident[0],
		Table:    ident[1],
		Rows:     n,
		Duration: time.Since(start),
	}
	logger.Info("table exported", "copied", n, "duration_ms", res.Duration.Milliseconds())
	return res, nil
}

// CreateTableSQL renders the CREATE TABLE statement for t at ident.
func CreateTableSQL(ident pgx.Identifier, t *table.Table) string {
	names := t.FeatureNames()
	types := t.ColumnTypes()

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(ident.Sanitize())
	b.WriteString(" (")
	for j, name := range names {
		if j > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgx.Identifier{name}.Sanitize())
		b.WriteByte(' ')
		b.WriteString(sqlType(types[j]))
	}
	b.WriteString(")")
	return b.String()
}

func sqlType(dt table.DType) string {
	switch dt {
	case table.Integer:
		return "bigint"
	case table.Float:
		return "double precision"
	default:
		return "text"
	}
}

func checkColumnNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty column name", ErrInvalidTarget)
		}
		if seen[name] {
			return fmt.Errorf("%w: column %q appears twice: %w", ErrInvalidTarget, name, table.ErrNameCollision)
		}
		seen[name] = true
	}
	return nil
}

// describePgError adds the server's detail and hint to a PostgreSQL error.
func describePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	msg := pgErr.Code + " " + pgErr.Message
	if pgErr.Detail != "" {
		msg += ": " + pgErr.Detail
	}
	if pgErr.Hint != "" {
		msg += " (hint: " + pgErr.Hint + ")"
	}
	return fmt.Errorf("%s: %w", msg, err)
}

/* ----------------------------------------
	Pgx Helpers
---------------------------------------- */

// ToPgInt8 converts an INTEGER cell. Whole-valued numbers in exponent form
// ("1e3") are accepted; anything else is NULL.
func ToPgInt8(s string) pgtype.Int8 {
	s = strings.TrimSpace(s)
	if s == "" || s == table.Sentinel {
		return pgtype.Int8{Valid: false}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return pgtype.Int8{Int64: i, Valid: true}
	}
	f, ok := table.ParseNumber(s)
	if !ok || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: int64(f), Valid: true}
}

// ToPgFloat8 converts a FLOAT cell.
func ToPgFloat8(s string) pgtype.Float8 {
	f, ok := table.ParseNumber(s)
	if !ok {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// ToPgText converts a STRING cell. Sentinel is NULL; every other value,
// including whitespace, is kept verbatim.
func ToPgText(s string) pgtype.Text {
	if s == table.Sentinel {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
