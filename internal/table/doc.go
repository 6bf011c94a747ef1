// Package table is an in-memory tabular data container.
//
// A [Table] holds a header of feature names and a flat, row-major buffer of
// string cells. Column types (INTEGER, FLOAT, STRING) are inferred from the
// data and refreshed whenever an operation builds a new table.
//
// # Loading and Saving
//
// [Load] and [Read] parse comma-delimited text whose first line is the
// header. Blank fields become [Sentinel] ("NAN"). A line whose field count
// differs from the header fails the load with [ErrSchemaMismatch]. [Table.Save]
// and [Table.Write] produce the same format. Paths ending in .gz, .zst or
// .lz4 are (de)compressed transparently.
//
//	t, err := table.Load("iris.csv")
//	if err != nil {
//	    return err
//	}
//	stats, err := t.Statistics()
//
// # Addressing
//
// Data rows are numbered from 0 independently of the header: GetAt(0, j) is
// the first data row. Out-of-range indexes return [ErrIndexOutOfRange].
//
// # Transformations
//
// [Table.Cut], [Table.RowCut], [Table.ColumnCut], [Table.SelectColumns],
// [Table.SelectRows], [Table.NullOrNonNull], [RowConcat] and [ColumnConcat]
// return new tables that share no storage with their inputs. [Table.Sort],
// [Table.Shuffle], [Table.ReplaceAt] and [Table.RenameColumn] modify the
// receiver in place.
//
// # Statistics
//
// [Table.Quantile] and [Table.Quartiles] interpolate linearly at position
// (n-1)*q of the sorted non-missing values, so [1..8] has quartiles 2.75, 4.5
// and 6.25. The (n+1)*q/4-1 position rule is not used.
//
// # Errors
//
// Failures are *[Error] values whose kind is one of the Err* sentinels; use
// errors.Is to branch on them and [MapError] to obtain a coded user message.
package table
