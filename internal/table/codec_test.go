package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "abc.csv", "a,b,c\n1,2,3\n4,5,6\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, 3, tbl.ColumnCount())
	v, err := tbl.GetAt(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "2", v)
	assert.Equal(t, []DType{Integer, Integer, Integer}, tbl.ColumnTypes())
	assert.Equal(t, []string{"a", "b", "c"}, tbl.FeatureNames())
	assertBufferInvariant(t, tbl)
}

func TestLoad_MissingValuesBecomeSentinel(t *testing.T) {
	path := writeFile(t, "gaps.csv", "a,b\n1,\n,2\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "1", Sentinel, Sentinel, "2"}, tbl.Cells())
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MalformedRow(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    string
	}{
		{"short row", "a,b,c\n1,2,3\n4,5\n7,8,9\n", "line 3"},
		{"long row", "a,b\n1,2,3\n", "line 2"},
		{"blank line mid file", "a,b\n1,2\n\n3,4\n", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.csv", tt.content))
			require.ErrorIs(t, err, ErrSchemaMismatch)
			assert.Contains(t, err.Error(), tt.line)

			var te *Error
			require.ErrorAs(t, err, &te)
			assert.Equal(t, "Load", te.Op)
		})
	}
}

func TestRead_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRows int
		wantCols int
	}{
		{"header only", "a,b\n", 0, 2},
		{"no trailing newline", "a,b\n1,2", 1, 2},
		{"trailing blank lines ignored", "a,b\n1,2\n\n\n", 1, 2},
		{"CRLF line endings", "a,b\r\n1,2\r\n", 1, 2},
		{"single column blank line is a row", "a\n1\n\n2\n", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Read(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, tbl.RowCount())
			assert.Equal(t, tt.wantCols, tbl.ColumnCount())
			assertBufferInvariant(t, tbl)
		})
	}
}

func TestRead_CRLFStripped(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b\r\n1,2\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "1", "2"}, tbl.Cells())
}

func TestRead_EmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestRead_BOMAndInvalidUTF8(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,v\nh\x80i,1\n")...)

	tbl, err := Read(bytes.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "v"}, tbl.FeatureNames())
	v, err := tbl.GetAt(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "h?i", v)
}

func TestRead_Delimiter(t *testing.T) {
	tbl, err := Read(strings.NewReader("a;b\n1;2.5\n"), WithDelimiter(';'))
	require.NoError(t, err)
	assert.Equal(t, []DType{Integer, Float}, tbl.ColumnTypes())
}

func TestRead_SampleSizeInherited(t *testing.T) {
	input := "v\nx\n1\ny\n"

	tbl, err := Read(strings.NewReader(input), WithSampleSize(1))
	require.NoError(t, err)
	assert.Equal(t, String, tbl.ColumnTypes()[0])

	sub, err := tbl.RowCut(1, 3)
	require.NoError(t, err)
	assert.Equal(t, Integer, sub.ColumnTypes()[0])
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"out.csv", "out.csv.gz", "out.csv.zst", "out.csv.lz4"} {
		t.Run(name, func(t *testing.T) {
			src := sample(t)
			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, src.Save(path))
			got, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, src.Cells(), got.Cells())
			assert.Equal(t, src.ColumnTypes(), got.ColumnTypes())
		})
	}
}

func TestSave_CompressedOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv.gz")
	require.NoError(t, sample(t).Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2], "gzip magic")
}

func TestSave_Unwritable(t *testing.T) {
	err := sample(t).Save(filepath.Join(t.TempDir(), "missing", "dir", "out.csv"))
	assert.ErrorIs(t, err, ErrIO)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample(t).Write(&buf))

	assert.Equal(t, "id,name,score\n1,ann,3.5\n2,bob,1.25\n3,cy,NAN\n4,dee,2\n", buf.String())
}

func TestWrite_ForcedCompression(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample(t).Write(&buf, WithCompression(CompressionZstd)))

	got, err := Read(&buf, WithCompression(CompressionZstd))
	require.NoError(t, err)
	assert.Equal(t, sample(t).Cells(), got.Cells())
}

func TestCompressionFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Compression
	}{
		{"data.csv", CompressionNone},
		{"data.csv.gz", CompressionGzip},
		{"data.CSV.GZ", CompressionGzip},
		{"data.csv.zst", CompressionZstd},
		{"data.csv.lz4", CompressionLZ4},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, CompressionFromPath(tt.path))
		})
	}
}
