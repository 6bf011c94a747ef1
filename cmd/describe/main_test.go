package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/flatframe/internal/table"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCmd(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

const scores = "id,name,score\n1,ann,3.5\n2,bob,1.25\n3,cy,\n"

func TestRun_Stats(t *testing.T) {
	path := writeCSV(t, "scores.csv", scores)

	code, out, errOut := runCmd(path)
	require.Equal(t, 0, code, errOut)
	assert.True(t, strings.HasPrefix(out,
		"Statistics,id,name,score\ncount,3,3,2\nmean,2.000000,NAN,2.375000\n"), out)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 9)
}

func TestRun_Head(t *testing.T) {
	path := writeCSV(t, "scores.csv", scores)

	code, out, _ := runCmd("-mode", "head", "-n", "1", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "id,name,score\n1,ann,3.5\n", out)

	code, out, _ = runCmd("-mode", "head", "-n", "0", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "id,name,score\n", out)
}

func TestRun_Missing(t *testing.T) {
	path := writeCSV(t, "scores.csv", scores)

	code, out, _ := runCmd("-mode", "missing", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "id,name,score\n3,cy,NAN\n", out)
}

func TestRun_Info(t *testing.T) {
	path := writeCSV(t, "scores.csv", scores)

	code, out, _ := runCmd("-mode", "info", path)
	require.Equal(t, 0, code)

	var line struct {
		Path  string   `json:"path"`
		Rows  int      `json:"rows"`
		Types []string `json:"types"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &line))
	assert.Equal(t, path, line.Path)
	assert.Equal(t, 3, line.Rows)
	assert.Equal(t, []string{"INTEGER", "STRING", "FLOAT"}, line.Types)
}

func TestRun_MultipleFilesAndDelimiter(t *testing.T) {
	a := writeCSV(t, "a.csv", "x;y\n1;2\n")
	b := writeCSV(t, "b.csv", "x;y\n3;4\n")

	code, out, _ := runCmd("-mode", "head", "-d", ";", a, b)
	require.Equal(t, 0, code)
	assert.Equal(t, "==> "+a+" <==\nx;y\n1;2\n==> "+b+" <==\nx;y\n3;4\n", out)
}

func TestRun_SaveCompressed(t *testing.T) {
	path := writeCSV(t, "scores.csv", scores)
	dest := filepath.Join(t.TempDir(), "missing.csv.zst")

	code, _, errOut := runCmd("-mode", "missing", "-o", dest, path)
	require.Equal(t, 0, code, errOut)

	saved, err := table.Load(dest)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.RowCount())
	assert.Equal(t, []string{"id", "name", "score"}, saved.FeatureNames())
}

func TestRun_Errors(t *testing.T) {
	good := writeCSV(t, "scores.csv", scores)
	ragged := writeCSV(t, "ragged.csv", "a,b\n1\n")

	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"no files", nil, 2, "no input files"},
		{"unknown mode", []string{"-mode", "plot", good}, 2, "unknown mode"},
		{"bad delimiter", []string{"-d", "::", good}, 2, "single character"},
		{"bad sample", []string{"-sample", "0", good}, 2, "-sample"},
		{"output with info", []string{"-mode", "info", "-o", "x.csv", good}, 2, "-o"},
		{"bad flag", []string{"-bogus", good}, 2, "bogus"},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope.csv")}, 1, "FILE001"},
		{"ragged file", []string{ragged}, 1, "SCH001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCmd(tt.args...)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}
