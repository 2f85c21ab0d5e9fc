// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sheets

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bic-lab/audiogram-tools/pkg/types"
)

func writeJSON(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func openWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestConvert(t *testing.T) {
	in := t.TempDir()
	writeJSON(t, in, "patients.json", `[
		{"id": 1, "name": "A", "tags": ["left", "right"], "meta": {"k": "v"}},
		{"id": 2.5, "age": 40, "active": true, "note": null}
	]`)
	writeJSON(t, in, "single.json", `{"ear": "left", "db": 25}`)
	writeJSON(t, in, "broken.json", `{"ear": `)
	writeJSON(t, in, "scalars.json", `[1, 2]`)
	writeJSON(t, in, "readme.txt", `ignored`)

	out := filepath.Join(t.TempDir(), "out.xlsx")
	var log bytes.Buffer
	summary, err := NewConverter(types.SheetsConfig{}).Convert(in, out, &log)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Sheets)
	assert.Equal(t, 2, summary.Skipped)
	assert.Contains(t, log.String(), "skipped: broken.json")
	assert.Contains(t, log.String(), "skipped: scalars.json (item 0 is not an object)")
	assert.Contains(t, log.String(), "processed: patients.json")

	f := openWorkbook(t, out)
	assert.Equal(t, []string{"patients", "single"}, f.GetSheetList())

	rows, err := f.GetRows("patients")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"active", "age", "id", "meta", "name", "note", "tags"}, rows[0])
	assert.Equal(t, []string{"", "", "1", `{"k":"v"}`, "A", "", "left, right"}, padRow(rows[1], 7))
	assert.Equal(t, []string{"TRUE", "40", "2.5"}, rows[2][:3])

	rows, err = f.GetRows("single")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"db", "ear"}, {"25", "left"}}, rows)
}

// padRow extends row to n cells; GetRows trims trailing empty cells.
func padRow(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}

func TestConvertNoData(t *testing.T) {
	in := t.TempDir()
	writeJSON(t, in, "broken.json", `nope`)
	out := filepath.Join(t.TempDir(), "out.xlsx")

	var log bytes.Buffer
	summary, err := NewConverter(types.SheetsConfig{}).Convert(in, out, &log)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Sheets)
	assert.Contains(t, log.String(), "No valid JSON data")

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestConvertMissingFolder(t *testing.T) {
	_, err := NewConverter(types.SheetsConfig{}).Convert(filepath.Join(t.TempDir(), "nope"), "out.xlsx", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestConvertKeepsFileNamedSheet1(t *testing.T) {
	in := t.TempDir()
	writeJSON(t, in, "Sheet1.json", `[{"a": 1}]`)
	writeJSON(t, in, "z.json", `[{"b": 2}]`)
	out := filepath.Join(t.TempDir(), "out.xlsx")

	_, err := NewConverter(types.SheetsConfig{}).Convert(in, out, &bytes.Buffer{})
	require.NoError(t, err)

	f := openWorkbook(t, out)
	assert.Equal(t, []string{"Sheet1", "z"}, f.GetSheetList())
	v, err := f.GetCellValue("Sheet1", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestColumnWidths(t *testing.T) {
	in := t.TempDir()
	writeJSON(t, in, "w.json", `[{"short": "x", "long": "`+strings.Repeat("y", 200)+`"}]`)
	out := filepath.Join(t.TempDir(), "out.xlsx")

	_, err := NewConverter(types.SheetsConfig{MaxColumnWidth: 50}).Convert(in, out, &bytes.Buffer{})
	require.NoError(t, err)

	f := openWorkbook(t, out)
	long, err := f.GetColWidth("w", "A")
	require.NoError(t, err)
	short, err := f.GetColWidth("w", "B")
	require.NoError(t, err)
	assert.Equal(t, 50.0, long)
	assert.Equal(t, float64(minColumnWidth), short)
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "report", SheetName("report", used))
	assert.Equal(t, "a_b_c", SheetName("a/b?c", used))

	long := strings.Repeat("x", 40)
	first := SheetName(long, used)
	assert.Equal(t, strings.Repeat("x", 31), first)

	used[strings.ToLower(first)] = true
	second := SheetName(long, used)
	assert.Equal(t, strings.Repeat("x", 30)+"1", second)

	used["dup"] = true
	assert.Equal(t, "DUP1", SheetName("DUP", used))
	assert.Equal(t, "sheet", SheetName("''", used))
}

func TestCellValue(t *testing.T) {
	table, err := loadString(t, `[{"n": 3, "f": 0.5, "s": "x", "l": [1, "a", true, null], "o": {"z": [1]}, "b": false}]`)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	row := map[string]any{}
	for i, h := range table.Headers {
		row[h] = table.Rows[0][i]
	}
	assert.Equal(t, int64(3), row["n"])
	assert.Equal(t, 0.5, row["f"])
	assert.Equal(t, "x", row["s"])
	assert.Equal(t, "1, a, True, None", row["l"])
	assert.Equal(t, `{"z":[1]}`, row["o"])
	assert.Equal(t, false, row["b"])
}

func loadString(t *testing.T, body string) (Table, error) {
	t.Helper()
	dir := t.TempDir()
	writeJSON(t, dir, "x.json", body)
	return LoadTable(filepath.Join(dir, "x.json"))
}
