// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sheets aggregates a folder of JSON files into one XLSX workbook,
// one sheet per file.
package sheets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/bic-lab/audiogram-tools/pkg/types"
)

const (
	// maxSheetName is the Excel limit on sheet name length.
	maxSheetName = 31

	// DefaultMaxColumnWidth caps computed column widths, in characters.
	DefaultMaxColumnWidth = 80

	minColumnWidth = 8
	defaultSheet   = "Sheet1"
)

// Summary holds the outcome of a conversion run.
type Summary struct {
	Sheets  int
	Skipped int
}

// Table is one parsed JSON file: sorted headers and rendered cell rows.
type Table struct {
	Headers []string
	Rows    [][]any
}

// Converter writes JSON folders to workbooks.
type Converter struct {
	maxWidth float64
}

// NewConverter applies defaults to cfg.
func NewConverter(cfg types.SheetsConfig) *Converter {
	w := cfg.MaxColumnWidth
	if w <= 0 {
		w = DefaultMaxColumnWidth
	}
	return &Converter{maxWidth: w}
}

// Convert reads every *.json file in inputDir and saves one sheet per file
// to outPath. Files that cannot be parsed are reported to w and skipped.
// When no file yields a sheet nothing is written and Summary.Sheets is 0.
func (c *Converter) Convert(inputDir, outPath string, w io.Writer) (Summary, error) {
	entries, err := os.ReadDir(inputDir)
	if errors.Is(err, fs.ErrNotExist) {
		return Summary{}, fmt.Errorf("input folder %s does not exist", inputDir)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("reading input folder %s: %w", inputDir, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	var summary Summary
	used := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		table, err := LoadTable(filepath.Join(inputDir, e.Name()))
		if err != nil {
			fmt.Fprintf(w, "skipped: %s (%v)\n", e.Name(), err)
			summary.Skipped++
			continue
		}

		name := SheetName(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), used)
		if err := c.writeSheet(f, name, table); err != nil {
			if !strings.EqualFold(name, defaultSheet) {
				f.DeleteSheet(name)
			}
			fmt.Fprintf(w, "skipped: %s (%v)\n", e.Name(), err)
			summary.Skipped++
			continue
		}
		used[strings.ToLower(name)] = true
		summary.Sheets++
		fmt.Fprintf(w, "processed: %s\n", e.Name())
	}

	if summary.Sheets == 0 {
		fmt.Fprintln(w, "No valid JSON data found in the input folder.")
		return summary, nil
	}

	// A new workbook always carries a default sheet; drop it unless a
	// file claimed its name.
	if !used[strings.ToLower(defaultSheet)] {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return summary, fmt.Errorf("removing default sheet: %w", err)
		}
	}
	f.SetActiveSheet(0)
	if err := f.SaveAs(outPath); err != nil {
		return summary, fmt.Errorf("saving workbook %s: %w", outPath, err)
	}
	fmt.Fprintf(w, "\nSheets summary: %d sheets, %d skipped, saved as %s\n", summary.Sheets, summary.Skipped, outPath)
	return summary, nil
}

func (c *Converter) writeSheet(f *excelize.File, name string, t Table) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}

	widths := make([]int, len(t.Headers))
	for col, h := range t.Headers {
		if err := setCell(f, name, col+1, 1, h); err != nil {
			return err
		}
		widths[col] = utf8.RuneCountInString(h)
	}
	for r, row := range t.Rows {
		for col, v := range row {
			if err := setCell(f, name, col+1, r+2, v); err != nil {
				return err
			}
			if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	for col, n := range widths {
		letter, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, letter, letter, c.columnWidth(n)); err != nil {
			return fmt.Errorf("sizing column %s: %w", letter, err)
		}
	}
	return nil
}

func (c *Converter) columnWidth(chars int) float64 {
	w := float64(chars + 2)
	if w < minColumnWidth {
		w = minColumnWidth
	}
	if w > c.maxWidth {
		w = c.maxWidth
	}
	return w
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// LoadTable parses a JSON file holding an object or a list of objects.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("reading %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Table{}, fmt.Errorf("parsing JSON: %w", err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	default:
		items = []any{v}
	}

	records := make([]map[string]any, 0, len(items))
	keys := map[string]bool{}
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return Table{}, fmt.Errorf("item %d is not an object", i)
		}
		for k := range m {
			keys[k] = true
		}
		records = append(records, m)
	}

	t := Table{Headers: make([]string, 0, len(keys))}
	for k := range keys {
		t.Headers = append(t.Headers, k)
	}
	sort.Strings(t.Headers)

	for _, m := range records {
		row := make([]any, len(t.Headers))
		for col, h := range t.Headers {
			row[col] = CellValue(m[h])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// CellValue converts a decoded JSON value to what is stored in a cell:
// lists are joined with ", ", objects become compact JSON, null and missing
// values become empty strings, and numbers stay numeric.
func CellValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = scalarText(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return compactJSON(x)
	default:
		return x
	}
}

func scalarText(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case json.Number:
		return x.String()
	default:
		return compactJSON(x)
	}
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// SheetName derives a valid, unused sheet name from a file base name.
// Characters Excel rejects are replaced with "_", the result is truncated
// to 31 characters, and a numeric suffix resolves collisions. used holds
// lower-cased names already taken.
func SheetName(base string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, base)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "sheet"
	}
	name = truncate(name, maxSheetName)

	candidate := name
	for i := 1; used[strings.ToLower(candidate)]; i++ {
		suffix := strconv.Itoa(i)
		candidate = truncate(name, maxSheetName-len(suffix)) + suffix
	}
	return candidate
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
