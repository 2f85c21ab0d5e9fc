// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rasterize renders every page of a PDF file, or of every PDF in a
// directory, to PNG images named <base>_page_<n>.png.
package rasterize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidInput is returned when the input is neither a PDF file nor a directory.
var ErrInvalidInput = errors.New("invalid input path: provide a PDF file or a directory containing PDF files")

// PageCounter reports the number of pages in a PDF.
type PageCounter interface {
	NumPages(pdfPath string) (int, error)
}

// Renderer writes one PDF page, 1-based, to w as PNG.
type Renderer interface {
	Render(pdfPath string, page int, w io.Writer) error
}

// BatchResult holds the outcome of a rasterization run.
type BatchResult struct {
	Converted int
	Failed    int
	Pages     int
}

// Total returns the number of PDF files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Rasterizer pairs a page counter with a renderer.
type Rasterizer struct {
	Pages    PageCounter
	Renderer Renderer
}

// PageFile returns the output name for page (1-based) of pdfPath.
func PageFile(pdfPath string, page int) string {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return fmt.Sprintf("%s_page_%d.png", base, page)
}

// File renders every page of pdfPath into outDir, creating outDir if
// needed, and returns the number of pages written.
func (r *Rasterizer) File(pdfPath, outDir string, w io.Writer) (int, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", outDir, err)
	}

	n, err := r.Pages.NumPages(pdfPath)
	if err != nil {
		return 0, err
	}

	for page := 1; page <= n; page++ {
		out := filepath.Join(outDir, PageFile(pdfPath, page))
		if err := r.renderTo(pdfPath, page, out); err != nil {
			return page - 1, err
		}
		fmt.Fprintf(w, "saved %s\n", out)
	}
	return n, nil
}

func (r *Rasterizer) renderTo(pdfPath string, page int, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := r.Renderer.Render(pdfPath, page, f); err != nil {
		f.Close()
		os.Remove(out)
		return fmt.Errorf("rendering page %d of %s: %w", page, pdfPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(out)
		return fmt.Errorf("closing %s: %w", out, err)
	}
	return nil
}

// Batch rasterizes each PDF in turn. A failing file is reported to w and
// counted; the batch continues.
func (r *Rasterizer) Batch(pdfPaths []string, outDir string, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range pdfPaths {
		n, err := r.File(p, outDir, w)
		result.Pages += n
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(p), err)
			result.Failed++
			continue
		}
		result.Converted++
	}
	fmt.Fprintf(w, "\nRasterize summary: %d converted, %d failed, %d pages (total: %d)\n",
		result.Converted, result.Failed, result.Pages, result.Total())
	return result
}

// Run rasterizes input, which is a single .pdf file or a directory whose
// .pdf entries (case-insensitive, lexical order) are processed.
func (r *Rasterizer) Run(input, outDir string, w io.Writer) (BatchResult, error) {
	paths, err := ResolveInputs(input)
	if err != nil {
		return BatchResult{}, err
	}
	return r.Batch(paths, outDir, w), nil
}

// ResolveInputs expands input into the list of PDF paths to process.
func ResolveInputs(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !info.IsDir() {
		if !isPDF(input) {
			return nil, ErrInvalidInput
		}
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", input, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !isPDF(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(input, e.Name()))
	}
	return paths, nil
}

func isPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
