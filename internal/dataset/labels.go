// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bic-lab/audiogram-tools/pkg/types"
)

// LoadAnnotation reads and decodes a report's annotation file. Every entry
// must carry a boundingBox.
func LoadAnnotation(path string) (types.Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading annotation %s: %w", path, err)
	}
	var ann types.Annotation
	if err := json.Unmarshal(data, &ann); err != nil {
		return nil, fmt.Errorf("parsing annotation %s: %w", path, err)
	}
	for i, a := range ann {
		if a.BoundingBox == nil {
			return nil, fmt.Errorf("parsing annotation %s: audiogram %d has no boundingBox", path, i)
		}
	}
	return ann, nil
}

// Normalize converts each bounding box to a label record relative to an
// image of width w and height h. No clamping is applied; out-of-range
// values are left for Valid to reject.
//
// With types.HeightByWidth (the default, and the zero value) the box height
// is divided by the image width, matching previously generated datasets.
func Normalize(ann types.Annotation, w, h int, mode types.HeightMode) []types.Label {
	fw, fh := float64(w), float64(h)
	heightDenom := fw
	if mode == types.HeightByHeight {
		heightDenom = fh
	}

	labels := make([]types.Label, 0, len(ann))
	for _, a := range ann {
		b := a.BoundingBox
		labels = append(labels, types.Label{
			Class:   audiogramClass,
			XCenter: (b.X + b.Width/2) / fw,
			YCenter: (b.Y + b.Height/2) / fh,
			Width:   b.Width / fw,
			Height:  b.Height / heightDenom,
		})
	}
	return labels
}

// Valid reports whether every normalized value of every label lies in
// [0,1]. The class index is not checked. An empty slice is valid.
func Valid(labels []types.Label) bool {
	for _, l := range labels {
		for _, v := range l.Values() {
			// NaN fails both comparisons, so test the accepted range.
			if !(v >= 0 && v <= 1) {
				return false
			}
		}
	}
	return true
}

// FormatLabels renders labels one per line as
// "<class> <x_center> <y_center> <width> <height>", joined by newlines
// with no trailing newline.
func FormatLabels(labels []types.Label) string {
	lines := make([]string, len(labels))
	for i, l := range labels {
		v := l.Values()
		lines[i] = fmt.Sprintf("%d %s %s %s %s", l.Class,
			formatValue(v[0]), formatValue(v[1]), formatValue(v[2]), formatValue(v[3]))
	}
	return strings.Join(lines, "\n")
}

// formatValue writes the shortest representation that round-trips, always
// with a decimal point or exponent so whole numbers read as floats ("1.0").
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// WriteLabels writes the label file at path. The parent directory must
// already exist.
func WriteLabels(path string, labels []types.Label) error {
	if err := requireDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(FormatLabels(labels)), 0o644); err != nil {
		return fmt.Errorf("writing labels %s: %w", path, err)
	}
	return nil
}

// requireDir returns an ErrMissingLayout error when dir does not exist.
func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s does not exist", ErrMissingLayout, dir)
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrMissingLayout, dir)
	}
	return nil
}
