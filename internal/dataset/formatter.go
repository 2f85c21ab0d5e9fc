// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/bic-lab/audiogram-tools/pkg/types"
)

// Result holds the outcome of a formatting run.
type Result struct {
	Train      int
	Validation int
	Skipped    int

	// Reports lists every processed report in permuted order.
	Reports []types.ReportOutcome
}

// Total returns the number of reports processed.
func (r Result) Total() int {
	return r.Train + r.Validation + r.Skipped
}

// Formatter runs the annotation-to-training-layout conversion.
type Formatter struct {
	cfg types.FormatConfig
}

// NewFormatter validates cfg and fills in defaults.
func NewFormatter(cfg types.FormatConfig) (*Formatter, error) {
	if cfg.DataDir == "" || cfg.AnnotationsDir == "" || cfg.ImagesDir == "" {
		return nil, fmt.Errorf("data, annotations, and images directories are required")
	}
	if err := ValidateFraction(cfg.TrainFrac); err != nil {
		return nil, err
	}
	switch cfg.HeightMode {
	case "":
		cfg.HeightMode = types.HeightByWidth
	case types.HeightByWidth, types.HeightByHeight:
	default:
		return nil, fmt.Errorf("unknown height mode %q", cfg.HeightMode)
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}
	if cfg.JPEGQuality > 100 {
		return nil, fmt.Errorf("jpeg quality %d out of range 1-100", cfg.JPEGQuality)
	}
	return &Formatter{cfg: cfg}, nil
}

// Config returns the effective configuration after defaults.
func (f *Formatter) Config() types.FormatConfig {
	return f.cfg
}

// Run discovers reports, recreates the output layout, and writes a label
// file and image for every report whose labels are all in range. Reports
// with an out-of-range label are skipped. An unreadable annotation or image
// aborts the run.
func (f *Formatter) Run(ctx context.Context, w io.Writer) (Result, error) {
	ids, err := Discover(f.cfg.AnnotationsDir, f.cfg.ImagesDir)
	if err != nil {
		return Result{}, err
	}
	ids = Shuffle(ids, NewRand(f.cfg.Seed))

	if err := InitLayout(f.cfg.DataDir); err != nil {
		return Result{}, err
	}

	var result Result
	for i, id := range ids {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		split := SubsetFor(i, len(ids), f.cfg.TrainFrac)
		outcome, err := f.formatReport(id, split)
		if err != nil {
			return result, err
		}
		result.Reports = append(result.Reports, outcome)

		switch {
		case outcome.Status == types.ReportInvalid:
			fmt.Fprintf(w, "skipped: %s (label out of range)\n", id)
			result.Skipped++
		case split == types.SplitTrain:
			fmt.Fprintf(w, "%s: %s (%d boxes)\n", split, id, outcome.Boxes)
			result.Train++
		default:
			fmt.Fprintf(w, "%s: %s (%d boxes)\n", split, id, outcome.Boxes)
			result.Validation++
		}
	}

	if f.cfg.WriteManifest {
		m, err := NewManifest(f.cfg.DataDir)
		if err != nil {
			return result, err
		}
		if err := WriteManifest(f.cfg.DataDir, m); err != nil {
			return result, err
		}
	}

	fmt.Fprintf(w, "\nFormat summary: %d train, %d validation, %d skipped (total: %d)\n",
		result.Train, result.Validation, result.Skipped, result.Total())
	return result, nil
}

func (f *Formatter) formatReport(id string, split types.SplitName) (types.ReportOutcome, error) {
	outcome := types.ReportOutcome{ID: id, Split: split}

	ann, err := LoadAnnotation(filepath.Join(f.cfg.AnnotationsDir, id+annotationExt))
	if err != nil {
		return outcome, err
	}
	outcome.Boxes = len(ann)

	img, err := LoadImage(filepath.Join(f.cfg.ImagesDir, id+imageExt))
	if err != nil {
		return outcome, err
	}
	bounds := img.Bounds()

	labels := Normalize(ann, bounds.Dx(), bounds.Dy(), f.cfg.HeightMode)
	if !Valid(labels) {
		outcome.Status = types.ReportInvalid
		return outcome, nil
	}

	if err := WriteLabels(labelPath(f.cfg.DataDir, split, id), labels); err != nil {
		return outcome, err
	}
	if err := SaveImage(imagePath(f.cfg.DataDir, split, id), img, f.cfg.JPEGQuality); err != nil {
		return outcome, err
	}
	outcome.Status = types.ReportWritten
	return outcome, nil
}
