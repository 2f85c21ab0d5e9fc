// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records shared between pipeline stages and the CLI.
package types

import "time"

// BoundingBox is an axis-aligned rectangle in source-image pixel space,
// origin at the top-left corner.
type BoundingBox struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Audiogram is one annotated audiogram within a scanned report.
// BoundingBox is a pointer so a missing key can be told apart from a zero box.
type Audiogram struct {
	BoundingBox *BoundingBox `json:"boundingBox" yaml:"boundingBox"`
}

// Annotation is the ordered list of audiograms stored in a report's JSON file.
type Annotation []Audiogram

// Label is one detection-label record: a class index followed by the box
// center and extent, normalized to the image dimensions.
type Label struct {
	Class   int
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64
}

// Values returns the four normalized fields in file order.
func (l Label) Values() [4]float64 {
	return [4]float64{l.XCenter, l.YCenter, l.Width, l.Height}
}

// HeightMode selects the denominator used to normalize box heights.
type HeightMode string

const (
	// HeightByWidth divides box height by image width. This is the
	// historical output format and stays the default so existing datasets
	// remain comparable.
	HeightByWidth HeightMode = "width"

	// HeightByHeight divides box height by image height.
	HeightByHeight HeightMode = "height"
)

// SplitName identifies a dataset subset.
type SplitName string

const (
	SplitTrain      SplitName = "train"
	SplitValidation SplitName = "validation"
)

// ReportStatus records what the formatter did with a report.
type ReportStatus string

const (
	ReportWritten ReportStatus = "written"
	ReportInvalid ReportStatus = "invalid"
)

// ReportOutcome is the per-report result of a formatting run.
type ReportOutcome struct {
	ID     string       `json:"id" yaml:"id"`
	Split  SplitName    `json:"split" yaml:"split"`
	Status ReportStatus `json:"status" yaml:"status"`
	Boxes  int          `json:"boxes" yaml:"boxes"`
}

// FormatRun describes one completed formatting run for the run catalog.
type FormatRun struct {
	StartedAt time.Time       `json:"started_at" yaml:"started_at"`
	Config    FormatConfig    `json:"config" yaml:"config"`
	Reports   []ReportOutcome `json:"reports" yaml:"reports"`
}
