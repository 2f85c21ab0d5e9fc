// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FormatConfig holds settings for the dataset formatting stage.
type FormatConfig struct {
	// DataDir is the output root. It is wiped and recreated on every run.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// AnnotationsDir holds one <id>.json annotation file per report.
	AnnotationsDir string `json:"annotations_dir" yaml:"annotations_dir"`

	// ImagesDir holds one <id>.jpg image per report.
	ImagesDir string `json:"images_dir" yaml:"images_dir"`

	// TrainFrac is the fraction of reports assigned to the training subset, in [0,1].
	TrainFrac float64 `json:"train_frac" yaml:"train_frac"`

	// Seed fixes the shuffle so split membership is reproducible (default 42).
	Seed uint64 `json:"seed" yaml:"seed"`

	// HeightMode selects how box heights are normalized (default "width").
	HeightMode HeightMode `json:"height_mode" yaml:"height_mode"`

	// JPEGQuality is the quality used when re-saving images (default 75).
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality"`

	// WriteManifest controls whether dataset.yaml is written to DataDir.
	WriteManifest bool `json:"write_manifest" yaml:"write_manifest"`
}

// RasterBackend identifies how PDF pages are rendered.
type RasterBackend string

const (
	// BackendLocal runs the renderer binary from PATH.
	BackendLocal RasterBackend = "local"

	// BackendContainer runs the renderer inside a docker or podman image.
	BackendContainer RasterBackend = "container"
)

// RasterizeConfig holds settings for the PDF rasterization stage.
type RasterizeConfig struct {
	// DPI is the render resolution (default 72, one pixel per PDF point).
	DPI int `json:"dpi" yaml:"dpi"`

	// Backend selects local or container rendering.
	Backend RasterBackend `json:"backend" yaml:"backend"`

	// Image is the container image used by the container backend.
	Image string `json:"image" yaml:"image"`

	// Binary is the renderer executable name (default "pdftoppm").
	Binary string `json:"binary" yaml:"binary"`
}

// SheetsConfig holds settings for the JSON-to-spreadsheet stage.
type SheetsConfig struct {
	// MaxColumnWidth caps the computed column width, in characters.
	MaxColumnWidth float64 `json:"max_column_width" yaml:"max_column_width"`
}
