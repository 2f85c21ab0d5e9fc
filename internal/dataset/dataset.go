// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset converts audiogram annotations and their report images
// into the directory layout and label format used to train a single-class
// object detector.
//
// A run discovers reports, shuffles them with a seeded generator, assigns
// each position to the train or validation subset, then writes one label
// file and one re-encoded image per valid report:
//
//	<data_dir>/images/{train,validation}/<id>.jpg
//	<data_dir>/labels/{train,validation}/<id>.txt
package dataset

import "errors"

const (
	imagesDir = "images"
	labelsDir = "labels"

	annotationExt = ".json"
	imageExt      = ".jpg"
	labelExt      = ".txt"

	// DefaultSeed is the shuffle seed used when none is configured.
	DefaultSeed uint64 = 42

	// DefaultJPEGQuality is the re-encode quality used when none is configured.
	DefaultJPEGQuality = 75

	// audiogramClass is the only class index in the label files.
	audiogramClass = 0
)

// ErrMissingLayout is returned when an output directory is written before
// InitLayout has created it.
var ErrMissingLayout = errors.New("output layout not initialized")
