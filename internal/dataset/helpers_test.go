// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bic-lab/audiogram-tools/pkg/types"
)

// fixture lays out an annotations/ and images/ pair under a temp dir.
type fixture struct {
	root        string
	annotations string
	images      string
	data        string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	fx := fixture{
		root:        root,
		annotations: filepath.Join(root, "annotations"),
		images:      filepath.Join(root, "images"),
		data:        filepath.Join(root, "data"),
	}
	require.NoError(t, os.MkdirAll(fx.annotations, 0o755))
	require.NoError(t, os.MkdirAll(fx.images, 0o755))
	return fx
}

func (fx fixture) addReport(t *testing.T, id string, w, h int, boxes ...types.BoundingBox) {
	t.Helper()
	fx.addAnnotation(t, id, boxes...)
	fx.addImage(t, id, w, h)
}

func (fx fixture) addAnnotation(t *testing.T, id string, boxes ...types.BoundingBox) {
	t.Helper()
	ann := make(types.Annotation, len(boxes))
	for i := range boxes {
		ann[i] = types.Audiogram{BoundingBox: &boxes[i]}
	}
	data, err := json.Marshal(ann)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(fx.annotations, id+".json"), data, 0o644))
}

func (fx fixture) addImage(t *testing.T, id string, w, h int) {
	t.Helper()
	writeJPEG(t, filepath.Join(fx.images, id+".jpg"), w, h)
}

func (fx fixture) config(frac float64) types.FormatConfig {
	return types.FormatConfig{
		DataDir:        fx.data,
		AnnotationsDir: fx.annotations,
		ImagesDir:      fx.images,
		TrainFrac:      frac,
		Seed:           DefaultSeed,
	}
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())
}

// listFiles returns the base names of regular files in dir.
func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
