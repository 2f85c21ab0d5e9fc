// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/bic-lab/audiogram-tools/pkg/types"
)

// ManifestFile is the name of the training manifest written under the data dir.
const ManifestFile = "dataset.yaml"

// Manifest is the dataset description consumed by YOLO-style trainers.
// Image paths are relative to Path.
type Manifest struct {
	Path  string   `yaml:"path"`
	Train string   `yaml:"train"`
	Val   string   `yaml:"val"`
	NC    int      `yaml:"nc"`
	Names []string `yaml:"names"`
}

// NewManifest describes the layout rooted at dataDir.
func NewManifest(dataDir string) (Manifest, error) {
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return Manifest{}, fmt.Errorf("resolving %s: %w", dataDir, err)
	}
	return Manifest{
		Path:  abs,
		Train: filepath.ToSlash(filepath.Join(imagesDir, string(types.SplitTrain))),
		Val:   filepath.ToSlash(filepath.Join(imagesDir, string(types.SplitValidation))),
		NC:    1,
		Names: []string{"audiogram"},
	}, nil
}

// WriteManifest writes m to dataDir/dataset.yaml.
func WriteManifest(dataDir string, m Manifest) error {
	if err := requireDir(dataDir); err != nil {
		return err
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	path := filepath.Join(dataDir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
