// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bic-lab/audiogram-tools/pkg/types"
)

var subsets = []types.SplitName{types.SplitTrain, types.SplitValidation}

// LayoutDirs returns the four leaf directories created under root.
func LayoutDirs(root string) []string {
	dirs := make([]string, 0, 4)
	for _, kind := range []string{imagesDir, labelsDir} {
		for _, s := range subsets {
			dirs = append(dirs, filepath.Join(root, kind, string(s)))
		}
	}
	return dirs
}

// InitLayout deletes any existing tree at root and recreates the empty
// images/ and labels/ skeleton. A missing root is not an error; any other
// removal failure is returned.
func InitLayout(root string) error {
	if _, err := os.Lstat(root); err == nil {
		if err := os.RemoveAll(root); err != nil {
			return fmt.Errorf("removing %s: %w", root, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", root, err)
	}

	for _, dir := range LayoutDirs(root) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

func imagePath(root string, split types.SplitName, id string) string {
	return filepath.Join(root, imagesDir, string(split), id+imageExt)
}

func labelPath(root string, split types.SplitName, id string) string {
	return filepath.Join(root, labelsDir, string(split), id+labelExt)
}
