// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Discover returns the ids of reports that have both <id>.json in
// annotationsDir and <id>.jpg in imagesDir. Annotations without a matching
// image are dropped silently. Ids come back in lexical order because
// os.ReadDir sorts by filename, which keeps the shuffle input stable.
func Discover(annotationsDir, imagesDir string) ([]string, error) {
	entries, err := os.ReadDir(annotationsDir)
	if err != nil {
		return nil, fmt.Errorf("reading annotations directory %s: %w", annotationsDir, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), annotationExt) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), annotationExt)
		if id == "" {
			continue
		}

		_, err := os.Stat(filepath.Join(imagesDir, id+imageExt))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("checking image for %s: %w", id, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
