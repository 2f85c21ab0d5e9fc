// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	fx := newFixture(t)
	fx.addReport(t, "r2", 10, 10)
	fx.addReport(t, "r1", 10, 10)
	fx.addAnnotation(t, "orphan")
	fx.addImage(t, "image-only", 10, 10)

	// Suffix stripping is exact: "season.json" keeps its trailing "s".
	fx.addReport(t, "season", 10, 10)

	require.NoError(t, os.WriteFile(filepath.Join(fx.annotations, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(fx.annotations, "dir.json"), 0o755))

	ids, err := Discover(fx.annotations, fx.images)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "season"}, ids)
}

func TestDiscoverMissingDirectory(t *testing.T) {
	fx := newFixture(t)
	_, err := Discover(filepath.Join(fx.root, "nope"), fx.images)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading annotations directory")
}

func TestDiscoverEmpty(t *testing.T) {
	fx := newFixture(t)
	ids, err := Discover(fx.annotations, fx.images)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
