// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build mage

// Package main contains Mage build targets for audiogram-tools developer tooling.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "audiogram-tools"
	cmdPkg  = "./cmd/audiogram-tools"

	sampleDir = "sample"
)

// Default is the target run by a bare `mage`.
var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Check runs vet and the tests.
func Check() error {
	mg.Deps(Vet)
	return Test()
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Sample creates sample/annotations and sample/images with a few synthetic
// reports, then formats them into sample/data.
func Sample() error {
	mg.Deps(Build)

	annotations := filepath.Join(sampleDir, "annotations")
	images := filepath.Join(sampleDir, "images")
	for _, dir := range []string{annotations, images} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	reports := []struct {
		id         string
		w, h       int
		annotation string
	}{
		{"r1", 200, 100, `[{"boundingBox":{"x":0,"y":0,"width":100,"height":50}}]`},
		{"r2", 300, 300, `[{"boundingBox":{"x":10,"y":20,"width":120,"height":100}},{"boundingBox":{"x":150,"y":20,"width":120,"height":100}}]`},
		{"r3", 100, 100, `[{"boundingBox":{"x":80,"y":0,"width":60,"height":20}}]`},
		{"r4", 640, 480, `[]`},
	}
	for _, r := range reports {
		if err := os.WriteFile(filepath.Join(annotations, r.id+".json"), []byte(r.annotation), 0o644); err != nil {
			return err
		}
		if err := writeSampleImage(filepath.Join(images, r.id+".jpg"), r.w, r.h); err != nil {
			return err
		}
	}

	return sh.RunV(filepath.Join(binDir, binName), "format",
		"-d", filepath.Join(sampleDir, "data"), "-a", annotations, "-i", images, "-f", "0.75")
}

func writeSampleImage(path string, w, h int) error {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return jpeg.Encode(f, img, nil)
}

// Clean removes build output and the sample workspace.
func Clean() error {
	for _, dir := range []string{binDir, sampleDir} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}

// Stats prints Go production and test line counts.
func Stats() error {
	prod, test := 0, 0
	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); name != "." && (name[0] == '.' || name[0] == '_') {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return err
		}
		if len(path) > 8 && path[len(path)-8:] == "_test.go" {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	return nil
}

// countLines counts non-blank lines in a file.
func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n, blank := 0, true
	for _, b := range data {
		switch b {
		case '\n':
			if !blank {
				n++
			}
			blank = true
		case ' ', '\t', '\r':
		default:
			blank = false
		}
	}
	if !blank {
		n++
	}
	return n, nil
}
