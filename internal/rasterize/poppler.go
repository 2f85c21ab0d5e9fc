// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ledongthuc/pdf"

	"github.com/bic-lab/audiogram-tools/internal/container"
)

const (
	// DefaultDPI renders one pixel per PDF point.
	DefaultDPI = 72

	// DefaultBinary is the poppler page renderer.
	DefaultBinary = "pdftoppm"

	// DefaultImage is the container image used when rendering in a container.
	DefaultImage = "poppler:latest"
)

// PDFPageCounter reads page counts with github.com/ledongthuc/pdf.
type PDFPageCounter struct{}

// NumPages opens pdfPath and returns its page count.
func (PDFPageCounter) NumPages(pdfPath string) (int, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()
	return r.NumPage(), nil
}

// Runner executes the renderer binary with the PDF on stdin and the PNG on stdout.
type Runner interface {
	Run(args []string, stdin io.Reader, stdout io.Writer) error
}

// LocalRunner runs Binary from PATH.
type LocalRunner struct {
	Binary string
}

func (l LocalRunner) Run(args []string, stdin io.Reader, stdout io.Writer) error {
	return container.RunLocal(l.Binary, args, stdin, stdout)
}

// ContainerRunner runs Binary inside Image.
type ContainerRunner struct {
	Runtime container.Runtime
	Image   string
	Binary  string
}

func (c ContainerRunner) Run(args []string, stdin io.Reader, stdout io.Writer) error {
	return c.Runtime.Run(c.Image, append([]string{c.Binary}, args...), stdin, stdout)
}

// NewContainerRunner verifies image is present in rt before returning.
func NewContainerRunner(rt container.Runtime, image, binary string) (*ContainerRunner, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("renderer image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerRunner{Runtime: rt, Image: image, Binary: binary}, nil
}

// PopplerRenderer renders pages with pdftoppm.
type PopplerRenderer struct {
	Runner Runner
	DPI    int
}

// Args returns the pdftoppm arguments that render one page from stdin to stdout.
func (p *PopplerRenderer) Args(page int) []string {
	dpi := p.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	n := strconv.Itoa(page)
	return []string{"-png", "-r", strconv.Itoa(dpi), "-f", n, "-l", n, "-singlefile", "-"}
}

func (p *PopplerRenderer) Render(pdfPath string, page int, w io.Writer) error {
	f, err := os.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	cw := &countingWriter{w: w}
	if err := p.Runner.Run(p.Args(page), f, cw); err != nil {
		return err
	}
	if cw.n == 0 {
		return fmt.Errorf("renderer produced empty output")
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
