// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bic-lab/audiogram-tools/internal/container"
	"github.com/bic-lab/audiogram-tools/internal/rasterize"
	"github.com/bic-lab/audiogram-tools/pkg/types"
)

var rasterizeCmd = &cobra.Command{
	Use:   "rasterize <input> <output-dir>",
	Short: "Render PDF pages to PNG images",
	Long: `Rasterize renders every page of a PDF, or of every PDF in a directory,
to <output-dir>/<name>_page_<n>.png using poppler's pdftoppm. With
--backend container, pdftoppm runs inside a docker or podman image instead
of from PATH.`,
	Args: cobra.ExactArgs(2),
	RunE: runRasterize,
}

func init() {
	f := rasterizeCmd.Flags()
	f.Int("dpi", rasterize.DefaultDPI, "render resolution")
	f.String("backend", string(types.BackendLocal), "renderer backend: local or container")
	f.String("image", rasterize.DefaultImage, "container image providing pdftoppm")
	f.String("binary", rasterize.DefaultBinary, "renderer executable")

	bindFlag("rasterize.dpi", f.Lookup("dpi"))
	bindFlag("rasterize.backend", f.Lookup("backend"))
	bindFlag("rasterize.image", f.Lookup("image"))
	bindFlag("rasterize.binary", f.Lookup("binary"))

	rootCmd.AddCommand(rasterizeCmd)
}

func rasterizeConfig() types.RasterizeConfig {
	return types.RasterizeConfig{
		DPI:     viper.GetInt("rasterize.dpi"),
		Backend: types.RasterBackend(viper.GetString("rasterize.backend")),
		Image:   viper.GetString("rasterize.image"),
		Binary:  viper.GetString("rasterize.binary"),
	}
}

func newRunner(cfg types.RasterizeConfig) (rasterize.Runner, error) {
	switch cfg.Backend {
	case types.BackendLocal, "":
		return rasterize.LocalRunner{Binary: cfg.Binary}, nil
	case types.BackendContainer:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		cr, err := rasterize.NewContainerRunner(rt, cfg.Image, cfg.Binary)
		if err != nil {
			return nil, err
		}
		return cr, nil
	default:
		return nil, fmt.Errorf("unknown backend %q: use local or container", cfg.Backend)
	}
}

func runRasterize(cmd *cobra.Command, args []string) error {
	cfg := rasterizeConfig()
	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}

	r := &rasterize.Rasterizer{
		Pages:    rasterize.PDFPageCounter{},
		Renderer: &rasterize.PopplerRenderer{Runner: runner, DPI: cfg.DPI},
	}
	result, err := r.Run(args[0], args[1], os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d PDF(s) failed rasterization", result.Failed)
	}
	return nil
}
