// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bic-lab/audiogram-tools/internal/catalog"
	"github.com/bic-lab/audiogram-tools/internal/dataset"
	"github.com/bic-lab/audiogram-tools/pkg/types"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Build a YOLO training dataset from audiogram annotations",
	Long: `Format pairs every <id>.json annotation with its <id>.jpg report image,
converts the audiogram bounding boxes to normalized label records, and writes
images/ and labels/ trees split into train and validation subsets.

The data directory is deleted and recreated on every run. The split is
reproducible: the same seed and the same reports give the same membership.
Reports with any label outside [0,1] are skipped.

Box heights are divided by the image width unless --fix-height is given,
which divides by the image height instead.`,
	RunE: runFormat,
}

func init() {
	f := formatCmd.Flags()
	f.StringP("data-dir", "d", "", "output directory; wiped and recreated (required)")
	f.StringP("annotations-dir", "a", "", "directory of JSON annotation files (required)")
	f.StringP("images-dir", "i", "", "directory of report images (required)")
	f.Float64P("train-frac", "f", 0, "fraction of reports used for training, e.g. 0.8 (required)")
	f.Uint64("seed", dataset.DefaultSeed, "shuffle seed")
	f.Bool("fix-height", false, "normalize box heights by image height instead of width")
	f.Int("quality", dataset.DefaultJPEGQuality, "JPEG quality for re-saved images (1-100)")
	f.Bool("manifest", true, "write dataset.yaml into the data directory")

	bindFlag("format.data_dir", f.Lookup("data-dir"))
	bindFlag("format.annotations_dir", f.Lookup("annotations-dir"))
	bindFlag("format.images_dir", f.Lookup("images-dir"))
	bindFlag("format.train_frac", f.Lookup("train-frac"))
	bindFlag("format.seed", f.Lookup("seed"))
	bindFlag("format.fix_height", f.Lookup("fix-height"))
	bindFlag("format.jpeg_quality", f.Lookup("quality"))
	bindFlag("format.write_manifest", f.Lookup("manifest"))

	rootCmd.AddCommand(formatCmd)
}

// formatConfig assembles the stage configuration from flags, config file,
// and environment, and checks that the required settings are present.
func formatConfig() (types.FormatConfig, error) {
	cfg := types.FormatConfig{
		DataDir:        viper.GetString("format.data_dir"),
		AnnotationsDir: viper.GetString("format.annotations_dir"),
		ImagesDir:      viper.GetString("format.images_dir"),
		TrainFrac:      viper.GetFloat64("format.train_frac"),
		Seed:           viper.GetUint64("format.seed"),
		HeightMode:     types.HeightByWidth,
		JPEGQuality:    viper.GetInt("format.jpeg_quality"),
		WriteManifest:  viper.GetBool("format.write_manifest"),
	}
	if viper.GetBool("format.fix_height") {
		cfg.HeightMode = types.HeightByHeight
	}

	missing := map[string]bool{
		"--data-dir":        cfg.DataDir == "",
		"--annotations-dir": cfg.AnnotationsDir == "",
		"--images-dir":      cfg.ImagesDir == "",
		"--train-frac":      !viper.IsSet("format.train_frac"),
	}
	for _, name := range []string{"--data-dir", "--annotations-dir", "--images-dir", "--train-frac"} {
		if missing[name] {
			return cfg, fmt.Errorf("%s is required", name)
		}
	}
	return cfg, nil
}

func runFormat(cmd *cobra.Command, args []string) error {
	cfg, err := formatConfig()
	if err != nil {
		return err
	}

	formatter, err := dataset.NewFormatter(cfg)
	if err != nil {
		return err
	}

	started := time.Now()
	result, err := formatter.Run(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}

	catalogPath := viper.GetString("catalog")
	if catalogPath == "" {
		return nil
	}
	store, err := catalog.Open(catalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.Record(cmd.Context(), types.FormatRun{
		StartedAt: started,
		Config:    formatter.Config(),
		Reports:   result.Reports,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Recorded run %d in %s\n", runID, catalogPath)
	return nil
}
