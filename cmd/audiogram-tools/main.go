// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the audiogram-tools CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the audiogram-tools CLI.
var rootCmd = &cobra.Command{
	Use:   "audiogram-tools",
	Short: "Data preparation utilities for the audiogram digitization pipeline",
	Long: `audiogram-tools bundles the batch conversions used to prepare scanned
hearing-test reports for model training:

  format     turn audiogram annotations and report images into a YOLO dataset
  rasterize  render PDF pages to PNG images
  sheets     aggregate a folder of JSON files into a multi-sheet workbook
  history    list formatting runs recorded in the run catalog

Every flag can also be set in audiogram-tools.yaml or through an
AUDIOGRAM_TOOLS_* environment variable.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./audiogram-tools.yaml or ~/.config/audiogram-tools/audiogram-tools.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "SQLite run catalog path (empty disables run recording)")
	bindFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("audiogram-tools")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "audiogram-tools"))
		}
	}

	viper.SetEnvPrefix("AUDIOGRAM_TOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlag makes flag the override for viper key, so a config file or
// environment variable supplies the value when the flag is not set.
func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", key, err))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
