// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bic-lab/audiogram-tools/internal/sheets"
	"github.com/bic-lab/audiogram-tools/pkg/types"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets <input-folder> <output.xlsx>",
	Short: "Aggregate a folder of JSON files into one workbook",
	Long: `Sheets writes one worksheet per JSON file in the input folder. Columns
are the sorted union of the objects' keys; lists are joined with commas and
nested objects are written as JSON. Files that do not parse are skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := types.SheetsConfig{MaxColumnWidth: viper.GetFloat64("sheets.max_column_width")}
		_, err := sheets.NewConverter(cfg).Convert(args[0], args[1], os.Stdout)
		return err
	},
}

func init() {
	sheetsCmd.Flags().Float64("max-column-width", sheets.DefaultMaxColumnWidth, "widest column, in characters")
	bindFlag("sheets.max_column_width", sheetsCmd.Flags().Lookup("max-column-width"))

	rootCmd.AddCommand(sheetsCmd)
}
