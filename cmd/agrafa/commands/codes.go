package commands

import (
	"agrafa/internal/afa"
	"agrafa/internal/directory"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(codesCmd)
}

var codesCmd = &cobra.Command{
	Use:       "codes <season-period|crop-category|region|crop> [crop category code]",
	Short:     "Lists the query codes of a category, crops are fetched from the report site.",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{directory.CategorySeasonPeriod, directory.CategoryCropCategory, directory.CategoryRegion, directory.CategoryCrop},
	RunE: func(cmd *cobra.Command, args []string) error {
		var tables []directory.Table
		var categoryColumn []string

		switch args[0] {
		case directory.CategorySeasonPeriod:
			tables = append(tables, directory.SeasonPeriods())
		case directory.CategoryCropCategory:
			tables = append(tables, directory.CropCategories())
		case directory.CategoryRegion:
			tables = append(tables, directory.Regions())
		case directory.CategoryCrop:
			client := afa.NewClient(cfg.clientOptions(), tel)

			categories := directory.CropCategories().Codes()
			if len(args) == 2 {
				categories = []string{args[1]}
			}
			for _, category := range categories {
				crops, err := directory.Load(cmd.Context(), client, category)
				if err != nil {
					return err
				}
				tables = append(tables, crops)
				categoryColumn = append(categoryColumn, category)
			}
		default:
			return fmt.Errorf("unknown category %q", args[0])
		}

		t := newTable()
		if categoryColumn != nil {
			t.AppendHeader(table.Row{"Crop category", "Code", "Name"})
		} else {
			t.AppendHeader(table.Row{"Code", "Name"})
		}
		for i, codes := range tables {
			for _, e := range codes.Entries() {
				if categoryColumn != nil {
					t.AppendRow(table.Row{categoryColumn[i], e.Code, e.Name})
					continue
				}
				t.AppendRow(table.Row{e.Code, e.Name})
			}
		}
		t.Render()
		return nil
	},
}
