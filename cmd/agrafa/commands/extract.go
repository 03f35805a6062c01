package commands

import (
	"agrafa/internal/dataset"
	"agrafa/internal/report"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <path/to/report.html>",
	Short: "Extracts the report table of a saved report page and prints it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		columns, rows, err := report.Extract(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		t := newTable()
		header := table.Row{}
		for _, title := range columns.Titles() {
			header = append(header, title)
		}
		t.AppendHeader(header)

		for _, row := range rows {
			r := table.Row{row.Label}
			for _, v := range row.Values {
				r = append(r, dataset.FormatValue(v))
			}
			t.AppendRow(r)
		}
		t.AppendFooter(table.Row{fmt.Sprintf("%d rows", len(rows))})
		t.Render()
		return nil
	},
}
