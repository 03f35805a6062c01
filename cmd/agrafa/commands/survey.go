package commands

import (
	"agrafa/internal/directory"
	"agrafa/internal/walker"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	surveyYear   *int
	surveyPeriod *string
	surveyRegion *string
	surveyOut    *string
)

func init() {
	surveyYear = surveyCmd.Flags().Int("year", 0, "The ROC calendar year to survey, defaults to the last year of the config.")
	surveyPeriod = surveyCmd.Flags().String("period", directory.SeasonAllYear, "The season period code to survey.")
	surveyRegion = surveyCmd.Flags().String("region", "", "The city or county to survey, ex. 臺南市.")
	surveyOut = surveyCmd.Flags().StringP("out", "o", "header.txt", "The file to append the survey to.")
	surveyCmd.MarkFlagRequired("region")
	rootCmd.AddCommand(surveyCmd)
}

var surveyCmd = &cobra.Command{
	Use:   "survey --region <name> [--year <year>] [--period <code>] [--out <path>]",
	Short: "Writes the report header and first row of every crop, to find crops with a different report layout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, dir, err := loadDirectory(ctx)
		if err != nil {
			return err
		}
		w := walker.New(dir, client, tel, walker.Options{
			FromYear: cfg.FromYear,
			ToYear:   cfg.ToYear,
		})

		out, err := os.OpenFile(*surveyOut, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer out.Close()

		year := *surveyYear
		if year == 0 {
			year = cfg.ToYear
		}
		err = w.Survey(ctx, year, *surveyPeriod, *surveyRegion, out)
		if err != nil {
			return err
		}

		slog.Info("survey complete", "out", *surveyOut)
		return out.Close()
	},
}
