package commands

import (
	"agrafa/internal/dataset"
	"agrafa/internal/walker"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var (
	walkRegion *string
	walkCrop   *string
	walkOut    *string
	walkFrom   *int
	walkTo     *int
)

func init() {
	walkRegion = walkCmd.Flags().String("region", "", "The city or county to harvest, ex. 臺南市.")
	walkCrop = walkCmd.Flags().String("crop", "", "The crop to harvest, ex. 馬鈴薯.")
	walkOut = walkCmd.Flags().StringP("out", "o", "", "The file to write the dataset to, defaults to <region>_<crop>.txt.")
	walkFrom = walkCmd.Flags().Int("from", 0, "The first ROC calendar year to harvest, overrides the config.")
	walkTo = walkCmd.Flags().Int("to", 0, "The last ROC calendar year to harvest, overrides the config.")
	walkCmd.MarkFlagRequired("region")
	walkCmd.MarkFlagRequired("crop")
	rootCmd.AddCommand(walkCmd)
}

var walkCmd = &cobra.Command{
	Use:   "walk --region <name> --crop <name> [--out <path>] [--from <year>] [--to <year>]",
	Short: "Harvests every year and season period of a crop in a region into one delimited dataset.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		from := cfg.FromYear
		if *walkFrom > 0 {
			from = *walkFrom
		}
		to := cfg.ToYear
		if *walkTo > 0 {
			to = *walkTo
		}
		if from > to {
			return fmt.Errorf("year range %d..%d is empty", from, to)
		}

		client, dir, err := loadDirectory(ctx)
		if err != nil {
			return err
		}
		w := walker.New(dir, client, tel, walker.Options{
			FromYear: from,
			ToYear:   to,
		})

		path := *walkOut
		if path == "" {
			path = fmt.Sprintf("%s_%s.txt", *walkRegion, *walkCrop)
		}

		start := time.Now()
		lines, err := harvest(ctx, w, *walkRegion, *walkCrop, path)
		if err != nil {
			return err
		}

		slog.Info(
			"harvest complete",
			"out", path,
			"lines", lines,
			"seconds", time.Since(start).Seconds(),
		)
		return nil
	},
}

// harvest walks a region and crop into the dataset file at path. The names are
// resolved before path is created, so an unknown name leaves an existing file
// untouched.
func harvest(ctx context.Context, w *walker.Walker, region, crop, path string) (int, error) {
	target, err := w.Resolve(region, crop)
	if err != nil {
		return 0, err
	}

	out, err := dataset.Create(path, tel)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	err = w.Walk(ctx, target, out.Write)
	if err != nil {
		return out.Lines(), err
	}
	err = out.Close()
	if err != nil {
		return out.Lines(), err
	}
	return out.Lines(), nil
}
