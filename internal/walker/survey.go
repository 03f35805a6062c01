package walker

import (
	"agrafa/internal/afa"
	"agrafa/internal/report"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const report_walker_survey = "walker.survey"

// Survey writes the header and first data row of the report of every crop in
// the directory for a single year, season period and region. It is used to find
// crops whose report layout differs from the rest.
//
// Every crop category is written as a "code:name" line followed by, for each of
// its crops, a "code:name" line, the tab separated column titles and the tab
// separated first data row as printed on the page. Pages whose table cannot be
// found or whose header cannot be merged are written as an "error:" line and
// the survey moves on, network errors abort it.
func (w *Walker) Survey(ctx context.Context, year int, seasonPeriod, regionName string, out io.Writer) error {
	regionCode, err := w.dir.ResolveRegion(regionName)
	if err != nil {
		w.tel.ReportWarning(report_walker_resolve, err)
		return err
	}

	ctx, span := tracer.Start(ctx, "walker.Survey")
	defer span.End()

	for _, category := range w.dir.CropCategories.Entries() {
		_, err = fmt.Fprintf(out, "%s:%s\n", category.Code, category.Name)
		if err != nil {
			return err
		}

		for _, crop := range w.dir.Crops[category.Code].Entries() {
			key := afa.QueryKey{
				Year:         afa.FormatYear(year),
				SeasonPeriod: seasonPeriod,
				CropCategory: category.Code,
				Crop:         crop.Code,
				Region:       regionCode,
			}
			err = w.surveyCrop(ctx, key, crop.Code, crop.Name, out)
			if err != nil {
				return &QueryError{Year: key.Year, SeasonPeriod: key.SeasonPeriod, Err: err}
			}
		}
	}

	return nil
}

func (w *Walker) surveyCrop(ctx context.Context, key afa.QueryKey, code, name string, out io.Writer) error {
	_, err := fmt.Fprintf(out, "%s:%s\n", code, name)
	if err != nil {
		return err
	}

	body, err := w.fetcher.FetchReport(ctx, key)
	if err != nil {
		w.tel.ReportBroken(report_walker_survey, fmt.Errorf("fetch: %w", err), code)
		return err
	}

	columns, first, err := report.Preview(bytes.NewReader(body))
	var malformed *report.MalformedDocumentError
	if errors.As(err, &malformed) {
		w.tel.ReportWarning(report_walker_survey, err, code)
		_, err = fmt.Fprintf(out, "error:%s\n", err)
		return err
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, strings.Join(columns.Titles(), "\t"))
	if err != nil {
		return err
	}
	if first == nil {
		return nil
	}
	_, err = fmt.Fprintln(out, strings.Join(first, "\t"))
	return err
}
