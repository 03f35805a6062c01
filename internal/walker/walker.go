// Package walker enumerates report queries over years and season periods and
// flattens every report into records.
package walker

import (
	"agrafa/internal/afa"
	"agrafa/internal/components/assert"
	"agrafa/internal/components/telemetry"
	"agrafa/internal/directory"
	"agrafa/internal/report"
	"bytes"
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_walker_resolve = "walker.resolve"
	report_walker_query   = "walker.query"
	report_walker_rows    = "walker.rows"
)

var tracer = otel.Tracer("agrafa.internal.walker")

// the report prefixes every sub-region with an echo of its region code
const subRegionPrefixLen = 3

// years covered by the report site
const (
	DefaultFromYear = 86
	DefaultToYear   = 111
)

// ReportFetcher returns the html of a report query.
type ReportFetcher interface {
	FetchReport(ctx context.Context, key afa.QueryKey) ([]byte, error)
}

// Record is a single data row of a report in the context of the query that
// produced it.
type Record struct {
	Year         string
	SeasonPeriod string
	Region       string
	SubRegion    string
	Columns      report.ColumnSpec
	Values       []float64
}

type Options struct {
	// FromYear and ToYear are an inclusive range of ROC calendar years.
	FromYear int
	ToYear   int
	// SeasonPeriods defaults to directory.SeasonPeriodOrder.
	SeasonPeriods []string
}

// Walker walks the (year, season period) grid of a region and crop.
type Walker struct {
	dir     *directory.Directory
	fetcher ReportFetcher
	tel     telemetry.API

	fromYear      int
	toYear        int
	seasonPeriods []string
}

func New(dir *directory.Directory, fetcher ReportFetcher, tel telemetry.API, opts Options) *Walker {
	assert.NotNil(dir)
	assert.NotNil(fetcher)
	assert.NotNil(tel)

	if opts.FromYear == 0 && opts.ToYear == 0 {
		opts.FromYear = DefaultFromYear
		opts.ToYear = DefaultToYear
	}
	assert.LessOrEqual(opts.FromYear, opts.ToYear)
	if len(opts.SeasonPeriods) == 0 {
		opts.SeasonPeriods = directory.SeasonPeriodOrder
	}

	return &Walker{
		dir:           dir,
		fetcher:       fetcher,
		tel:           telemetry.NewScopedAPI("walker", tel),
		fromYear:      opts.FromYear,
		toYear:        opts.ToYear,
		seasonPeriods: opts.SeasonPeriods,
	}
}

// SubRegion strips the region code echo off a report row label.
func SubRegion(label string) string {
	runes := []rune(label)
	if len(runes) <= subRegionPrefixLen {
		return ""
	}
	return string(runes[subRegionPrefixLen:])
}

// Target is a region and crop whose names were resolved to report codes.
type Target struct {
	RegionName string
	RegionCode string
	CropName   string
	Crop       directory.CropRef
}

// Resolve looks up the codes of a region and crop name without making any
// request.
func (w *Walker) Resolve(regionName, cropName string) (Target, error) {
	regionCode, err := w.dir.ResolveRegion(regionName)
	if err != nil {
		w.tel.ReportWarning(report_walker_resolve, err)
		return Target{}, err
	}
	crop, err := w.dir.ResolveCrop(cropName)
	if err != nil {
		w.tel.ReportWarning(report_walker_resolve, err)
		return Target{}, err
	}
	return Target{
		RegionName: regionName,
		RegionCode: regionCode,
		CropName:   cropName,
		Crop:       crop,
	}, nil
}

// Run is Resolve followed by Walk. Names are resolved before any request is
// made.
func (w *Walker) Run(ctx context.Context, regionName, cropName string, yield func(Record) error) error {
	target, err := w.Resolve(regionName, cropName)
	if err != nil {
		return err
	}
	return w.Walk(ctx, target, yield)
}

// Walk calls yield once per data row of every query in the grid, years oldest
// first and season periods in order. The first error of a fetch, an extraction
// or yield aborts the walk.
func (w *Walker) Walk(ctx context.Context, target Target, yield func(Record) error) error {
	ctx, span := tracer.Start(ctx, "walker.Walk")
	defer span.End()
	span.SetAttributes(
		attribute.String("region", target.RegionName),
		attribute.String("crop", target.CropName),
	)

	var total int64
	for year := w.fromYear; year <= w.toYear; year++ {
		for _, period := range w.seasonPeriods {
			key := afa.QueryKey{
				Year:         afa.FormatYear(year),
				SeasonPeriod: period,
				// left empty, the site resolves the crop across categories
				CropCategory: "",
				Crop:         target.Crop.Code,
				Region:       target.RegionCode,
			}

			n, err := w.query(ctx, key, target.RegionName, yield)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "query failed")
				return &QueryError{Year: key.Year, SeasonPeriod: key.SeasonPeriod, Err: err}
			}
			total += int64(n)
		}
	}

	w.tel.ReportCount(report_walker_rows, total)
	return nil
}

func (w *Walker) query(ctx context.Context, key afa.QueryKey, regionName string, yield func(Record) error) (int, error) {
	ctx, span := tracer.Start(ctx, "walker.query")
	defer span.End()
	span.SetAttributes(
		attribute.String("year", key.Year),
		attribute.String("season_period", key.SeasonPeriod),
		attribute.String("crop", key.Crop),
		attribute.String("region", key.Region),
	)

	body, err := w.fetcher.FetchReport(ctx, key)
	if err != nil {
		w.tel.ReportBroken(report_walker_query, fmt.Errorf("fetch: %w", err), key.Year, key.SeasonPeriod)
		return 0, err
	}

	columns, rows, err := report.Extract(bytes.NewReader(body))
	if err != nil {
		w.tel.ReportBroken(report_walker_query, fmt.Errorf("extract: %w", err), key.Year, key.SeasonPeriod)
		return 0, err
	}

	w.tel.ReportDebug("extracted report", key.Year, key.SeasonPeriod, len(rows))
	span.SetAttributes(attribute.Int("rows", len(rows)))

	for _, row := range rows {
		err = yield(Record{
			Year:         key.Year,
			SeasonPeriod: key.SeasonPeriod,
			Region:       regionName,
			SubRegion:    SubRegion(row.Label),
			Columns:      columns,
			Values:       row.Values,
		})
		if err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}
