package directory

import (
	"agrafa/internal/components/assert"
	"agrafa/internal/components/telemetry"
	"context"
	"fmt"
)

const (
	report_directory_load    = "directory.load"
	report_directory_index   = "directory.index"
	report_directory_resolve = "directory.resolve"
)

// CodeListFetcher retrieves the crop code listing of one crop category.
type CodeListFetcher interface {
	FetchCodeList(ctx context.Context, cropCategory string) ([]Entry, error)
}

// Load retrieves the crop table of a crop category.
func Load(ctx context.Context, fetcher CodeListFetcher, cropCategory string) (Table, error) {
	entries, err := fetcher.FetchCodeList(ctx, cropCategory)
	if err != nil {
		return Table{}, fmt.Errorf("load crop category %s: %w", cropCategory, err)
	}
	return NewTable(CategoryCrop, entries...), nil
}

// LoadAll loads the crop table of every crop category in categories.
func LoadAll(ctx context.Context, fetcher CodeListFetcher, categories Table) (map[string]Table, error) {
	crops := make(map[string]Table, categories.Len())
	for _, code := range categories.Codes() {
		table, err := Load(ctx, fetcher, code)
		if err != nil {
			return nil, err
		}
		crops[code] = table
	}
	return crops, nil
}

// CropRef identifies a crop together with the crop category it was found in.
type CropRef struct {
	Category string
	Code     string
}

type cropIndexEntry struct {
	ref CropRef
	// number of other crop categories that list the same display name
	shadowed int
}

// Directory holds every code table for the lifetime of a process. It is
// read-only after construction.
type Directory struct {
	SeasonPeriods  Table
	CropCategories Table
	Regions        Table
	Crops          map[string]Table

	cropIndex map[string]cropIndexEntry
	tel       telemetry.API
}

// New loads every crop table through fetcher and builds a Directory.
func New(ctx context.Context, fetcher CodeListFetcher, tel telemetry.API) (*Directory, error) {
	assert.NotNil(fetcher)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("directory", tel)

	categories := CropCategories()
	crops, err := LoadAll(ctx, fetcher, categories)
	if err != nil {
		tel.ReportBroken(report_directory_load, err)
		return nil, err
	}

	d := FromTables(SeasonPeriods(), categories, Regions(), crops, tel)
	for _, category := range categories.Codes() {
		tel.ReportCount(fmt.Sprintf("%s.%s", report_directory_load, category), int64(crops[category].Len()))
	}
	return d, nil
}

// FromTables builds a Directory out of already loaded tables.
func FromTables(
	seasonPeriods,
	cropCategories,
	regions Table,
	crops map[string]Table,
	tel telemetry.API,
) *Directory {
	assert.NotNil(tel)

	d := &Directory{
		SeasonPeriods:  seasonPeriods,
		CropCategories: cropCategories,
		Regions:        regions,
		Crops:          crops,
		cropIndex:      map[string]cropIndexEntry{},
		tel:            tel,
	}

	// flattened in crop category order so that the first category listing a
	// name wins
	for _, category := range cropCategories.Codes() {
		for _, e := range crops[category].entries {
			existing, ok := d.cropIndex[e.Name]
			if ok {
				existing.shadowed++
				d.cropIndex[e.Name] = existing
				tel.ReportDebug(
					report_directory_index,
					"crop name listed more than once",
					e.Name,
					existing.ref.Category,
					category,
				)
				continue
			}
			d.cropIndex[e.Name] = cropIndexEntry{
				ref: CropRef{Category: category, Code: e.Code},
			}
		}
	}

	return d
}

// ResolveRegion returns the region code of a region display name.
func (d *Directory) ResolveRegion(name string) (string, error) {
	return Resolve(d.Regions, name)
}

// ResolveCrop searches every crop category for a crop display name. When more
// than one category lists the name, the first category in crop category order
// wins and a warning is reported.
func (d *Directory) ResolveCrop(name string) (CropRef, error) {
	entry, ok := d.cropIndex[name]
	if !ok {
		var all []Entry
		for _, category := range d.CropCategories.Codes() {
			all = append(all, d.Crops[category].entries...)
		}
		return CropRef{}, &NotFoundError{
			Category:   CategoryCrop,
			Name:       name,
			Suggestion: suggest(name, all),
		}
	}
	if entry.shadowed > 0 {
		d.tel.ReportWarning(
			report_directory_resolve,
			fmt.Errorf("crop %q is ambiguous, using crop category %s", name, entry.ref.Category),
			entry.shadowed,
		)
	}
	return entry.ref, nil
}

// Ambiguous returns how many crop categories besides the resolved one list name.
func (d *Directory) Ambiguous(name string) int {
	return d.cropIndex[name].shadowed
}
