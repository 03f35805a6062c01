package directory

import (
	"agrafa/internal/components/telemetry"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	listings map[string][]Entry
	calls    []string
	err      error
}

func (f *fakeFetcher) FetchCodeList(ctx context.Context, cropCategory string) ([]Entry, error) {
	f.calls = append(f.calls, cropCategory)
	if f.err != nil {
		return nil, f.err
	}
	return f.listings[cropCategory], nil
}

func TestResolve(t *testing.T) {
	regions := NewTable(CategoryRegion, Entry{Code: "0011", Name: "臺南市"})

	code, err := Resolve(regions, "臺南市")
	require.NoError(t, err)
	require.Equal(t, "0011", code)

	_, err = Resolve(regions, "火星市")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "火星市", notFound.Name)
	require.Equal(t, CategoryRegion, notFound.Category)
}

func TestResolveSuggestion(t *testing.T) {
	_, err := Resolve(Regions(), "台南市")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.NotEmpty(t, notFound.Suggestion)
	require.Contains(t, err.Error(), "did you mean")
}

func TestTableOrder(t *testing.T) {
	table := NewTable(
		CategoryCrop,
		Entry{Code: "203", Name: "馬鈴薯"},
		Entry{Code: "101", Name: "玉米"},
		Entry{Code: "203", Name: "馬鈴薯(食用)"},
	)

	require.Equal(t, 2, table.Len())
	require.Equal(t, []string{"203", "101"}, table.Codes())
	name, ok := table.Name("203")
	require.True(t, ok)
	require.Equal(t, "馬鈴薯(食用)", name)
	_, ok = table.Name("999")
	require.False(t, ok)
}

func TestNewTableWithoutCategory(t *testing.T) {
	require.Panics(t, func() {
		NewTable("", Entry{Code: "101", Name: "玉米"})
	})
}

func TestSeasonPeriodOrder(t *testing.T) {
	periods := SeasonPeriods()
	for _, code := range SeasonPeriodOrder {
		_, ok := periods.Name(code)
		require.True(t, ok, code)
	}
	require.Equal(t, []string{"03", "01", "02", "00"}, SeasonPeriodOrder)
}

func TestNew(t *testing.T) {
	fetcher := &fakeFetcher{listings: map[string][]Entry{
		"01": {{Code: "101", Name: "玉米"}, {Code: "140", Name: "落花生"}},
		"02": {{Code: "203", Name: "馬鈴薯"}, {Code: "140", Name: "落花生"}},
	}}
	rec := telemetry.NewRecorder()

	dir, err := New(context.Background(), fetcher, rec)
	require.NoError(t, err)

	if diff := cmp.Diff(CropCategories().Codes(), fetcher.calls); diff != "" {
		t.Fatal(diff)
	}

	var counted []string
	for _, report := range rec.Reports("count") {
		counted = append(counted, report.ID)
	}
	var expected []string
	for _, category := range CropCategories().Codes() {
		expected = append(expected, fmt.Sprintf("directory: %s.%s", report_directory_load, category))
	}
	if diff := cmp.Diff(expected, counted); diff != "" {
		t.Fatal(diff)
	}

	ref, err := dir.ResolveCrop("馬鈴薯")
	require.NoError(t, err)
	require.Equal(t, CropRef{Category: "02", Code: "203"}, ref)

	// listed by both 01 and 02, first crop category wins
	ref, err = dir.ResolveCrop("落花生")
	require.NoError(t, err)
	require.Equal(t, CropRef{Category: "01", Code: "140"}, ref)
	require.Equal(t, 1, dir.Ambiguous("落花生"))
	require.Len(t, rec.Reports("warning"), 1)

	_, err = dir.ResolveCrop("火龍果")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, CategoryCrop, notFound.Category)

	code, err := dir.ResolveRegion("臺南市")
	require.NoError(t, err)
	require.Equal(t, "0011", code)
}

func TestNewFetchError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	fetcher := &fakeFetcher{err: fetchErr}
	rec := telemetry.NewRecorder()

	_, err := New(context.Background(), fetcher, rec)
	require.ErrorIs(t, err, fetchErr)
	require.Len(t, fetcher.calls, 1)
	require.Len(t, rec.Reports("broken"), 1)
}
