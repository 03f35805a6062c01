package walker

import (
	"agrafa/internal/afa"
	"agrafa/internal/components/telemetry"
	"agrafa/internal/directory"
	"agrafa/internal/report"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func reportPage(rows ...[]string) []byte {
	var out strings.Builder
	out.WriteString("<html><body><table></table><table></table><table>")
	for _, row := range rows {
		out.WriteString("<tr><td>")
		out.WriteString(strings.Join(row, "</td><td>"))
		out.WriteString("</td></tr>")
	}
	out.WriteString("</table></body></html>")
	return []byte(out.String())
}

type fakeFetcher struct {
	pages map[string][]byte
	// returned for keys missing from pages
	fallback []byte
	errAt    string
	err      error
	queries  []afa.QueryKey
}

func pageKey(year, period string) string {
	return fmt.Sprintf("%s/%s", year, period)
}

func (f *fakeFetcher) FetchReport(ctx context.Context, key afa.QueryKey) ([]byte, error) {
	f.queries = append(f.queries, key)
	k := pageKey(key.Year, key.SeasonPeriod)
	if f.err != nil && k == f.errAt {
		return nil, f.err
	}
	page, ok := f.pages[k]
	if !ok {
		return f.fallback, nil
	}
	return page, nil
}

func testDirectory(tel telemetry.API) *directory.Directory {
	return directory.FromTables(
		directory.SeasonPeriods(),
		directory.CropCategories(),
		directory.Regions(),
		map[string]directory.Table{
			"01": directory.NewTable(directory.CategoryCrop, directory.Entry{Code: "101", Name: "玉米"}),
			"02": directory.NewTable(directory.CategoryCrop, directory.Entry{Code: "203", Name: "馬鈴薯"}),
		},
		tel,
	)
}

var defaultPage = reportPage(
	[]string{"地區", "種植面積", "收量"},
	[]string{"公頃", "公斤"},
	[]string{"001新化區", "12.5", "270,000"},
	[]string{"002善化區", "300", "7,304,576"},
	[]string{"合計", "312.5", "7,574,576"},
)

func collect(t *testing.T, w *Walker, region, crop string) ([]Record, error) {
	var records []Record
	err := w.Run(context.Background(), region, crop, func(r Record) error {
		records = append(records, r)
		return nil
	})
	return records, err
}

func TestRunOrder(t *testing.T) {
	rec := telemetry.NewRecorder()
	fetcher := &fakeFetcher{fallback: defaultPage}
	w := New(testDirectory(rec), fetcher, rec, Options{FromYear: 110, ToYear: 111})

	records, err := collect(t, w, "臺南市", "馬鈴薯")
	require.NoError(t, err)

	var visited []string
	for _, q := range fetcher.queries {
		require.Equal(t, "203", q.Crop)
		require.Equal(t, "0011", q.Region)
		require.Equal(t, "", q.CropCategory)
		visited = append(visited, pageKey(q.Year, q.SeasonPeriod))
	}
	expected := []string{
		"110/03", "110/01", "110/02", "110/00",
		"111/03", "111/01", "111/02", "111/00",
	}
	if diff := cmp.Diff(expected, visited); diff != "" {
		t.Fatal(diff)
	}

	require.Len(t, records, 16)
	first := records[0]
	require.Equal(t, "110", first.Year)
	require.Equal(t, "03", first.SeasonPeriod)
	require.Equal(t, "臺南市", first.Region)
	require.Equal(t, "新化區", first.SubRegion)
	require.Equal(t, []float64{12.5, 270000}, first.Values)
	require.Equal(t, []string{"地區", "種植面積(公頃)", "收量(公斤)"}, first.Columns.Titles())

	counts := rec.Reports("count")
	require.Len(t, counts, 1)
	require.Equal(t, int64(16), counts[0].Count)
}

func TestRunDefaultYears(t *testing.T) {
	rec := telemetry.NewRecorder()
	fetcher := &fakeFetcher{fallback: defaultPage}
	w := New(testDirectory(rec), fetcher, rec, Options{})

	_, err := collect(t, w, "臺南市", "玉米")
	require.NoError(t, err)

	years := DefaultToYear - DefaultFromYear + 1
	require.Len(t, fetcher.queries, years*len(directory.SeasonPeriodOrder))
	require.Equal(t, "086", fetcher.queries[0].Year)
	require.Equal(t, "111", fetcher.queries[len(fetcher.queries)-1].Year)
}

func TestRunResolveBeforeFetch(t *testing.T) {
	testCases := []struct {
		region string
		crop   string
	}{
		{region: "火星市", crop: "馬鈴薯"},
		{region: "臺南市", crop: "火龍果"},
	}

	for _, test := range testCases {
		rec := telemetry.NewRecorder()
		fetcher := &fakeFetcher{fallback: defaultPage}
		w := New(testDirectory(rec), fetcher, rec, Options{FromYear: 111, ToYear: 111})

		_, err := collect(t, w, test.region, test.crop)
		var notFound *directory.NotFoundError
		require.ErrorAs(t, err, &notFound)
		require.Empty(t, fetcher.queries)
	}
}

func TestResolveAmbiguousCrop(t *testing.T) {
	rec := telemetry.NewRecorder()
	dir := directory.FromTables(
		directory.SeasonPeriods(),
		directory.CropCategories(),
		directory.Regions(),
		map[string]directory.Table{
			"02": directory.NewTable(directory.CategoryCrop, directory.Entry{Code: "204", Name: "落花生"}),
			"03": directory.NewTable(directory.CategoryCrop, directory.Entry{Code: "301", Name: "落花生"}),
		},
		rec,
	)
	fetcher := &fakeFetcher{fallback: defaultPage}
	w := New(dir, fetcher, rec, Options{FromYear: 111, ToYear: 111, SeasonPeriods: []string{directory.SeasonAllYear}})

	target, err := w.Resolve("臺南市", "落花生")
	require.NoError(t, err)
	require.Equal(t, Target{
		RegionName: "臺南市",
		RegionCode: "0011",
		CropName:   "落花生",
		Crop:       directory.CropRef{Category: "02", Code: "204"},
	}, target)
	require.Len(t, rec.Reports("warning"), 1)
	require.Empty(t, fetcher.queries)

	var records []Record
	err = w.Walk(context.Background(), target, func(r Record) error {
		records = append(records, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Len(t, fetcher.queries, 1)
	require.Equal(t, "204", fetcher.queries[0].Crop)
	require.Len(t, rec.Reports("warning"), 1)
}

func TestRunFetchError(t *testing.T) {
	fetchErr := &afa.NetworkError{Op: "fetch report", Url: "/pgcroptown.jsp", Err: errors.New("connection reset")}
	rec := telemetry.NewRecorder()
	fetcher := &fakeFetcher{
		fallback: defaultPage,
		errAt:    "111/01",
		err:      fetchErr,
	}
	w := New(testDirectory(rec), fetcher, rec, Options{FromYear: 111, ToYear: 111})

	records, err := collect(t, w, "臺南市", "馬鈴薯")

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	require.Equal(t, "111", queryErr.Year)
	require.Equal(t, "01", queryErr.SeasonPeriod)

	var netErr *afa.NetworkError
	require.ErrorAs(t, err, &netErr)

	// the all-year query went through before the failure, nothing after it ran
	require.Len(t, records, 2)
	require.Len(t, fetcher.queries, 2)
}

func TestRunExtractError(t *testing.T) {
	rec := telemetry.NewRecorder()
	fetcher := &fakeFetcher{
		fallback: defaultPage,
		pages: map[string][]byte{
			"111/02": reportPage(
				[]string{"地區", "種植面積"},
				[]string{"公頃"},
				[]string{"001新化區", "N/A"},
				[]string{"合計", "0"},
			),
		},
	}
	w := New(testDirectory(rec), fetcher, rec, Options{FromYear: 111, ToYear: 111})

	_, err := collect(t, w, "臺南市", "馬鈴薯")

	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	require.Equal(t, "02", queryErr.SeasonPeriod)

	var malformed *report.MalformedDataError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "N/A", malformed.Text)
	require.Len(t, rec.Reports("broken"), 1)
}

func TestRunYieldError(t *testing.T) {
	rec := telemetry.NewRecorder()
	fetcher := &fakeFetcher{fallback: defaultPage}
	w := New(testDirectory(rec), fetcher, rec, Options{FromYear: 111, ToYear: 111})

	sinkErr := errors.New("disk full")
	err := w.Run(context.Background(), "臺南市", "馬鈴薯", func(Record) error {
		return sinkErr
	})
	require.ErrorIs(t, err, sinkErr)
	require.Len(t, fetcher.queries, 1)
}

func TestSubRegion(t *testing.T) {
	testCases := []struct {
		label    string
		expected string
	}{
		{label: "001臺南", expected: "臺南"},
		{label: "012新化區", expected: "新化區"},
		{label: "001", expected: ""},
		{label: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, SubRegion(test.label))
	}
}

func TestSurvey(t *testing.T) {
	rec := telemetry.NewRecorder()
	fetcher := &fakeFetcher{fallback: defaultPage}
	dir := directory.FromTables(
		directory.SeasonPeriods(),
		directory.NewTable(
			directory.CategoryCropCategory,
			directory.Entry{Code: "01", Name: "雜糧類"},
			directory.Entry{Code: "02", Name: "蔬菜類"},
		),
		directory.Regions(),
		map[string]directory.Table{
			"01": directory.NewTable(directory.CategoryCrop, directory.Entry{Code: "101", Name: "玉米"}),
			"02": directory.NewTable(directory.CategoryCrop, directory.Entry{Code: "203", Name: "馬鈴薯"}),
		},
		rec,
	)
	fetcher.pages = map[string][]byte{}
	w := New(dir, fetcher, rec, Options{FromYear: 111, ToYear: 111})

	var out strings.Builder
	err := w.Survey(context.Background(), 111, directory.SeasonAllYear, "臺南市", &out)
	require.NoError(t, err)

	expected := strings.Join([]string{
		"01:雜糧類",
		"101:玉米",
		"地區\t種植面積(公頃)\t收量(公斤)",
		"001新化區\t12.5\t270,000",
		"02:蔬菜類",
		"203:馬鈴薯",
		"地區\t種植面積(公頃)\t收量(公斤)",
		"001新化區\t12.5\t270,000",
	}, "\n") + "\n"
	require.Equal(t, expected, out.String())

	require.Len(t, fetcher.queries, 2)
	require.Equal(t, "01", fetcher.queries[0].CropCategory)
	require.Equal(t, "02", fetcher.queries[1].CropCategory)
}

func TestSurveyMalformedPage(t *testing.T) {
	rec := telemetry.NewRecorder()
	fetcher := &fakeFetcher{fallback: []byte("<html><body>查無資料</body></html>")}
	w := New(testDirectory(rec), fetcher, rec, Options{FromYear: 111, ToYear: 111})

	var out strings.Builder
	err := w.Survey(context.Background(), 111, directory.SeasonAllYear, "臺南市", &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "error:malformed report document")
	require.Len(t, rec.Reports("warning"), 2)
}

func TestSurveyReadsFirstRowOnly(t *testing.T) {
	rec := telemetry.NewRecorder()
	fetcher := &fakeFetcher{fallback: reportPage(
		[]string{"地區", "種植面積", "收量"},
		[]string{"公頃", "公斤"},
		[]string{"001新化區", "12.5", "270,000"},
		[]string{"002善化區", "N/A", "-"},
		[]string{"合計", "12.5", "270,000"},
	)}
	w := New(testDirectory(rec), fetcher, rec, Options{FromYear: 111, ToYear: 111})

	var out strings.Builder
	err := w.Survey(context.Background(), 111, directory.SeasonAllYear, "臺南市", &out)
	require.NoError(t, err)
	require.NotContains(t, out.String(), "error:")
	require.Contains(t, out.String(), "203:馬鈴薯\n地區\t種植面積(公頃)\t收量(公斤)\n001新化區\t12.5\t270,000\n")
	require.Empty(t, rec.Reports("warning"))
}
