// Package report turns the crop report page into typed rows.
//
// The report table has the layout
//
//	row 0      label column name, metric names...
//	row 1      metric units
//	row 2..n-2 label, metric values...
//	row n-1    totals
package report

import (
	"agrafa/internal/components/htmlutil"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// the report table is the third table of the page
const reportTableIndex = 2

// Column is a single column of a report table.
type Column struct {
	Name string
	Unit string
}

// Title is the name with the unit merged in as "name(unit)", the label column has no unit
// and is rendered as its bare name.
func (c Column) Title() string {
	if c.Unit == "" {
		return c.Name
	}
	return fmt.Sprintf("%s(%s)", c.Name, c.Unit)
}

// ColumnSpec is the merged two row header of a report table. The first column
// is always the label column.
type ColumnSpec []Column

// Titles returns the title of every column.
func (s ColumnSpec) Titles() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Title()
	}
	return out
}

// Metrics returns every column after the label column.
func (s ColumnSpec) Metrics() ColumnSpec {
	if len(s) == 0 {
		return nil
	}
	return s[1:]
}

// DataRow is a single data row of a report table.
type DataRow struct {
	Label  string
	Values []float64
}

// Extract parses a report page.
func Extract(r io.Reader) (ColumnSpec, []DataRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, &MalformedDocumentError{Reason: fmt.Sprintf("parse html: %s", err)}
	}
	return ExtractDocument(doc)
}

// ExtractDocument is Extract for an already parsed page.
func ExtractDocument(doc *goquery.Document) (ColumnSpec, []DataRow, error) {
	columns, rows, err := locate(doc)
	if err != nil {
		return nil, nil, err
	}

	var data []DataRow
	// the last row is the totals row, it is excluded by position
	for r := 2; r < len(rows)-1; r++ {
		row, err := parseDataRow(r, rows[r], len(columns))
		if err != nil {
			return nil, nil, err
		}
		data = append(data, row)
	}

	return columns, data, nil
}

// Preview parses the header of a report page and returns the cell text of its
// first data row as it appears on the page. The first row is nil when the
// table has no data rows. Rows other than the first are not validated.
func Preview(r io.Reader) (ColumnSpec, []string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, &MalformedDocumentError{Reason: fmt.Sprintf("parse html: %s", err)}
	}

	columns, rows, err := locate(doc)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 4 {
		return columns, nil, nil
	}
	return columns, rows[2], nil
}

// locate finds the report table and merges its header, rows are returned with
// the header rows included.
func locate(doc *goquery.Document) (ColumnSpec, [][]string, error) {
	tables := doc.Find("body table")
	if tables.Length() <= reportTableIndex {
		return nil, nil, &MalformedDocumentError{
			Reason: fmt.Sprintf("expected at least %d tables, found %d", reportTableIndex+1, tables.Length()),
		}
	}

	rows := readRows(tables.Eq(reportTableIndex))
	if len(rows) < 2 {
		return nil, nil, &MalformedDocumentError{
			Reason: fmt.Sprintf("expected 2 header rows, found %d rows", len(rows)),
		}
	}

	columns, err := mergeHeader(rows[0], rows[1])
	if err != nil {
		return nil, nil, err
	}
	return columns, rows, nil
}

func readRows(table *goquery.Selection) [][]string {
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := []string{}
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, cellText(td))
		})
		rows = append(rows, cells)
	})
	return rows
}

func cellText(td *goquery.Selection) string {
	var out strings.Builder
	for _, node := range td.Nodes {
		out.WriteString(htmlutil.GetText(node))
	}
	return out.String()
}

// mergeHeader merges the unit row into the name row. The unit row either has a
// cell for every metric column, or additionally a leading cell belonging to the
// label column, which is ignored.
func mergeHeader(names, units []string) (ColumnSpec, error) {
	if len(names) == 0 {
		return nil, &MalformedDocumentError{Reason: "header row has no cells"}
	}

	metricCount := len(names) - 1
	switch len(units) {
	case metricCount:
	case metricCount + 1:
		units = units[1:]
	default:
		return nil, &MalformedDocumentError{
			Reason: fmt.Sprintf(
				"unit row has %d cells, expected %d for %d columns",
				len(units), metricCount, len(names),
			),
		}
	}

	columns := make(ColumnSpec, len(names))
	columns[0] = Column{Name: htmlutil.Clean(names[0])}
	for i, unit := range units {
		columns[i+1] = Column{
			Name: htmlutil.Clean(names[i+1]),
			Unit: htmlutil.Clean(unit),
		}
	}
	return columns, nil
}

func parseDataRow(rowIdx int, cells []string, columnCount int) (DataRow, error) {
	if len(cells) != columnCount {
		text := ""
		if len(cells) > 0 {
			text = cells[0]
		}
		// the first missing or extra position
		return DataRow{}, &MalformedDataError{
			Row:    rowIdx,
			Column: min(len(cells), columnCount),
			Text:   text,
			Err:    fmt.Errorf("row has %d cells, expected %d", len(cells), columnCount),
		}
	}

	row := DataRow{
		Label:  cells[0],
		Values: make([]float64, 0, columnCount-1),
	}
	for c := 1; c < len(cells); c++ {
		value, err := ParseNumber(cells[c])
		if err != nil {
			return DataRow{}, &MalformedDataError{
				Row:    rowIdx,
				Column: c,
				Text:   cells[c],
				Err:    err,
			}
		}
		row.Values = append(row.Values, value)
	}
	return row, nil
}

// ParseNumber parses a report cell as a float after removing thousands separators.
func ParseNumber(text string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	return strconv.ParseFloat(cleaned, 64)
}
