// Package dataset writes walker records as a comma delimited dataset with a
// single header line.
//
// Fields are not quoted or escaped. Labels come from the code tables and the
// report, which do not contain commas.
package dataset

import (
	"agrafa/internal/components/assert"
	"agrafa/internal/components/telemetry"
	"agrafa/internal/walker"
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const report_assembler_header_drift = "assembler.header-drift"

// LeadingColumns are the columns every line starts with: year, season
// period, region and sub-region.
var LeadingColumns = []string{"年", "期作", "縣市", "鄉鎮"}

type state int

const (
	awaitingHeader state = iota
	streaming
)

// Assembler merges records into one delimited text stream. The header is taken
// from the first record and never changes afterwards, records of a later page
// with a different column layout are written as they are.
type Assembler struct {
	out   *bufio.Writer
	tel   telemetry.API
	state state

	headerWidth int
	lines       int
}

func NewAssembler(w io.Writer, tel telemetry.API) *Assembler {
	assert.NotNil(w)
	assert.NotNil(tel)

	return &Assembler{
		out:   bufio.NewWriter(w),
		tel:   telemetry.NewScopedAPI("dataset", tel),
		state: awaitingHeader,
	}
}

// Write writes the line of a record, preceded by the header line if this is the
// first record.
func (a *Assembler) Write(r walker.Record) error {
	if a.state == awaitingHeader {
		err := a.writeHeader(r)
		if err != nil {
			return err
		}
		a.state = streaming
	} else if len(r.Values) != a.headerWidth {
		a.tel.ReportWarning(
			report_assembler_header_drift,
			fmt.Errorf("record has %d values, header has %d metric columns", len(r.Values), a.headerWidth),
			r.Year,
			r.SeasonPeriod,
		)
	}

	fields := make([]string, 0, len(LeadingColumns)+len(r.Values))
	fields = append(fields, r.Year, r.SeasonPeriod, r.Region, r.SubRegion)
	for _, v := range r.Values {
		fields = append(fields, FormatValue(v))
	}
	return a.writeLine(fields)
}

func (a *Assembler) writeHeader(r walker.Record) error {
	metrics := r.Columns.Metrics()
	a.headerWidth = len(metrics)

	fields := make([]string, 0, len(LeadingColumns)+len(metrics))
	fields = append(fields, LeadingColumns...)
	fields = append(fields, metrics.Titles()...)
	return a.writeLine(fields)
}

func (a *Assembler) writeLine(fields []string) error {
	_, err := a.out.WriteString(strings.Join(fields, ","))
	if err != nil {
		return err
	}
	err = a.out.WriteByte('\n')
	if err != nil {
		return err
	}
	a.lines++
	return nil
}

// Lines is the number of lines written so far, header included.
func (a *Assembler) Lines() int {
	return a.lines
}

// Flush writes any buffered lines to the underlying writer.
func (a *Assembler) Flush() error {
	return a.out.Flush()
}

// FormatValue renders a value as its shortest decimal representation, integral
// values keep a trailing ".0".
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}

// Assemble writes records to w and flushes.
func Assemble(records []walker.Record, w io.Writer, tel telemetry.API) error {
	a := NewAssembler(w, tel)
	for _, r := range records {
		err := a.Write(r)
		if err != nil {
			return err
		}
	}
	return a.Flush()
}
