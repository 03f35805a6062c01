package report

import "fmt"

// MalformedDocumentError is returned when a report page does not have the
// expected table structure, usually because the site changed or the query was
// invalid.
type MalformedDocumentError struct {
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed report document: %s", e.Reason)
}

// MalformedDataError is returned when a data cell cannot be read. Row and Column
// are zero based positions in the report table, Row counts the header rows.
type MalformedDataError struct {
	Row    int
	Column int
	Text   string
	Err    error
}

func (e *MalformedDataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed report data at row %d column %d: %q", e.Row, e.Column, e.Text)
	}
	return fmt.Sprintf("malformed report data at row %d column %d: %q: %s", e.Row, e.Column, e.Text, e.Err)
}

func (e *MalformedDataError) Unwrap() error {
	return e.Err
}
