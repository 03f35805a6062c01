package walker

import "fmt"

// QueryError names the query a walk failed on.
type QueryError struct {
	Year         string
	SeasonPeriod string
	Err          error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query year %s season period %s: %s", e.Year, e.SeasonPeriod, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
