package chrono

import "time"

// Taiwan has not observed daylight saving time since 1979.
var taipei = time.FixedZone("CST", 8*60*60)

// API is the interface that anything depending on the system clock should use.
type API interface {
	// Now returns the current time in Asia/Taipei.
	Now() time.Time
}

// StandardImpl is the standard implementation of API using the standard library.
type StandardImpl struct{}

func NewStandardImpl() StandardImpl {
	return StandardImpl{}
}

func (StandardImpl) Now() time.Time {
	return time.Now().In(taipei)
}

// ROCYear converts the year of t to the Republic of China calendar used by the report site.
func ROCYear(t time.Time) int {
	return t.In(taipei).Year() - 1911
}

// LastCompleteROCYear is the latest ROC year whose statistics can be complete at now.
func LastCompleteROCYear(clock API) int {
	return ROCYear(clock.Now()) - 1
}
