package assert

import "fmt"

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}

// LessOrEqual panics when a > b, it is used to validate ranges handed to constructors.
func LessOrEqual(a, b int) {
	if a > b {
		panic(fmt.Sprintf("expected %d <= %d", a, b))
	}
}
