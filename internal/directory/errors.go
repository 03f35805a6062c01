package directory

import (
	"fmt"

	"github.com/antzucaro/matchr"
)

// NotFoundError is returned when a display name has no code in a table.
type NotFoundError struct {
	Category string
	Name     string
	// Suggestion is the most similar display name in the searched table(s),
	// it is only a hint and empty when nothing is similar.
	Suggestion string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Category, e.Name)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// similarity below this is not worth suggesting
const minSuggestSimilarity = 0.7

func suggest(name string, entries []Entry) string {
	var best string
	var bestSimilarity float64
	for _, e := range entries {
		similarity := matchr.JaroWinkler(name, e.Name, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = e.Name
		}
	}
	if bestSimilarity < minSuggestSimilarity {
		return ""
	}
	return best
}
