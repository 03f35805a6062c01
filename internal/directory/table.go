package directory

import "agrafa/internal/components/assert"

// Entry is a single code/name pair of a code table.
type Entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Table is an ordered mapping from query code to display name for one category.
type Table struct {
	Category string
	entries  []Entry
	byCode   map[string]int
}

// NewTable builds a table from entries, keeping their order. A repeated code
// replaces the display name of the earlier entry.
func NewTable(category string, entries ...Entry) Table {
	assert.NotEmptyStr(category)

	t := Table{
		Category: category,
		byCode:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if idx, ok := t.byCode[e.Code]; ok {
			t.entries[idx].Name = e.Name
			continue
		}
		t.byCode[e.Code] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t
}

func (t Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in table order.
func (t Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Name returns the display name for code.
func (t Table) Name(code string) (string, bool) {
	idx, ok := t.byCode[code]
	if !ok {
		return "", false
	}
	return t.entries[idx].Name, true
}

// Codes returns the codes in table order.
func (t Table) Codes() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Code
	}
	return out
}

// Resolve returns the code whose display name is exactly name.
func Resolve(t Table, name string) (string, error) {
	for _, e := range t.entries {
		if e.Name == name {
			return e.Code, nil
		}
	}
	return "", &NotFoundError{
		Category:   t.Category,
		Name:       name,
		Suggestion: suggest(name, t.entries),
	}
}
