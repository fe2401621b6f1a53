package headers

import (
	"iter"
	"slices"

	"github.com/indigo-web/utils/strcomp"
)

type field struct {
	name   string
	values []string
}

// Table keeps the header fields of an outbound request before they are emitted. Names are
// matched case-insensitively and keep the order they were first added in. Every name holds an
// insertion-ordered set of distinct values, except Content-Type, which always holds at most a
// single value: every write to it replaces the previous one.
type Table struct {
	fields []field
}

func NewTable() *Table {
	return new(Table)
}

// Add appends the value to the field. Values already present under the same name are not
// repeated. For Content-Type the value replaces the current one instead.
func (t *Table) Add(name, value string) *Table {
	i := t.index(name)
	if i == -1 {
		t.fields = append(t.fields, field{
			name:   Canonical(name),
			values: []string{value},
		})

		return t
	}

	f := &t.fields[i]
	switch {
	case f.name == ContentType:
		f.values = append(f.values[:0], value)
	case !slices.Contains(f.values, value):
		f.values = append(f.values, value)
	}

	return t
}

// Get returns all the values of the field in the order of insertion, or nil if there
// are none. The returned slice must not be modified.
func (t *Table) Get(name string) []string {
	if i := t.index(name); i != -1 {
		return t.fields[i].values
	}

	return nil
}

// Value returns the first value of the field, or an empty string if there are none.
func (t *Table) Value(name string) string {
	if values := t.Get(name); len(values) > 0 {
		return values[0]
	}

	return ""
}

func (t *Table) Has(name string) bool {
	return t.index(name) != -1
}

// Remove deletes the field with all its values and reports whether it was present.
func (t *Table) Remove(name string) bool {
	i := t.index(name)
	if i == -1 {
		return false
	}

	t.fields = slices.Delete(t.fields, i, i+1)
	return true
}

// Len returns the number of distinct field names.
func (t *Table) Len() int {
	return len(t.fields)
}

// Names returns the field names in emission order.
func (t *Table) Names() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.name
	}

	return names
}

// Iter yields every field name together with its values, in emission order.
func (t *Table) Iter() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, f := range t.fields {
			if !yield(f.name, f.values) {
				return
			}
		}
	}
}

func (t *Table) Clear() {
	t.fields = t.fields[:0]
}

func (t *Table) index(name string) int {
	for i, f := range t.fields {
		if strcomp.EqualFold(name, f.name) {
			return i
		}
	}

	return -1
}
