package sdb

import "sort"

// Attributes maps attribute names to decoded values. Attributes are
// multi-valued in the store; single values are the common case and read
// back through Get.
type Attributes map[string][]any

// Get returns the first value of name, or nil when the attribute is
// absent.
func (a Attributes) Get(name string) any {
	if values := a[name]; len(values) > 0 {
		return values[0]
	}
	return nil
}

// Add appends values to name.
func (a Attributes) Add(name string, values ...any) {
	a[name] = append(a[name], values...)
}

// Set replaces the values of name.
func (a Attributes) Set(name string, values ...any) {
	a[name] = values
}

// Attrs flattens the map into replace-mode writes ordered by attribute
// name, so generated requests are deterministic.
func (a Attributes) Attrs() []Attr {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)

	var attrs []Attr
	for _, name := range names {
		for _, v := range a[name] {
			attrs = append(attrs, Attr{Name: name, Value: v})
		}
	}
	return attrs
}

// Item is a named record in a domain.
type Item struct {
	Name       string
	Attributes Attributes
}

// Attr is a single attribute write. The zero Add flag gives replace
// semantics: the write overwrites every stored value of Name. With Add
// set, the value is appended to whatever is stored. A slice Value
// expands to one write per element.
//
// In DeleteAttributes calls a nil Value removes every value of Name and
// Add is ignored.
type Attr struct {
	Name  string
	Value any
	Add   bool
}
