// Package model maps named record types onto SimpleDB domains. A Type
// declares a domain's fields with their codecs; a Manager binds a Type
// to a client for fetching, saving, and querying records; a Registry
// collects an application's Types, derives the codec Encoder the client
// needs, and provisions missing domains.
package model

import (
	"fmt"
	"sort"

	"github.com/jacentio/simpledb/sdb"
)

// Field declares one attribute of a record type. A nil Codec stores the
// field as a plain string. Required fields must be set before a record
// saves; Default seeds new records.
type Field struct {
	Name     string
	Codec    sdb.Codec
	Required bool
	Default  any
}

// Type is an immutable record-type descriptor bound to one domain.
// Build one with NewType and share it freely.
type Type struct {
	domain string
	fields []Field
	byName map[string]Field
}

// NewType builds a record type for domain from its field declarations.
// The domain and every field name must be non-empty, and field names
// must be unique.
func NewType(domain string, fields ...Field) (*Type, error) {
	if domain == "" {
		return nil, fmt.Errorf("model: empty domain name")
	}
	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("model: unnamed field in domain %q", domain)
		}
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("model: duplicate field %q in domain %q", f.Name, domain)
		}
		byName[f.Name] = f
	}
	return &Type{
		domain: domain,
		fields: append([]Field(nil), fields...),
		byName: byName,
	}, nil
}

// Domain returns the domain name records of this type live in.
func (t *Type) Domain() string { return t.domain }

// Fields returns the field declarations in declaration order.
func (t *Type) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

// Codec returns the codec declared for attr, or nil when attr is
// undeclared or stored as a plain string.
func (t *Type) Codec(attr string) sdb.Codec {
	return t.byName[attr].Codec
}

func (t *Type) has(attr string) bool {
	_, ok := t.byName[attr]
	return ok
}

// New creates an empty record named name with field defaults applied.
func (t *Type) New(name string) *Record {
	rec := &Record{
		typ:     t,
		name:    name,
		values:  make(map[string]any),
		cleared: make(map[string]bool),
	}
	for _, f := range t.fields {
		if f.Default != nil {
			rec.values[f.Name] = f.Default
		}
	}
	return rec
}

// FromItem converts a fetched item into a record. Attributes the type
// does not declare are dropped; multi-valued attributes come back as
// []any. No defaults are applied since the item reflects stored state.
func (t *Type) FromItem(item sdb.Item) *Record {
	rec := &Record{
		typ:     t,
		name:    item.Name,
		values:  make(map[string]any),
		cleared: make(map[string]bool),
	}
	for _, f := range t.fields {
		values := item.Attributes[f.Name]
		switch len(values) {
		case 0:
		case 1:
			rec.values[f.Name] = values[0]
		default:
			rec.values[f.Name] = append([]any(nil), values...)
		}
	}
	return rec
}

// Record is one item of a record type: a name plus decoded field
// values. Records are not safe for concurrent mutation.
type Record struct {
	typ     *Type
	name    string
	values  map[string]any
	cleared map[string]bool
}

// Name returns the item name.
func (r *Record) Name() string { return r.name }

// Type returns the record's type descriptor.
func (r *Record) Type() *Type { return r.typ }

// Get returns the value of field, or nil when unset.
func (r *Record) Get(field string) any {
	return r.values[field]
}

// Set assigns value to a declared field. Setting nil clears the field:
// the next Save deletes its stored values.
func (r *Record) Set(field string, value any) error {
	if !r.typ.has(field) {
		return fmt.Errorf("model: field %q not declared for domain %q", field, r.typ.domain)
	}
	if value == nil {
		delete(r.values, field)
		r.cleared[field] = true
		return nil
	}
	r.values[field] = value
	delete(r.cleared, field)
	return nil
}

// Attrs flattens the set fields into replace-mode writes in declaration
// order.
func (r *Record) Attrs() []sdb.Attr {
	var attrs []sdb.Attr
	for _, f := range r.typ.fields {
		if v, ok := r.values[f.Name]; ok {
			attrs = append(attrs, sdb.Attr{Name: f.Name, Value: v})
		}
	}
	return attrs
}

// clearedAttrs lists the fields a Save must delete, in sorted order so
// generated requests are deterministic.
func (r *Record) clearedAttrs() []sdb.Attr {
	if len(r.cleared) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.cleared))
	for name := range r.cleared {
		names = append(names, name)
	}
	sort.Strings(names)
	attrs := make([]sdb.Attr, len(names))
	for i, name := range names {
		attrs[i] = sdb.Attr{Name: name}
	}
	return attrs
}

func (r *Record) resetCleared() {
	r.cleared = make(map[string]bool)
}
