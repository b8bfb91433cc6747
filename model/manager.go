package model

import (
	"context"
	"fmt"

	"github.com/jacentio/simpledb/sdb"
)

// Manager is the query root for one record type on one client. A
// Manager is safe for concurrent use.
type Manager struct {
	typ    *Type
	client *sdb.Client
	domain *sdb.Domain
}

// NewManager binds typ to client. The client's Encoder must cover typ's
// codecs, normally by configuring it with Registry.Encoder.
func NewManager(client *sdb.Client, typ *Type) *Manager {
	return &Manager{typ: typ, client: client, domain: client.Domain(typ.domain)}
}

// Type returns the record type the manager serves.
func (m *Manager) Type() *Type { return m.typ }

// Get fetches the named record. A record with no stored attributes
// reports ErrNotFound.
func (m *Manager) Get(ctx context.Context, name string) (*Record, error) {
	attrs, err := m.client.GetAttributes(ctx, m.typ.domain, name)
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("%w: %q in %q", sdb.ErrNotFound, name, m.typ.domain)
	}
	return m.typ.FromItem(sdb.Item{Name: name, Attributes: attrs}), nil
}

// Save writes the record: cleared fields are deleted, set fields are
// written with replace semantics. Required fields must hold a value.
func (m *Manager) Save(ctx context.Context, rec *Record) error {
	for _, f := range m.typ.fields {
		if f.Required && rec.Get(f.Name) == nil {
			return fmt.Errorf("%w: %s in %q", ErrMissingField, f.Name, m.typ.domain)
		}
	}
	if cleared := rec.clearedAttrs(); len(cleared) > 0 {
		if err := m.client.DeleteAttributes(ctx, m.typ.domain, rec.name, cleared); err != nil {
			return err
		}
	}
	if attrs := rec.Attrs(); len(attrs) > 0 {
		if err := m.client.PutAttributes(ctx, m.typ.domain, rec.name, attrs); err != nil {
			return err
		}
	}
	rec.resetCleared()
	return nil
}

// Delete removes the named record entirely.
func (m *Manager) Delete(ctx context.Context, name string) error {
	return m.client.DeleteAttributes(ctx, m.typ.domain, name, nil)
}

// All starts an unfiltered query over the type's domain.
func (m *Manager) All() *Query {
	return &Query{m: m, q: m.domain.Query()}
}

// Filter starts a query constrained by cond.
func (m *Manager) Filter(cond sdb.Cond) *Query {
	return &Query{m: m, q: m.domain.Filter(cond)}
}

// Count reports how many records the domain holds.
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.domain.Count(ctx)
}

// Query is a typed view over sdb.Query that yields records instead of
// items. Builders return new values, never modifying the receiver.
type Query struct {
	m *Manager
	q *sdb.Query
}

// Filter narrows the query by cond.
func (q *Query) Filter(cond sdb.Cond) *Query {
	return &Query{m: q.m, q: q.q.Filter(cond)}
}

// OrderBy sorts results by a field; a "-" prefix sorts descending.
func (q *Query) OrderBy(field string) *Query {
	return &Query{m: q.m, q: q.q.OrderBy(field)}
}

// Limit caps the number of results.
func (q *Query) Limit(n int) *Query {
	return &Query{m: q.m, q: q.q.Limit(n)}
}

// Expression compiles the query to select expression text.
func (q *Query) Expression() (string, error) {
	return q.q.Expression()
}

// Records runs the query and converts each matched item into a record.
func (q *Query) Records(ctx context.Context) ([]*Record, error) {
	items, err := q.q.Items(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]*Record, len(items))
	for i, item := range items {
		records[i] = q.m.typ.FromItem(item)
	}
	return records, nil
}

// Count reports how many records the query matches.
func (q *Query) Count(ctx context.Context) (int, error) {
	return q.q.Count(ctx)
}

// Get fetches the single record named name through the query's filter,
// reporting ErrNotFound when it matches nothing.
func (q *Query) Get(ctx context.Context, name string) (*Record, error) {
	item, err := q.q.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return q.m.typ.FromItem(item), nil
}

// Values drops to the untyped query with a field projection: projected
// rows are partial, so they come back as plain items rather than
// records.
func (q *Query) Values(fields ...string) *sdb.Query {
	return q.q.Values(fields...)
}

// ItemNames drops to the untyped query projecting record names only.
func (q *Query) ItemNames() *sdb.Query {
	return q.q.ItemNames()
}
