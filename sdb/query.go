package sdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Query is an immutable select builder bound to a domain. Builder
// methods return new values and never touch their receiver, so a Query
// can be held as a base and refined in several directions.
//
// Evaluation runs the select at most once per Query value: the result is
// cached for the lifetime of the value, concurrent callers share a
// single request, and builder calls never invalidate a prior Query's
// cache because they always produce a fresh one.
type Query struct {
	domain    *Domain
	where     Cond
	fields    []string
	order     string
	desc      bool
	limit     int
	namesOnly bool
	err       error

	once *sync.Once
	res  *queryResult
}

type queryResult struct {
	done  atomic.Bool
	items []Item
	err   error
}

func newQuery(d *Domain) *Query {
	return &Query{domain: d, once: new(sync.Once), res: new(queryResult)}
}

func (q *Query) clone() *Query {
	return &Query{
		domain:    q.domain,
		where:     q.where,
		fields:    append([]string(nil), q.fields...),
		order:     q.order,
		desc:      q.desc,
		limit:     q.limit,
		namesOnly: q.namesOnly,
		err:       q.err,
		once:      new(sync.Once),
		res:       new(queryResult),
	}
}

func (q *Query) fail(err error) *Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

// Err reports any construction problem accumulated by builder calls,
// including errors carried by filter conditions.
func (q *Query) Err() error {
	if q.err != nil {
		return q.err
	}
	return q.where.Err()
}

// Filter returns a copy of the query additionally constrained by cond.
// Successive filters are joined with AND.
func (q *Query) Filter(cond Cond) *Query {
	nq := q.clone()
	nq.where = nq.where.And(cond)
	return nq
}

// Values returns a copy projecting only the named attributes instead of
// every attribute.
func (q *Query) Values(fields ...string) *Query {
	nq := q.clone()
	if nq.namesOnly {
		return nq.fail(fmt.Errorf("%w: cannot project values on an item name query", ErrInvalidQuery))
	}
	if len(fields) == 0 {
		return nq.fail(fmt.Errorf("%w: empty projection", ErrInvalidQuery))
	}
	nq.fields = append([]string(nil), fields...)
	return nq
}

// ItemNames returns a copy projecting item names only. It cannot be
// combined with Values.
func (q *Query) ItemNames() *Query {
	nq := q.clone()
	if len(nq.fields) > 0 {
		return nq.fail(fmt.Errorf("%w: cannot reduce a value projection to item names", ErrInvalidQuery))
	}
	nq.namesOnly = true
	return nq
}

// OrderBy returns a copy sorted by field. A "-" prefix sorts descending.
func (q *Query) OrderBy(field string) *Query {
	nq := q.clone()
	desc := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")
	if field == "" {
		return nq.fail(fmt.Errorf("%w: empty order field", ErrInvalidQuery))
	}
	nq.order, nq.desc = field, desc
	return nq
}

// Limit returns a copy capped at n items.
func (q *Query) Limit(n int) *Query {
	nq := q.clone()
	if n < 1 {
		return nq.fail(fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidQuery, n))
	}
	nq.limit = n
	return nq
}

// Expression compiles the query to select expression text.
func (q *Query) Expression() (string, error) {
	if q.err != nil {
		return "", q.err
	}
	fields := "*"
	switch {
	case q.namesOnly:
		fields = itemNameRef
	case len(q.fields) > 0:
		fields = strings.Join(q.fields, ", ")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(fields)
	b.WriteString(" FROM `")
	b.WriteString(q.domain.name)
	b.WriteString("`")

	where, err := q.where.Expression(q.domain.name, q.domain.client.config.Encoder)
	if err != nil {
		return "", err
	}
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if q.order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.order)
		if q.desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}
	if q.limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.limit))
	}
	return b.String(), nil
}

// Items evaluates the query and returns the matched items. The first
// call issues the select; later calls and concurrent callers share the
// cached result.
func (q *Query) Items(ctx context.Context) ([]Item, error) {
	q.once.Do(func() {
		defer q.res.done.Store(true)
		expr, err := q.Expression()
		if err != nil {
			q.res.err = err
			return
		}
		items, err := q.domain.client.Select(ctx, q.domain.name, expr)
		if err != nil {
			q.res.err = err
			return
		}
		q.res.items = items
	})
	return q.res.items, q.res.err
}

// Names evaluates the query and returns just the item names.
func (q *Query) Names(ctx context.Context) ([]string, error) {
	items, err := q.Items(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names, nil
}

// Count reports how many items match. An already evaluated Query
// answers from its cache; otherwise a count(*) projection is issued,
// leaving the cache untouched.
func (q *Query) Count(ctx context.Context) (int, error) {
	if q.err != nil {
		return 0, q.err
	}
	if q.res.done.Load() {
		if q.res.err != nil {
			return 0, q.res.err
		}
		return len(q.res.items), nil
	}

	cq := q.clone()
	cq.namesOnly = false
	cq.fields = []string{"count(*)"}
	expr, err := cq.Expression()
	if err != nil {
		return 0, err
	}
	rows, err := q.domain.client.Select(ctx, q.domain.name, expr)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: count select returned no rows", ErrMalformedResponse)
	}
	n, err := strconv.Atoi(stringify(rows[0].Attributes.Get("Count")))
	if err != nil {
		return 0, fmt.Errorf("%w: unreadable Count row", ErrMalformedResponse)
	}
	return n, nil
}

// Get evaluates the query restricted to the named item. A missing item
// returns ErrNotFound.
func (q *Query) Get(ctx context.Context, name string) (Item, error) {
	items, err := q.Filter(ItemName(name)).Items(ctx)
	if err != nil {
		return Item{}, err
	}
	if len(items) == 0 {
		return Item{}, fmt.Errorf("%w: %q in %q", ErrNotFound, name, q.domain.name)
	}
	return items[0], nil
}
