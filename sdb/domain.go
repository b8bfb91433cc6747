package sdb

import (
	"context"
	"fmt"
	"sync"
)

// DomainMetadata reports size and item statistics for a domain.
type DomainMetadata struct {
	ItemCount                int64
	ItemNamesSizeBytes       int64
	AttributeNameCount       int64
	AttributeNamesSizeBytes  int64
	AttributeValueCount      int64
	AttributeValuesSizeBytes int64

	// Timestamp is when the statistics were computed, in Unix seconds.
	Timestamp int64
}

// Domain is a named collection of items. It keeps a best-effort cache of
// items loaded through Get; writes through the Domain evict their
// entries, but the cache carries no consistency guarantee and external
// writes are never observed. A Domain is safe for concurrent use.
type Domain struct {
	name   string
	client *Client

	mu    sync.Mutex
	items map[string]Item
}

// Domain returns a handle on the named domain. No request is made and
// the domain is not required to exist yet.
func (c *Client) Domain(name string) *Domain {
	return &Domain{name: name, client: c, items: make(map[string]Item)}
}

// Name returns the domain name.
func (d *Domain) Name() string { return d.name }

// Metadata fetches item and size statistics for the domain.
func (d *Domain) Metadata(ctx context.Context) (*DomainMetadata, error) {
	return d.client.DomainMetadata(ctx, d.name)
}

// Get loads the named item, consulting the local cache first. An item
// with no attributes returns ErrNotFound and is not cached, so a later
// Get can observe it once replication catches up.
func (d *Domain) Get(ctx context.Context, name string) (Item, error) {
	d.mu.Lock()
	cached, ok := d.items[name]
	d.mu.Unlock()
	if ok {
		return cached, nil
	}

	attrs, err := d.client.GetAttributes(ctx, d.name, name)
	if err != nil {
		return Item{}, err
	}
	if len(attrs) == 0 {
		return Item{}, fmt.Errorf("%w: %q in %q", ErrNotFound, name, d.name)
	}
	item := Item{Name: name, Attributes: attrs}
	d.mu.Lock()
	d.items[name] = item
	d.mu.Unlock()
	return item, nil
}

// Put writes attrs to the named item and evicts any cached copy.
func (d *Domain) Put(ctx context.Context, name string, attrs []Attr) error {
	if err := d.client.PutAttributes(ctx, d.name, name, attrs); err != nil {
		return err
	}
	d.evict(name)
	return nil
}

// PutItem stores every attribute of item with replace semantics.
func (d *Domain) PutItem(ctx context.Context, item Item) error {
	return d.Put(ctx, item.Name, item.Attributes.Attrs())
}

// Delete removes attributes from the named item; an empty attrs list
// removes the item entirely. Any cached copy is evicted either way.
func (d *Domain) Delete(ctx context.Context, name string, attrs []Attr) error {
	if err := d.client.DeleteAttributes(ctx, d.name, name, attrs); err != nil {
		return err
	}
	d.evict(name)
	return nil
}

func (d *Domain) evict(name string) {
	d.mu.Lock()
	delete(d.items, name)
	d.mu.Unlock()
}

// Select runs a raw select expression against the client, returning all
// pages. The expression is not required to reference this domain, but
// codecs are looked up under this domain's name.
func (d *Domain) Select(ctx context.Context, expression string) ([]Item, error) {
	return d.client.Select(ctx, d.name, expression)
}

// Query starts an unfiltered query over the domain.
func (d *Domain) Query() *Query {
	return newQuery(d)
}

// Filter starts a query constrained by cond.
func (d *Domain) Filter(cond Cond) *Query {
	return d.Query().Filter(cond)
}

// Values starts a query projecting only the named attributes.
func (d *Domain) Values(fields ...string) *Query {
	return d.Query().Values(fields...)
}

// ItemNames starts a query projecting item names only.
func (d *Domain) ItemNames() *Query {
	return d.Query().ItemNames()
}

// Count reports how many items the domain holds.
func (d *Domain) Count(ctx context.Context) (int, error) {
	return d.Query().Count(ctx)
}
