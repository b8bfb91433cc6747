package model

import (
	"context"
	"fmt"

	"github.com/jacentio/simpledb/sdb"
)

// Registry is an ordered collection of an application's record types.
// Register every type at startup, then hand Encoder() to the client
// configuration and provision storage with CreateDomains. A Registry is
// not safe for concurrent registration.
type Registry struct {
	types    []*Type
	byDomain map[string]*Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byDomain: make(map[string]*Type)}
}

// Register adds typ. Each domain can carry only one type.
func (r *Registry) Register(typ *Type) error {
	if _, dup := r.byDomain[typ.domain]; dup {
		return fmt.Errorf("model: domain %q already registered", typ.domain)
	}
	r.types = append(r.types, typ)
	r.byDomain[typ.domain] = typ
	return nil
}

// Type returns the type registered for domain, or nil.
func (r *Registry) Type(domain string) *Type {
	return r.byDomain[domain]
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []*Type {
	return append([]*Type(nil), r.types...)
}

// Encoder builds the codec table covering every registered type, for
// use as the client's Encoder.
func (r *Registry) Encoder() *sdb.CodecTable {
	table := sdb.NewCodecTable()
	for _, typ := range r.types {
		for _, f := range typ.fields {
			if f.Codec != nil {
				table.Register(typ.domain, f.Name, f.Codec)
			}
		}
	}
	return table
}

// CreateDomains provisions a domain for every registered type that does
// not already have one, returning the names it created. Creation stops
// at the first failure; the returned names are the domains created
// before it.
func (r *Registry) CreateDomains(ctx context.Context, client *sdb.Client) ([]string, error) {
	existing, err := client.ListDomains(ctx)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	var created []string
	for _, typ := range r.types {
		if have[typ.domain] {
			continue
		}
		if _, err := client.CreateDomain(ctx, typ.domain); err != nil {
			return created, err
		}
		created = append(created, typ.domain)
	}
	return created, nil
}
