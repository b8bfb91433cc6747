package sdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacentio/simpledb/internal/sigv2"
)

// Client is a connection to a SimpleDB account. Its methods mirror the
// service's actions one to one; Domain wraps them with per-domain
// conveniences and the query builder. A Client is safe for concurrent
// use.
type Client struct {
	config Config
	signer sigv2.Method
}

// New creates a Client with config applied over defaults.
func New(config Config) *Client {
	config.validate()
	signer := sigv2.HMACSHA256
	if config.SignatureMethod == sigv2.HMACSHA1.Name {
		signer = sigv2.HMACSHA1
	}
	return &Client{config: config, signer: signer}
}

// Encoder returns the encoder the client applies to attribute values.
func (c *Client) Encoder() Encoder {
	return c.config.Encoder
}

// CreateDomain creates the named domain and returns a handle to it.
// Creating an existing domain succeeds without effect; a fresh domain
// can take several seconds to become usable everywhere.
func (c *Client) CreateDomain(ctx context.Context, name string) (*Domain, error) {
	params := newParams("CreateDomain")
	params.Set("DomainName", name)
	var out createDomainResponse
	if err := c.do(ctx, params, &out); err != nil {
		return nil, err
	}
	return c.Domain(name), nil
}

// DeleteDomain removes the named domain and every item in it.
func (c *Client) DeleteDomain(ctx context.Context, name string) error {
	params := newParams("DeleteDomain")
	params.Set("DomainName", name)
	var out deleteDomainResponse
	return c.do(ctx, params, &out)
}

// ListDomains returns every domain name in the account, gathering all
// pages.
func (c *Client) ListDomains(ctx context.Context) ([]string, error) {
	var names []string
	paginator := NewListDomainsPaginator(c)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		names = append(names, page...)
	}
	return names, nil
}

// HasDomain reports whether the named domain exists.
func (c *Client) HasDomain(ctx context.Context, name string) (bool, error) {
	names, err := c.ListDomains(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// DomainMetadata reports item and size statistics for the named domain.
func (c *Client) DomainMetadata(ctx context.Context, name string) (*DomainMetadata, error) {
	params := newParams("DomainMetadata")
	params.Set("DomainName", name)
	var out domainMetadataResponse
	if err := c.do(ctx, params, &out); err != nil {
		return nil, err
	}
	if out.Result == nil {
		return nil, fmt.Errorf("%w: no DomainMetadataResult element", ErrMalformedResponse)
	}
	return &DomainMetadata{
		ItemCount:                out.Result.ItemCount,
		ItemNamesSizeBytes:       out.Result.ItemNamesSizeBytes,
		AttributeNameCount:       out.Result.AttributeNameCount,
		AttributeNamesSizeBytes:  out.Result.AttributeNamesSizeBytes,
		AttributeValueCount:      out.Result.AttributeValueCount,
		AttributeValuesSizeBytes: out.Result.AttributeValuesSizeBytes,
		Timestamp:                out.Result.Timestamp,
	}, nil
}

// PutAttributes writes attributes to an item, creating the item if
// needed. Each Attr replaces the stored values of its name unless its
// Add flag is set.
func (c *Client) PutAttributes(ctx context.Context, domain, item string, attrs []Attr) error {
	params := newParams("PutAttributes")
	params.Set("DomainName", domain)
	params.Set("ItemName", item)
	if err := c.addPutAttrs(params, domain, "", attrs); err != nil {
		return err
	}
	var out putAttributesResponse
	return c.do(ctx, params, &out)
}

// DeleteAttributes removes attributes from an item. An Attr with a nil
// Value removes every value of that name; an empty attrs list removes
// the item entirely. Deleting what is already absent succeeds.
func (c *Client) DeleteAttributes(ctx context.Context, domain, item string, attrs []Attr) error {
	params := newParams("DeleteAttributes")
	params.Set("DomainName", domain)
	params.Set("ItemName", item)
	if err := c.addDeleteAttrs(params, domain, attrs); err != nil {
		return err
	}
	var out deleteAttributesResponse
	return c.do(ctx, params, &out)
}

// GetAttributes fetches an item's attributes, optionally restricted to
// the given names. A missing item yields an empty set rather than an
// error: the store cannot distinguish absence from replication lag.
func (c *Client) GetAttributes(ctx context.Context, domain, item string, names ...string) (Attributes, error) {
	params := newParams("GetAttributes")
	params.Set("DomainName", domain)
	params.Set("ItemName", item)
	for i, n := range names {
		params.Set(fmt.Sprintf("AttributeName.%d", i), n)
	}
	var out getAttributesResponse
	if err := c.do(ctx, params, &out); err != nil {
		return nil, err
	}
	return c.decodeAttributes(domain, out.Result.Attributes)
}

// Select runs a select expression and gathers every page of matched
// items. Use a SelectPaginator to consume pages lazily instead.
func (c *Client) Select(ctx context.Context, domain, expression string) ([]Item, error) {
	var items []Item
	paginator := NewSelectPaginator(c, domain, expression)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
	}
	return items, nil
}

// errNoMorePages is returned by paginators driven past their last page.
var errNoMorePages = errors.New("simpledb: no more pages available")

// ListDomainsPaginator pages through the account's domain names.
type ListDomainsPaginator struct {
	client    *Client
	nextToken string
	firstPage bool
}

// NewListDomainsPaginator creates a paginator positioned before the
// first page.
func NewListDomainsPaginator(c *Client) *ListDomainsPaginator {
	return &ListDomainsPaginator{client: c, firstPage: true}
}

// HasMorePages reports whether another page is available.
func (p *ListDomainsPaginator) HasMorePages() bool {
	return p.firstPage || p.nextToken != ""
}

// NextPage fetches the next page of domain names.
func (p *ListDomainsPaginator) NextPage(ctx context.Context) ([]string, error) {
	if !p.HasMorePages() {
		return nil, errNoMorePages
	}
	params := newParams("ListDomains")
	params.Set("MaxNumberOfDomains", "100")
	if p.nextToken != "" {
		params.Set("NextToken", p.nextToken)
	}
	var out listDomainsResponse
	if err := p.client.do(ctx, params, &out); err != nil {
		return nil, err
	}
	p.firstPage = false
	p.nextToken = out.Result.NextToken
	return out.Result.DomainNames, nil
}

// SelectPaginator pages through the results of a select expression.
// Restarting from the beginning means creating a new paginator, which
// re-issues every page request.
type SelectPaginator struct {
	client     *Client
	domain     string
	expression string
	nextToken  string
	firstPage  bool
}

// NewSelectPaginator creates a paginator positioned before the first
// page of expression's results. The domain is used to look up codecs
// when decoding; it must match the domain the expression selects from.
func NewSelectPaginator(c *Client, domain, expression string) *SelectPaginator {
	return &SelectPaginator{client: c, domain: domain, expression: expression, firstPage: true}
}

// HasMorePages reports whether another page is available.
func (p *SelectPaginator) HasMorePages() bool {
	return p.firstPage || p.nextToken != ""
}

// NextPage fetches the next page of items.
func (p *SelectPaginator) NextPage(ctx context.Context) ([]Item, error) {
	if !p.HasMorePages() {
		return nil, errNoMorePages
	}
	params := newParams("Select")
	params.Set("SelectExpression", p.expression)
	if p.nextToken != "" {
		params.Set("NextToken", p.nextToken)
	}
	var out selectResponse
	if err := p.client.do(ctx, params, &out); err != nil {
		return nil, err
	}
	p.firstPage = false
	p.nextToken = out.Result.NextToken

	items := make([]Item, 0, len(out.Result.Items))
	for _, it := range out.Result.Items {
		attrs, err := p.client.decodeAttributes(p.domain, it.Attributes)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Name: it.Name, Attributes: attrs})
	}
	return items, nil
}
