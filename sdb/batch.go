package sdb

import (
	"context"
	"fmt"
)

// batchMaxItems is the protocol's per-request item cap for
// BatchPutAttributes.
const batchMaxItems = 25

// BatchItem is one item's writes within a batch put.
type BatchItem struct {
	Name  string
	Attrs []Attr
}

// BatchPutAttributes writes many items in bulk. Items are split into
// chunks of at most 25 preserving order, with one request per chunk. A
// chunk succeeds or fails as a whole; the first failing chunk stops the
// call, leaving items from later chunks unwritten. Nothing is retried.
func (c *Client) BatchPutAttributes(ctx context.Context, domain string, items []BatchItem) error {
	for _, chunk := range chunkItems(items, batchMaxItems) {
		if err := c.batchPutChunk(ctx, domain, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) batchPutChunk(ctx context.Context, domain string, items []BatchItem) error {
	params := newParams("BatchPutAttributes")
	params.Set("DomainName", domain)
	for i, item := range items {
		params.Set(fmt.Sprintf("Item.%d.ItemName", i), item.Name)
		if err := c.addPutAttrs(params, domain, fmt.Sprintf("Item.%d.", i), item.Attrs); err != nil {
			return err
		}
	}
	var out batchPutAttributesResponse
	return c.do(ctx, params, &out)
}

// chunkItems splits items into runs of at most size, preserving order.
func chunkItems(items []BatchItem, size int) [][]BatchItem {
	var chunks [][]BatchItem
	for start := 0; start < len(items); start += size {
		chunks = append(chunks, items[start:min(start+size, len(items))])
	}
	return chunks
}
