// Package sdb is a client for Amazon SimpleDB, a sparse, schema-less,
// eventually consistent key-attribute store.
//
// Items live in named domains and hold multi-valued string attributes.
// The package signs each call with AWS signature version 2, pages
// through truncated listings and selects, and splits bulk writes to
// honor the protocol's batch limits. Because the store compares
// attribute values only as strings, typed values go through codecs that
// give them a lexicographically sortable stored form.
//
// # Connecting
//
// A [Client] is built from a [Config]; only credentials are required:
//
//	client := sdb.New(sdb.Config{
//	    Credentials: credentials.NewStaticCredentialsProvider(id, secret, ""),
//	})
//	users := client.Domain("users")
//
// # Items and Attributes
//
// Writes are lists of [Attr] values; replace semantics are the default
// and the Add flag appends instead. Reads decode into an [Attributes]
// map:
//
//	err := users.Put(ctx, "mike", []sdb.Attr{
//	    {Name: "name", Value: "Mike"},
//	    {Name: "tag", Value: []string{"a", "b"}},
//	})
//	item, err := users.Get(ctx, "mike")
//
// A missing item is reported as [ErrNotFound] only by identity-keyed
// lookups like [Domain.Get]. [Client.GetAttributes] returns an empty set
// instead: the store offers no cross-replica existence guarantee, so an
// absent item and a not-yet-replicated one are indistinguishable.
//
// # Queries
//
// [Where], [Every], and [ItemName] build composable conditions that
// compile to the select dialect; [Domain.Query] compiles, runs, and
// caches a select:
//
//	q := users.Filter(sdb.Where("age__lt", 25).Or(sdb.Where("admin", true))).
//	    OrderBy("-age").
//	    Limit(10)
//	items, err := q.Items(ctx)
//
// # Codecs
//
// Numbers, booleans, and times only sort correctly when stored through
// [NumberCodec], [BoolCodec], or [TimeCodec]. Register codecs per
// attribute in a [CodecTable] and set it as the [Config] Encoder; the
// same table must be in force for writing, reading, and querying.
//
// # Errors
//
// Service failures surface as [*RemoteError] carrying the service's
// error code. The package adds:
//
//   - [ErrNotFound] - identity-keyed lookup matched nothing
//   - [ErrInvalidQuery] - condition or query built from bad arguments
//   - [ErrDecode] - stored value rejected by its codec
//   - [ErrMalformedResponse] - response document missing required structure
//
// Nothing is retried automatically; retry policy belongs to the caller.
package sdb
