package sdb

import "fmt"

// Encoder picks the codec for an attribute, addressed by domain and
// attribute name. Attributes without a codec pass through as plain
// strings. The same Encoder must be in force when data is written and
// when it is read back or queried, or comparisons silently stop
// matching.
type Encoder interface {
	// Encode renders value as the stored string for attr in domain.
	Encode(domain, attr string, value any) (string, error)

	// Decode recovers the native value of attr in domain from its stored
	// string.
	Decode(domain, attr, stored string) (any, error)
}

// CodecTable is an Encoder backed by per-attribute registrations.
type CodecTable struct {
	codecs map[string]Codec
}

// NewCodecTable creates an empty table.
func NewCodecTable() *CodecTable {
	return &CodecTable{codecs: make(map[string]Codec)}
}

// Register binds codec to attr in domain, replacing any prior binding.
func (t *CodecTable) Register(domain, attr string, codec Codec) {
	t.codecs[codecKey(domain, attr)] = codec
}

// Lookup returns the codec bound to attr in domain, or nil.
func (t *CodecTable) Lookup(domain, attr string) Codec {
	return t.codecs[codecKey(domain, attr)]
}

func codecKey(domain, attr string) string {
	return domain + "." + attr
}

// Encode implements Encoder.
func (t *CodecTable) Encode(domain, attr string, value any) (string, error) {
	codec := t.Lookup(domain, attr)
	if codec == nil {
		return stringify(value), nil
	}
	s, err := codec.Encode(value)
	if err != nil {
		return "", fmt.Errorf("encode %s.%s: %w", domain, attr, err)
	}
	return s, nil
}

// Decode implements Encoder.
func (t *CodecTable) Decode(domain, attr, stored string) (any, error) {
	codec := t.Lookup(domain, attr)
	if codec == nil {
		return stored, nil
	}
	v, err := codec.Decode(stored)
	if err != nil {
		return nil, fmt.Errorf("decode %s.%s: %w", domain, attr, err)
	}
	return v, nil
}

// identityEncoder is the default: values store as their string form and
// decode as the raw stored string.
type identityEncoder struct{}

func (identityEncoder) Encode(domain, attr string, value any) (string, error) {
	return stringify(value), nil
}

func (identityEncoder) Decode(domain, attr, stored string) (any, error) {
	return stored, nil
}

// stringify renders a value the way it is written when no codec applies.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return fmt.Sprint(value)
}
