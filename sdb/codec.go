package sdb

import (
	"fmt"
	"strconv"
	"time"
)

// Codec converts attribute values between their native form and the
// string form placed on the wire. The service compares and sorts values
// lexicographically, so codecs exist to give numbers and times a string
// form whose lexicographic order matches their natural order.
type Codec interface {
	// Encode renders value as its stored string.
	Encode(value any) (string, error)

	// Decode recovers the native value from its stored string.
	Decode(stored string) (any, error)
}

// NumberCodec stores numbers zero-padded and offset so that string order
// matches numeric order. Padding is the digit count before the decimal
// point. Offset shifts values into positive range and must exceed the
// magnitude of the most negative value ever stored. Precision is the
// number of decimal places kept.
//
// Values outside the range implied by Padding and Offset still encode,
// but their stored form no longer sorts correctly.
type NumberCodec struct {
	Padding   int
	Offset    int64
	Precision int
}

// Encode renders value with the configured padding, offset, and
// precision. Any integer or float type is accepted.
func (c NumberCodec) Encode(value any) (string, error) {
	f, err := toFloat(value)
	if err != nil {
		return "", err
	}
	width := c.Padding
	if c.Precision > 0 && c.Padding > 0 {
		// The decimal point and fraction digits consume width beyond the
		// integer padding.
		width += c.Precision + 1
	}
	return fmt.Sprintf("%0*.*f", width, c.Precision, f+float64(c.Offset)), nil
}

// Decode parses the stored string and removes the offset. Whole-number
// codecs yield int64; codecs with precision yield float64.
func (c NumberCodec) Decode(stored string) (any, error) {
	if c.Precision <= 0 {
		n, err := strconv.ParseInt(stored, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as number", ErrDecode, stored)
		}
		return n - c.Offset, nil
	}
	f, err := strconv.ParseFloat(stored, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q as number", ErrDecode, stored)
	}
	return f - float64(c.Offset), nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, fmt.Errorf("simpledb: cannot encode %T as number", value)
}

// BoolCodec stores booleans as "1" and "0".
type BoolCodec struct{}

// Encode renders value, which must be a bool.
func (BoolCodec) Encode(value any) (string, error) {
	b, ok := value.(bool)
	if !ok {
		return "", fmt.Errorf("simpledb: cannot encode %T as bool", value)
	}
	if b {
		return "1", nil
	}
	return "0", nil
}

// Decode accepts exactly "1" or "0".
func (BoolCodec) Decode(stored string) (any, error) {
	switch stored {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return nil, fmt.Errorf("%w: %q as bool", ErrDecode, stored)
}

// DefaultTimeLayout is the stored form TimeCodec uses when Layout is
// empty: second precision, no zone designator.
const DefaultTimeLayout = "2006-01-02T15:04:05"

// TimeCodec stores time.Time values as formatted strings. The default
// layout carries no zone, so store UTC throughout to keep lexicographic
// order chronological.
type TimeCodec struct {
	Layout string
}

func (c TimeCodec) layout() string {
	if c.Layout == "" {
		return DefaultTimeLayout
	}
	return c.Layout
}

// Encode renders value, which must be a time.Time.
func (c TimeCodec) Encode(value any) (string, error) {
	t, ok := value.(time.Time)
	if !ok {
		return "", fmt.Errorf("simpledb: cannot encode %T as time", value)
	}
	return t.Format(c.layout()), nil
}

// Decode parses the stored string with the configured layout.
func (c TimeCodec) Decode(stored string) (any, error) {
	t, err := time.Parse(c.layout(), stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %q as time", ErrDecode, stored)
	}
	return t, nil
}
