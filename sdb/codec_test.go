package sdb_test

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jacentio/simpledb/sdb"
)

// --- Interface Compliance ---

func TestCodecCompliance(t *testing.T) {
	var _ sdb.Codec = sdb.NumberCodec{}
	var _ sdb.Codec = sdb.BoolCodec{}
	var _ sdb.Codec = sdb.TimeCodec{}
	var _ sdb.Encoder = sdb.NewCodecTable()
}

// --- NumberCodec Tests ---

func TestNumberCodec_Encode(t *testing.T) {
	codec := sdb.NumberCodec{Padding: 6, Offset: 10000}
	tests := []struct {
		value    any
		expected string
	}{
		{-42, "009958"},
		{10, "010010"},
		{0, "010000"},
		{-9999, "000001"},
		{25, "010025"},
		{int64(25), "010025"},
		{uint8(25), "010025"},
		{float64(25), "010025"},
	}

	for _, tt := range tests {
		result, err := codec.Encode(tt.value)
		if err != nil {
			t.Errorf("Encode(%v) returned error: %v", tt.value, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("Encode(%v) = %q, want %q", tt.value, result, tt.expected)
		}
	}
}

func TestNumberCodec_EncodePrecision(t *testing.T) {
	codec := sdb.NumberCodec{Padding: 6, Offset: 100000, Precision: 2}
	tests := []struct {
		value    any
		expected string
	}{
		{-42.5, "099957.50"},
		{0, "100000.00"},
		{1.5, "100001.50"},
	}

	for _, tt := range tests {
		result, err := codec.Encode(tt.value)
		if err != nil {
			t.Errorf("Encode(%v) returned error: %v", tt.value, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("Encode(%v) = %q, want %q", tt.value, result, tt.expected)
		}
	}
}

func TestNumberCodec_PrecisionWithoutPadding(t *testing.T) {
	// Zero padding disables the width math; only precision applies.
	codec := sdb.NumberCodec{Precision: 2}
	result, err := codec.Encode(1.5)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if result != "1.50" {
		t.Errorf("Encode(1.5) = %q, want %q", result, "1.50")
	}
}

func TestNumberCodec_RoundTrip(t *testing.T) {
	codec := sdb.NumberCodec{Padding: 6, Offset: 10000}
	encoded, err := codec.Encode(-42)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	decoded, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if decoded != int64(-42) {
		t.Errorf("Decode(Encode(-42)) = %v (%T), want -42 (int64)", decoded, decoded)
	}
}

func TestNumberCodec_RoundTripPrecision(t *testing.T) {
	codec := sdb.NumberCodec{Padding: 6, Offset: 100000, Precision: 2}
	encoded, err := codec.Encode(-42.5)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	decoded, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if decoded != -42.5 {
		t.Errorf("Decode(Encode(-42.5)) = %v, want -42.5", decoded)
	}
}

func TestNumberCodec_OrderPreserving(t *testing.T) {
	// String order of encoded values must match numeric order for every
	// in-range value.
	codec := sdb.NumberCodec{Padding: 6, Offset: 10000}
	values := []int{-9999, -5000, -42, -1, 0, 1, 7, 500, 9999, 88888}

	encoded := make([]string, len(values))
	for i, v := range values {
		s, err := codec.Encode(v)
		if err != nil {
			t.Fatalf("Encode(%d) returned error: %v", v, err)
		}
		encoded[i] = s
	}
	if !sort.StringsAreSorted(encoded) {
		t.Errorf("encoded values out of order: %q", encoded)
	}
}

func TestNumberCodec_OutOfRangeStillEncodes(t *testing.T) {
	// The codec never rejects a value; out of range input just loses its
	// ordering guarantee.
	codec := sdb.NumberCodec{Padding: 6, Offset: 10000}
	result, err := codec.Encode(-20000)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if result != "-10000" {
		t.Errorf("Encode(-20000) = %q, want %q", result, "-10000")
	}
}

func TestNumberCodec_EncodeRejectsNonNumbers(t *testing.T) {
	codec := sdb.NumberCodec{Padding: 6}
	if _, err := codec.Encode("42"); err == nil {
		t.Error("expected error encoding a string")
	}
	if _, err := codec.Encode(true); err == nil {
		t.Error("expected error encoding a bool")
	}
}

func TestNumberCodec_DecodeError(t *testing.T) {
	codec := sdb.NumberCodec{Padding: 6, Offset: 10000}
	_, err := codec.Decode("not-a-number")
	if !errors.Is(err, sdb.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

// --- BoolCodec Tests ---

func TestBoolCodec(t *testing.T) {
	codec := sdb.BoolCodec{}

	encoded, err := codec.Encode(true)
	if err != nil || encoded != "1" {
		t.Errorf("Encode(true) = %q, %v, want \"1\"", encoded, err)
	}
	encoded, err = codec.Encode(false)
	if err != nil || encoded != "0" {
		t.Errorf("Encode(false) = %q, %v, want \"0\"", encoded, err)
	}

	decoded, err := codec.Decode("1")
	if err != nil || decoded != true {
		t.Errorf("Decode(\"1\") = %v, %v, want true", decoded, err)
	}
	decoded, err = codec.Decode("0")
	if err != nil || decoded != false {
		t.Errorf("Decode(\"0\") = %v, %v, want false", decoded, err)
	}
}

func TestBoolCodec_DecodeRejectsOtherInput(t *testing.T) {
	codec := sdb.BoolCodec{}
	for _, stored := range []string{"2", "true", "yes", ""} {
		_, err := codec.Decode(stored)
		if !errors.Is(err, sdb.ErrDecode) {
			t.Errorf("Decode(%q): expected ErrDecode, got %v", stored, err)
		}
	}
}

func TestBoolCodec_EncodeRejectsNonBool(t *testing.T) {
	codec := sdb.BoolCodec{}
	if _, err := codec.Encode(1); err == nil {
		t.Error("expected error encoding an int")
	}
}

// --- TimeCodec Tests ---

func TestTimeCodec_DefaultLayout(t *testing.T) {
	codec := sdb.TimeCodec{}
	moment := time.Date(2009, 4, 15, 12, 30, 45, 0, time.UTC)

	encoded, err := codec.Encode(moment)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if encoded != "2009-04-15T12:30:45" {
		t.Errorf("Encode = %q, want %q", encoded, "2009-04-15T12:30:45")
	}

	decoded, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if !decoded.(time.Time).Equal(moment) {
		t.Errorf("Decode(Encode(%v)) = %v", moment, decoded)
	}
}

func TestTimeCodec_CustomLayout(t *testing.T) {
	codec := sdb.TimeCodec{Layout: "20060102"}
	moment := time.Date(2009, 4, 15, 0, 0, 0, 0, time.UTC)

	encoded, err := codec.Encode(moment)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if encoded != "20090415" {
		t.Errorf("Encode = %q, want %q", encoded, "20090415")
	}
}

func TestTimeCodec_OrderPreserving(t *testing.T) {
	codec := sdb.TimeCodec{}
	moments := []time.Time{
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2009, 4, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2009, 4, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	encoded := make([]string, len(moments))
	for i, m := range moments {
		s, err := codec.Encode(m)
		if err != nil {
			t.Fatalf("Encode(%v) returned error: %v", m, err)
		}
		encoded[i] = s
	}
	if !sort.StringsAreSorted(encoded) {
		t.Errorf("encoded times out of order: %q", encoded)
	}
}

func TestTimeCodec_DecodeError(t *testing.T) {
	codec := sdb.TimeCodec{}
	_, err := codec.Decode("15/04/2009")
	if !errors.Is(err, sdb.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestTimeCodec_EncodeRejectsNonTime(t *testing.T) {
	codec := sdb.TimeCodec{}
	if _, err := codec.Encode("2009-04-15T12:00:00"); err == nil {
		t.Error("expected error encoding a string")
	}
}

// --- CodecTable Tests ---

func TestCodecTable_RoutesByDomainAndAttribute(t *testing.T) {
	table := sdb.NewCodecTable()
	table.Register("users", "age", sdb.NumberCodec{Padding: 6, Offset: 10000})
	table.Register("users", "admin", sdb.BoolCodec{})

	encoded, err := table.Encode("users", "age", 25)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if encoded != "010025" {
		t.Errorf("Encode(users.age, 25) = %q, want %q", encoded, "010025")
	}

	decoded, err := table.Decode("users", "admin", "1")
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if decoded != true {
		t.Errorf("Decode(users.admin, \"1\") = %v, want true", decoded)
	}
}

func TestCodecTable_UnregisteredPassesThrough(t *testing.T) {
	table := sdb.NewCodecTable()

	encoded, err := table.Encode("users", "name", "mike")
	if err != nil || encoded != "mike" {
		t.Errorf("Encode = %q, %v, want pass-through \"mike\"", encoded, err)
	}
	encoded, err = table.Encode("users", "visits", 7)
	if err != nil || encoded != "7" {
		t.Errorf("Encode = %q, %v, want stringified \"7\"", encoded, err)
	}

	decoded, err := table.Decode("users", "name", "mike")
	if err != nil || decoded != "mike" {
		t.Errorf("Decode = %v, %v, want raw \"mike\"", decoded, err)
	}
}

func TestCodecTable_SameAttributeDifferentDomain(t *testing.T) {
	table := sdb.NewCodecTable()
	table.Register("users", "age", sdb.NumberCodec{Padding: 6, Offset: 10000})

	// The registration must not leak to other domains.
	encoded, err := table.Encode("pets", "age", 3)
	if err != nil || encoded != "3" {
		t.Errorf("Encode(pets.age, 3) = %q, %v, want pass-through \"3\"", encoded, err)
	}
}

func TestCodecTable_Lookup(t *testing.T) {
	table := sdb.NewCodecTable()
	codec := sdb.BoolCodec{}
	table.Register("users", "admin", codec)

	if got := table.Lookup("users", "admin"); got != codec {
		t.Errorf("Lookup = %v, want registered codec", got)
	}
	if got := table.Lookup("users", "name"); got != nil {
		t.Errorf("Lookup for unregistered attribute = %v, want nil", got)
	}
}

func TestCodecTable_DecodeErrorNamesAttribute(t *testing.T) {
	table := sdb.NewCodecTable()
	table.Register("users", "age", sdb.NumberCodec{Padding: 6, Offset: 10000})

	_, err := table.Decode("users", "age", "garbage")
	if !errors.Is(err, sdb.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if want := "users.age"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not name %s", err, want)
	}
}
