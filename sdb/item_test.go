package sdb_test

import (
	"testing"

	"github.com/jacentio/simpledb/sdb"
)

func TestAttributes_Get(t *testing.T) {
	attrs := sdb.Attributes{"tag": {"a", "b"}}
	if got := attrs.Get("tag"); got != "a" {
		t.Errorf("Get(tag) = %v, want first value a", got)
	}
	if got := attrs.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
}

func TestAttributes_AddAndSet(t *testing.T) {
	attrs := sdb.Attributes{}
	attrs.Add("tag", "a")
	attrs.Add("tag", "b", "c")
	if got := attrs["tag"]; len(got) != 3 {
		t.Errorf("after Add, tag = %v", got)
	}

	attrs.Set("tag", "only")
	if got := attrs["tag"]; len(got) != 1 || got[0] != "only" {
		t.Errorf("after Set, tag = %v", got)
	}
}

func TestAttributes_AttrsDeterministic(t *testing.T) {
	attrs := sdb.Attributes{
		"zeta": {"z"},
		"alfa": {"1", "2"},
	}
	flat := attrs.Attrs()
	if len(flat) != 3 {
		t.Fatalf("Attrs() = %d entries, want 3", len(flat))
	}
	want := []sdb.Attr{
		{Name: "alfa", Value: "1"},
		{Name: "alfa", Value: "2"},
		{Name: "zeta", Value: "z"},
	}
	for i, attr := range flat {
		if attr != want[i] {
			t.Errorf("Attrs()[%d] = %+v, want %+v", i, attr, want[i])
		}
	}
	for _, attr := range flat {
		if attr.Add {
			t.Errorf("Attrs() produced an Add write for %s", attr.Name)
		}
	}
}
