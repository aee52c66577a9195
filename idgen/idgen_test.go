package idgen

import (
	"strings"
	"testing"
)

func TestNew_UniqueAndSortable(t *testing.T) {
	// WHAT: Default UUIDv7 IDs are unique and lexically time-sortable.
	prev := ""
	seen := make(map[string]struct{})
	for range 100 {
		id := New()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
		if prev != "" && id < prev {
			// UUIDv7 embeds a millisecond timestamp; within one run order
			// may tie but must never go backwards.
			if id[:13] < prev[:13] {
				t.Fatalf("id %s sorts before earlier id %s", id, prev)
			}
		}
		prev = id
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("qry_", UUIDv7())
	id := gen()
	if !strings.HasPrefix(id, "qry_") {
		t.Errorf("got %q, want qry_ prefix", id)
	}
	if _, err := Parse(strings.TrimPrefix(id, "qry_")); err != nil {
		t.Errorf("suffix is not a UUID: %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse("nope"); err == nil {
		t.Error("Parse accepted a non-UUID")
	}
}
