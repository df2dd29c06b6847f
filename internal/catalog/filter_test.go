package catalog

import (
	"fmt"
	"testing"
)

func TestFilter_MayContain(t *testing.T) {
	ids := []string{"ring-aurora", "necklace-pearl", "earring-stud"}
	filter := NewFilter(ids)

	// Inserted ids always test positive.
	for _, id := range ids {
		if !filter.MayContain(id) {
			t.Errorf("MayContain(%q) = false for an inserted id", id)
		}
	}

	// Unknown ids are almost always definite misses; allow a generous
	// margin for false positives.
	misses := 0
	for i := 0; i < 1000; i++ {
		if !filter.MayContain(fmt.Sprintf("unknown-product-%d", i)) {
			misses++
		}
	}
	if misses < 990 {
		t.Errorf("only %d/1000 unknown ids were misses; filter is too permissive", misses)
	}
}

func TestFilter_EmptyCatalog(t *testing.T) {
	filter := NewFilter(nil)
	if filter.MayContain("anything") {
		t.Error("empty filter reported a possible member")
	}
}
