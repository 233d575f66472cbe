package api

import (
	"testing"

	"github.com/esgscope/esgscope/internal/ledger"
	"github.com/esgscope/esgscope/pkg/esg"
)

func TestDocumentCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewDocumentCache(2)

	c.Put("a", &ledger.Entry{ID: "a"}, esg.NewDocument())
	c.Put("b", &ledger.Entry{ID: "b"}, esg.NewDocument())

	// Touch a so b becomes the oldest.
	if _, _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be cached")
	}
	c.Put("c", &ledger.Entry{ID: "c"}, esg.NewDocument())

	if _, _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive")
	}
	if _, _, ok := c.Get("c"); !ok {
		t.Error("expected c to be cached")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestDocumentCacheReplace(t *testing.T) {
	c := NewDocumentCache(0)

	c.Put("a", &ledger.Entry{ID: "a", Period: "2022"}, esg.NewDocument())
	c.Put("a", &ledger.Entry{ID: "a", Period: "2023"}, esg.NewDocument())

	entry, _, ok := c.Get("a")
	if !ok {
		t.Fatal("expected a to be cached")
	}
	if entry.Period != "2023" {
		t.Errorf("Period = %q, want 2023", entry.Period)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}
