package retrieval

import (
	"context"
	"testing"

	"github.com/openlot/lotsearch/internal/catalog"
	"github.com/openlot/lotsearch/internal/domain/listing"
	"github.com/openlot/lotsearch/internal/domain/search/filter"
)

func TestLexicalRetrieve_EmptyQueryText(t *testing.T) {
	snap := catalog.NewSnapshot([]listing.Listing{
		mustListing(t, listing.Attrs{ID: "a", Description: "clean sedan"}),
	})
	r := NewLexicalRetriever()

	for _, text := range []string{"", "   ", "!!!"} {
		cands, err := r.Retrieve(context.Background(), snap, Query{Text: text}, filter.FilterSet{}, 10)
		if err != nil {
			t.Fatalf("Retrieve(%q): %v", text, err)
		}
		if len(cands) != 0 {
			t.Errorf("Retrieve(%q) = %d candidates, want 0", text, len(cands))
		}
	}
}

func TestLexicalRetrieve_RanksByRelevance(t *testing.T) {
	snap := catalog.NewSnapshot([]listing.Listing{
		// Both mention "corolla"; the shorter document scores higher tf.
		mustListing(t, listing.Attrs{ID: "short", Description: "corolla"}),
		mustListing(t, listing.Attrs{ID: "long", Description: "corolla with many extra words in the listing text"}),
		mustListing(t, listing.Attrs{ID: "none", Description: "pickup truck"}),
	})
	r := NewLexicalRetriever()

	cands, err := r.Retrieve(context.Background(), snap, Query{Text: "corolla"}, filter.FilterSet{}, 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
	if cands[0].ID() != "short" || cands[1].ID() != "long" {
		t.Errorf("order = %s,%s, want short,long", cands[0].ID(), cands[1].ID())
	}
	if cands[0].Score() <= cands[1].Score() {
		t.Errorf("short doc score %f not above long doc score %f", cands[0].Score(), cands[1].Score())
	}
}

func TestLexicalRetrieve_RareTermOutweighsCommon(t *testing.T) {
	snap := catalog.NewSnapshot([]listing.Listing{
		mustListing(t, listing.Attrs{ID: "a", Description: "sedan roadster"}),
		mustListing(t, listing.Attrs{ID: "b", Description: "sedan hatchback"}),
		mustListing(t, listing.Attrs{ID: "c", Description: "sedan wagon"}),
	})
	r := NewLexicalRetriever()

	// "roadster" appears once in the corpus, "sedan" everywhere.
	cands, err := r.Retrieve(context.Background(), snap, Query{Text: "sedan roadster"}, filter.FilterSet{}, 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(cands))
	}
	if cands[0].ID() != "a" {
		t.Errorf("expected rare-term doc 'a' first, got %s", cands[0].ID())
	}
}

func TestLexicalRetrieve_QueryCaseInsensitive(t *testing.T) {
	snap := catalog.NewSnapshot([]listing.Listing{
		mustListing(t, listing.Attrs{ID: "a", Make: "Toyota"}),
	})
	r := NewLexicalRetriever()

	cands, err := r.Retrieve(context.Background(), snap, Query{Text: "TOYOTA"}, filter.FilterSet{}, 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
}

func TestLexicalRetrieve_AppliesFilters(t *testing.T) {
	yr := func(n int) *int { return &n }
	snap := catalog.NewSnapshot([]listing.Listing{
		mustListing(t, listing.Attrs{ID: "old", Year: 2010, Description: "corolla"}),
		mustListing(t, listing.Attrs{ID: "new", Year: 2022, Description: "corolla"}),
	})
	r := NewLexicalRetriever()
	fs := mustFilter(t, filter.Params{YearMin: yr(2020)})

	cands, err := r.Retrieve(context.Background(), snap, Query{Text: "corolla"}, fs, 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 1 || cands[0].ID() != "new" {
		t.Fatalf("expected only 'new', got %d candidates", len(cands))
	}
}

func TestLexicalRetrieve_NoMatchesIsEmptyNotError(t *testing.T) {
	snap := catalog.NewSnapshot([]listing.Listing{
		mustListing(t, listing.Attrs{ID: "a", Description: "pickup truck"}),
	})
	r := NewLexicalRetriever()

	cands, err := r.Retrieve(context.Background(), snap, Query{Text: "zeppelin"}, filter.FilterSet{}, 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 0 {
		t.Fatalf("expected 0 candidates, got %d", len(cands))
	}
}

func TestLexicalRetrieve_Limit(t *testing.T) {
	snap := catalog.NewSnapshot([]listing.Listing{
		mustListing(t, listing.Attrs{ID: "a", Description: "corolla"}),
		mustListing(t, listing.Attrs{ID: "b", Description: "corolla sedan"}),
		mustListing(t, listing.Attrs{ID: "c", Description: "corolla sedan clean"}),
	})
	r := NewLexicalRetriever()

	cands, err := r.Retrieve(context.Background(), snap, Query{Text: "corolla"}, filter.FilterSet{}, 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
}
