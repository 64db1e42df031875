package retrieval

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/openlot/lotsearch/internal/catalog"
	"github.com/openlot/lotsearch/internal/domain"
	"github.com/openlot/lotsearch/internal/domain/listing"
	"github.com/openlot/lotsearch/internal/domain/search/filter"
)

func mustListing(t *testing.T, a listing.Attrs) listing.Listing {
	t.Helper()
	l, err := listing.New(a)
	if err != nil {
		t.Fatalf("listing.New: %v", err)
	}
	return l
}

func mustFilter(t *testing.T, p filter.Params) filter.FilterSet {
	t.Helper()
	fs, err := filter.New(p)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	return fs
}

func TestVectorRetrieve_MissingQueryEmbedding(t *testing.T) {
	snap := catalog.NewSnapshot(nil)
	r := NewVectorRetriever()

	_, err := r.Retrieve(context.Background(), snap, Query{Text: "toyota"}, filter.FilterSet{}, 10)
	if !errors.Is(err, domain.ErrMissingEmbedding) {
		t.Fatalf("expected ErrMissingEmbedding, got %v", err)
	}
}

func TestVectorRetrieve_RanksByCosineSimilarity(t *testing.T) {
	snap := catalog.NewSnapshot([]listing.Listing{
		mustListing(t, listing.Attrs{ID: "far", Embedding: []float32{0, 1}}),
		mustListing(t, listing.Attrs{ID: "near", Embedding: []float32{1, 0.1}}),
		mustListing(t, listing.Attrs{ID: "exact", Embedding: []float32{1, 0}}),
	})
	r := NewVectorRetriever()

	cands, err := r.Retrieve(context.Background(), snap, Query{Embedding: []float32{1, 0}}, filter.FilterSet{}, 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(cands))
	}

	wantOrder := []string{"exact", "near", "far"}
	for i, want := range wantOrder {
		if cands[i].ID() != want {
			t.Errorf("position %d: got %s, want %s", i, cands[i].ID(), want)
		}
		if cands[i].Rank() != i+1 {
			t.Errorf("position %d: rank %d, want %d", i, cands[i].Rank(), i+1)
		}
	}
	if math.Abs(cands[0].Score()-1.0) > 1e-9 {
		t.Errorf("exact match score = %f, want 1.0", cands[0].Score())
	}
}

func TestVectorRetrieve_SkipsListingsWithoutEmbedding(t *testing.T) {
	snap := catalog.NewSnapshot([]listing.Listing{
		mustListing(t, listing.Attrs{ID: "a", Embedding: []float32{1, 0}}),
		mustListing(t, listing.Attrs{ID: "no-vec"}),
		mustListing(t, listing.Attrs{ID: "wrong-dim", Embedding: []float32{1, 0, 0}}),
	})
	r := NewVectorRetriever()

	cands, err := r.Retrieve(context.Background(), snap, Query{Embedding: []float32{1, 0}}, filter.FilterSet{}, 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 1 || cands[0].ID() != "a" {
		t.Fatalf("expected only 'a', got %d candidates", len(cands))
	}
}

func TestVectorRetrieve_AppliesFilters(t *testing.T) {
	mk := func(s string) *string { return &s }
	snap := catalog.NewSnapshot([]listing.Listing{
		mustListing(t, listing.Attrs{ID: "a", Make: "Toyota", Embedding: []float32{1, 0}}),
		mustListing(t, listing.Attrs{ID: "b", Make: "Honda", Embedding: []float32{1, 0}}),
		mustListing(t, listing.Attrs{ID: "c", Make: "Toyota", Status: listing.StatusSold, Embedding: []float32{1, 0}}),
	})
	r := NewVectorRetriever()
	fs := mustFilter(t, filter.Params{Make: mk("toyota")})

	cands, err := r.Retrieve(context.Background(), snap, Query{Embedding: []float32{1, 0}}, fs, 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 1 || cands[0].ID() != "a" {
		t.Fatalf("expected only active Toyota 'a', got %d candidates", len(cands))
	}
}

func TestVectorRetrieve_Limit(t *testing.T) {
	snap := catalog.NewSnapshot([]listing.Listing{
		mustListing(t, listing.Attrs{ID: "a", Embedding: []float32{1, 0}}),
		mustListing(t, listing.Attrs{ID: "b", Embedding: []float32{0.9, 0.1}}),
		mustListing(t, listing.Attrs{ID: "c", Embedding: []float32{0.8, 0.2}}),
	})
	r := NewVectorRetriever()

	cands, err := r.Retrieve(context.Background(), snap, Query{Embedding: []float32{1, 0}}, filter.FilterSet{}, 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
}

func TestVectorRetrieve_CancelledContext(t *testing.T) {
	snap := catalog.NewSnapshot([]listing.Listing{
		mustListing(t, listing.Attrs{ID: "a", Embedding: []float32{1, 0}}),
	})
	r := NewVectorRetriever()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Retrieve(ctx, snap, Query{Embedding: []float32{1, 0}}, filter.FilterSet{}, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []float32
		want   float64
		wantOK bool
	}{
		{"identical", []float32{1, 2}, []float32{1, 2}, 1, true},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0, true},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1, true},
		{"dim mismatch", []float32{1, 0}, []float32{1}, 0, false},
		{"zero vector", []float32{1, 0}, []float32{0, 0}, 0, false},
		{"empty", nil, nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cosineSimilarity(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("similarity = %f, want %f", got, tt.want)
			}
		})
	}
}
