// Package retrieval implements the two candidate retrieval strategies
// (vector similarity and lexical relevance) that feed rank fusion.
package retrieval

import (
	"context"
	"sort"

	"github.com/openlot/lotsearch/internal/catalog"
	"github.com/openlot/lotsearch/internal/domain/search/filter"
	"github.com/openlot/lotsearch/internal/domain/search/result"
)

// Query carries the per-request search signal. Either field may be absent.
type Query struct {
	Text      string
	Embedding []float32
}

// Retriever produces a bounded, ranked candidate list from the snapshot.
// Implementations must apply the filter set before scoring so that every
// candidate already satisfies the filters.
type Retriever interface {
	Retrieve(
		ctx context.Context, snap *catalog.Snapshot,
		q Query, filters filter.FilterSet, limit int,
	) ([]result.Candidate, error)
}

type scoredID struct {
	id    string
	score float64
}

// rankCandidates orders scored ids descending by score (ties broken by id
// ascending for determinism), truncates to limit, and assigns 1-based ranks.
func rankCandidates(scored []scoredID, limit int) []result.Candidate {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].id < scored[j].id
	})
	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	candidates := make([]result.Candidate, len(scored))
	for i, s := range scored {
		candidates[i] = result.NewCandidate(s.id, i+1, s.score)
	}
	return candidates
}
