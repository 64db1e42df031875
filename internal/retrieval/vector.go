package retrieval

import (
	"context"
	"math"

	"github.com/openlot/lotsearch/internal/catalog"
	"github.com/openlot/lotsearch/internal/domain"
	"github.com/openlot/lotsearch/internal/domain/search/filter"
	"github.com/openlot/lotsearch/internal/domain/search/result"
)

// VectorRetriever ranks filtered listings by cosine similarity between the
// query embedding and each listing's embedding.
type VectorRetriever struct{}

var _ Retriever = (*VectorRetriever)(nil)

// NewVectorRetriever creates a vector retriever.
func NewVectorRetriever() *VectorRetriever {
	return &VectorRetriever{}
}

// Retrieve scores every filtered listing that carries an embedding of the
// query's dimensionality. Returns domain.ErrMissingEmbedding when the query
// has no embedding; the caller skips this path instead of failing.
func (r *VectorRetriever) Retrieve(
	ctx context.Context, snap *catalog.Snapshot,
	q Query, filters filter.FilterSet, limit int,
) ([]result.Candidate, error) {
	if len(q.Embedding) == 0 {
		return nil, domain.ErrMissingEmbedding
	}

	listings := snap.Listings()
	scored := make([]scoredID, 0, len(listings))
	for i := range listings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l := &listings[i]
		if !filters.Matches(l) {
			continue
		}
		sim, ok := cosineSimilarity(q.Embedding, l.Embedding())
		if !ok {
			continue
		}
		scored = append(scored, scoredID{id: l.ID(), score: sim})
	}

	return rankCandidates(scored, limit), nil
}

// cosineSimilarity returns the cosine of the angle between a and b.
// false for dimension mismatches and zero-norm vectors.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
