package retrieval

import (
	"context"
	"math"

	"github.com/openlot/lotsearch/internal/catalog"
	"github.com/openlot/lotsearch/internal/domain/search/filter"
	"github.com/openlot/lotsearch/internal/domain/search/result"
)

// LexicalRetriever ranks filtered listings by a TF-IDF relevance score of the
// query terms against each listing's precomputed tokens.
type LexicalRetriever struct{}

var _ Retriever = (*LexicalRetriever)(nil)

// NewLexicalRetriever creates a lexical retriever.
func NewLexicalRetriever() *LexicalRetriever {
	return &LexicalRetriever{}
}

// Retrieve scores filtered listings against the tokenized query text.
// An empty query contributes an empty candidate list, not an error:
// lexical scoring is optional.
func (r *LexicalRetriever) Retrieve(
	ctx context.Context, snap *catalog.Snapshot,
	q Query, filters filter.FilterSet, limit int,
) ([]result.Candidate, error) {
	terms := catalog.Tokenize(q.Text)
	if len(terms) == 0 {
		return nil, nil
	}

	// Deduplicate query terms and precompute their idf over the snapshot.
	idf := make(map[string]float64, len(terms))
	for _, t := range terms {
		if _, ok := idf[t]; ok {
			continue
		}
		idf[t] = inverseDocFreq(snap.DocFreq(t), snap.Len())
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
		score := scoreTokens(snap.Tokens(l.ID()), idf)
		if score <= 0 {
			continue
		}
		scored = append(scored, scoredID{id: l.ID(), score: score})
	}

	return rankCandidates(scored, limit), nil
}

// scoreTokens sums tf * idf over the query terms present in the document.
// Term frequency is normalized by document length so long descriptions do
// not dominate.
func scoreTokens(docTokens []string, idf map[string]float64) float64 {
	if len(docTokens) == 0 {
		return 0
	}
	tf := make(map[string]int, len(idf))
	for _, t := range docTokens {
		if _, wanted := idf[t]; wanted {
			tf[t]++
		}
	}
	var score float64
	docLen := float64(len(docTokens))
	for t, n := range tf {
		score += (float64(n) / docLen) * idf[t]
	}
	return score
}

// inverseDocFreq is the BM25-style smoothed idf. Terms absent from the
// corpus still get a positive value so unseen query terms cannot produce
// negative scores.
func inverseDocFreq(df, n int) float64 {
	return math.Log(1 + (float64(n)-float64(df)+0.5)/(float64(df)+0.5))
}
