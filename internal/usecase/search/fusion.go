package search

import (
	"sort"

	"github.com/openlot/lotsearch/internal/domain/search/request"
	"github.com/openlot/lotsearch/internal/domain/search/result"
)

// fuse merges the two candidate lists (outer join on listing id) via weighted
// Reciprocal Rank Fusion:
//
//	hybrid = vw/(k + vector_rank) + kw/(k + keyword_rank) + pbw*0.5
//
// where the rank terms contribute zero for a list the listing is absent from.
// The bonus term keys on vector-list membership: keyword-only listings never
// receive it, regardless of how well they match the filters.
//
// Output is ordered by hybrid score descending, ties broken by listing id
// ascending (deterministic, an implementation decision), truncated to
// matchCount. Two empty inputs fuse to an empty list.
func fuse(
	vector, keyword []result.Candidate,
	weights request.Weights,
	matchCount int,
) []result.Fused {
	type scored struct {
		id           string
		vectorScore  float64
		keywordScore float64
		hybrid       float64
	}

	k := float64(weights.RRFK())
	merged := make(map[string]*scored, len(vector)+len(keyword))

	for i := range vector {
		c := &vector[i]
		merged[c.ID()] = &scored{
			id:          c.ID(),
			vectorScore: c.Score(),
			hybrid:      weights.Vector()/(k+float64(c.Rank())) + weights.PresenceBonus()*0.5,
		}
	}

	for i := range keyword {
		c := &keyword[i]
		s, ok := merged[c.ID()]
		if !ok {
			s = &scored{id: c.ID()}
			merged[c.ID()] = s
		}
		s.keywordScore = c.Score()
		s.hybrid += weights.Keyword() / (k + float64(c.Rank()))
	}

	all := make([]*scored, 0, len(merged))
	for _, s := range merged {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].hybrid != all[j].hybrid {
			return all[i].hybrid > all[j].hybrid
		}
		return all[i].id < all[j].id
	})

	if matchCount >= 0 && len(all) > matchCount {
		all = all[:matchCount]
	}

	fused := make([]result.Fused, len(all))
	for i, s := range all {
		fused[i] = result.NewFused(s.id, s.vectorScore, s.keywordScore, s.hybrid)
	}
	return fused
}
