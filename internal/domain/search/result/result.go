package result

// Candidate is one entry of a single retrieval path's bounded output.
// Rank is 1-based and strictly increasing by descending raw score.
type Candidate struct {
	id    string
	rank  int
	score float64
}

// NewCandidate creates a candidate entry.
func NewCandidate(id string, rank int, score float64) Candidate {
	return Candidate{id: id, rank: rank, score: score}
}

// ID returns the listing identifier.
func (c *Candidate) ID() string { return c.id }

// Rank returns the 1-based position within the retriever's output.
func (c *Candidate) Rank() int { return c.rank }

// Score returns the retriever's raw relevance score.
func (c *Candidate) Score() float64 { return c.score }

// Fused is a single hit after rank fusion. It is a pure function of the two
// candidate lists and the fusion weights, never persisted.
type Fused struct {
	id           string
	vectorScore  float64
	keywordScore float64
	hybridScore  float64
}

// NewFused creates a fused result.
func NewFused(id string, vectorScore, keywordScore, hybridScore float64) Fused {
	return Fused{id: id, vectorScore: vectorScore, keywordScore: keywordScore, hybridScore: hybridScore}
}

// ID returns the listing identifier.
func (f *Fused) ID() string { return f.id }

// VectorScore returns the raw vector similarity, zero when the listing was
// absent from the vector candidate list.
func (f *Fused) VectorScore() float64 { return f.vectorScore }

// KeywordScore returns the raw lexical relevance score, zero when the listing
// was absent from the lexical candidate list.
func (f *Fused) KeywordScore() float64 { return f.keywordScore }

// HybridScore returns the fused reciprocal-rank score.
func (f *Fused) HybridScore() float64 { return f.hybridScore }
