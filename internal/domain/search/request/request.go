package request

import (
	"fmt"

	"github.com/openlot/lotsearch/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength    = 4096
	DefaultMatchCount = 20
	MaxMatchCount     = 100
)

// Weights are the fusion weights applied when merging the two candidate lists.
type Weights struct {
	vector        float64
	keyword       float64
	presenceBonus float64
	rrfK          int
}

// Default fusion weights.
const (
	DefaultVectorWeight        = 0.4
	DefaultKeywordWeight       = 0.3
	DefaultPresenceBonusWeight = 0.3
	DefaultRRFK                = 60
)

// DefaultWeights returns the documented default fusion weights.
func DefaultWeights() Weights {
	return Weights{
		vector:        DefaultVectorWeight,
		keyword:       DefaultKeywordWeight,
		presenceBonus: DefaultPresenceBonusWeight,
		rrfK:          DefaultRRFK,
	}
}

// NewWeights validates and creates fusion weights.
func NewWeights(vector, keyword, presenceBonus float64, rrfK int) (Weights, error) {
	if vector < 0 || keyword < 0 || presenceBonus < 0 {
		return Weights{}, fmt.Errorf("fusion weights must not be negative")
	}
	if rrfK < 1 {
		return Weights{}, fmt.Errorf("rrf_k must be at least 1, got %d", rrfK)
	}
	return Weights{vector: vector, keyword: keyword, presenceBonus: presenceBonus, rrfK: rrfK}, nil
}

// Vector returns the weight of the vector path's reciprocal rank.
func (w Weights) Vector() float64 { return w.vector }

// Keyword returns the weight of the lexical path's reciprocal rank.
func (w Weights) Keyword() float64 { return w.keyword }

// PresenceBonus returns the weight of the vector-presence bonus.
func (w Weights) PresenceBonus() float64 { return w.presenceBonus }

// RRFK returns the reciprocal rank fusion smoothing constant.
func (w Weights) RRFK() int { return w.rrfK }

// Request is a validated search request.
type Request struct {
	query      string
	embedding  []float32
	filters    filter.FilterSet
	weights    Weights
	matchCount int
}

// New validates and normalizes search parameters.
// Query text and embedding are both optional; supplying neither yields an
// empty result set downstream, not an error. matchCount defaults to 20 and is
// capped at 100. Zero-valued weights fall back to the documented defaults.
func New(
	query string,
	embedding []float32,
	filters filter.FilterSet,
	weights Weights,
	matchCount int,
) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	if matchCount <= 0 {
		matchCount = DefaultMatchCount
	}
	if matchCount > MaxMatchCount {
		matchCount = MaxMatchCount
	}
	return Request{
		query:      query,
		embedding:  embedding,
		filters:    filters,
		weights:    weights,
		matchCount: matchCount,
	}, nil
}

// Query returns the free-text query, possibly empty.
func (r *Request) Query() string { return r.query }

// Embedding returns the precomputed query embedding, nil when absent.
func (r *Request) Embedding() []float32 { return r.embedding }

// Filters returns the attribute filter set.
func (r *Request) Filters() filter.FilterSet { return r.filters }

// Weights returns the fusion weights.
func (r *Request) Weights() Weights { return r.weights }

// MatchCount returns the maximum number of fused results to return.
func (r *Request) MatchCount() int { return r.matchCount }
