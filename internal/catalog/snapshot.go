// Package catalog models the immutable per-request view of the listing
// catalog that both retrieval paths read from.
package catalog

import "github.com/openlot/lotsearch/internal/domain/listing"

// Snapshot is a read-only view of the catalog with precomputed lexical
// tokens and document frequencies. Both retrievers share one snapshot per
// request; there is no mutation after construction.
type Snapshot struct {
	listings []listing.Listing
	byID     map[string]int
	tokens   map[string][]string
	docFreq  map[string]int
}

// NewSnapshot builds a snapshot, tokenizing each listing's searchable text.
func NewSnapshot(listings []listing.Listing) *Snapshot {
	s := &Snapshot{
		listings: listings,
		byID:     make(map[string]int, len(listings)),
		tokens:   make(map[string][]string, len(listings)),
		docFreq:  make(map[string]int),
	}
	for i := range listings {
		l := &listings[i]
		s.byID[l.ID()] = i

		toks := Tokenize(l.SearchText())
		s.tokens[l.ID()] = toks

		seen := make(map[string]struct{}, len(toks))
		for _, t := range toks {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			s.docFreq[t]++
		}
	}
	return s
}

// Listings returns all listings in the snapshot.
func (s *Snapshot) Listings() []listing.Listing { return s.listings }

// Get returns the listing with the given id.
func (s *Snapshot) Get(id string) (*listing.Listing, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.listings[i], true
}

// Len returns the number of listings in the snapshot.
func (s *Snapshot) Len() int { return len(s.listings) }

// Tokens returns the precomputed lexical tokens of a listing.
func (s *Snapshot) Tokens(id string) []string { return s.tokens[id] }

// DocFreq returns the number of listings containing the term.
func (s *Snapshot) DocFreq(term string) int { return s.docFreq[term] }
