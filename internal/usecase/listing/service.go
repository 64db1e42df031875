// Package listing maintains the listing catalog: upserts from the ingestion
// feed, lookups, and removals.
package listing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domlisting "github.com/openlot/lotsearch/internal/domain/listing"
)

// Service handles listing catalog maintenance.
type Service struct {
	repo   Repository
	embed  Embedder
	logger *zap.Logger
}

// New creates a listing service. embed may be nil; listings are then stored
// exactly as supplied.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	return &Service{repo: repo, embed: embed, logger: logger}
}

// Upsert stores a listing. When the listing carries no embedding and has
// searchable text, one is requested from the embedding provider; provider
// failure is non-fatal and the listing is stored without a vector (the
// lexical path still covers it). Returns true if the listing was created.
func (s *Service) Upsert(ctx context.Context, l domlisting.Listing) (bool, error) {
	if len(l.Embedding()) == 0 && s.embed != nil {
		if text := l.SearchText(); text != "" {
			res, err := s.embed.Embed(ctx, text)
			if err != nil {
				s.logger.Warn("listing embedding failed, storing without vector",
					zap.String("listing_id", l.ID()), zap.Error(err))
			} else {
				l = l.WithEmbedding(res.Embedding)
			}
		}
	}

	created, err := s.repo.Upsert(ctx, &l)
	if err != nil {
		return false, fmt.Errorf("upsert listing %s: %w", l.ID(), err)
	}
	return created, nil
}

// Get returns a listing by id.
func (s *Service) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return domlisting.Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	return l, nil
}

// Delete removes a listing by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	return nil
}

// List returns all listings ordered by id.
func (s *Service) List(ctx context.Context) ([]domlisting.Listing, error) {
	listings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}
