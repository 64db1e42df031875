package listing

import (
	"context"

	"github.com/openlot/lotsearch/internal/domain"
	domlisting "github.com/openlot/lotsearch/internal/domain/listing"
)

// Repository defines the storage contract for listings.
type Repository interface {
	Upsert(ctx context.Context, l *domlisting.Listing) (bool, error)
	Get(ctx context.Context, id string) (domlisting.Listing, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domlisting.Listing, error)
}

// Embedder vectorizes listing text when ingestion supplied no embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
