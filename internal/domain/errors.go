package domain

import "errors"

var (
	// ErrListingNotFound signals a missing listing.
	ErrListingNotFound = errors.New("listing not found")
	// ErrInvalidListing signals a listing that fails validation.
	ErrInvalidListing = errors.New("invalid listing")
	// ErrInvalidFilterRange signals a filter with min > max.
	ErrInvalidFilterRange = errors.New("invalid filter range")
	// ErrMissingEmbedding signals a vector search without a query embedding.
	ErrMissingEmbedding = errors.New("missing query embedding")
	// ErrRetrieverUnavailable signals that no retrieval path could serve the request.
	ErrRetrieverUnavailable = errors.New("retriever unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
