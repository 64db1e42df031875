// Package catalog persists listings as Redis hashes and materializes the
// read-only snapshot that search operates on.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/openlot/lotsearch/internal/catalog"
	"github.com/openlot/lotsearch/internal/domain"
	"github.com/openlot/lotsearch/internal/domain/listing"
)

var keyPrefix = domain.KeyPrefix + "listing:"

// store is the consumer interface for the listing catalog (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements listing persistence and usecase/search.CatalogSource.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert creates or updates a listing. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, l *listing.Listing) (bool, error) {
	key := listingKey(l.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.HSet(ctx, key, buildHashFields(l)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	return !exists, nil
}

// Get returns a listing by id.
func (r *Repo) Get(ctx context.Context, id string) (listing.Listing, error) {
	key := listingKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return listing.Listing{}, domain.ErrListingNotFound
	}
	return parseHashFields(id, fields), nil
}

// Delete removes a listing. Deleting a missing listing is not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := listingKey(id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// List returns all listings ordered by id.
func (r *Repo) List(ctx context.Context) ([]listing.Listing, error) {
	return r.loadAll(ctx)
}

// Snapshot loads the full catalog into an immutable snapshot for one search
// request. Implements usecase/search.CatalogSource.
func (r *Repo) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	listings, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.NewSnapshot(listings), nil
}

func (r *Repo) loadAll(ctx context.Context) ([]listing.Listing, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan listings: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}

	listings := make([]listing.Listing, 0, len(hashes))
	for i, fields := range hashes {
		// A key may vanish between SCAN and HGETALL.
		if len(fields) == 0 {
			continue
		}
		id := strings.TrimPrefix(keys[i], keyPrefix)
		listings = append(listings, parseHashFields(id, fields))
	}
	return listings, nil
}

func listingKey(id string) string {
	return keyPrefix + id
}
