package listing

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/openlot/lotsearch/internal/domain"
	domlisting "github.com/openlot/lotsearch/internal/domain/listing"
)

// --- Mocks ---

type mockRepo struct {
	stored     *domlisting.Listing
	created    bool
	upsertErr  error
	getListing domlisting.Listing
	getErr     error
	deleteErr  error
}

func (m *mockRepo) Upsert(_ context.Context, l *domlisting.Listing) (bool, error) {
	if m.upsertErr != nil {
		return false, m.upsertErr
	}
	m.stored = l
	return m.created, nil
}

func (m *mockRepo) Get(_ context.Context, _ string) (domlisting.Listing, error) {
	return m.getListing, m.getErr
}

func (m *mockRepo) Delete(_ context.Context, _ string) error { return m.deleteErr }

func (m *mockRepo) List(_ context.Context) ([]domlisting.Listing, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return []domlisting.Listing{m.getListing}, nil
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func mustListing(t *testing.T, a domlisting.Attrs) domlisting.Listing {
	t.Helper()
	l, err := domlisting.New(a)
	if err != nil {
		t.Fatalf("listing.New: %v", err)
	}
	return l
}

// --- Tests ---

func TestUpsert_EmbedsSearchText(t *testing.T) {
	repo := &mockRepo{created: true}
	emb := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(repo, emb, zap.NewNop())

	l := mustListing(t, domlisting.Attrs{ID: "lot-1", Make: "Toyota"})
	created, err := svc.Upsert(context.Background(), l)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Error("expected created")
	}
	if !emb.called {
		t.Error("expected the embedder to run for a listing without a vector")
	}
	if len(repo.stored.Embedding()) != 2 {
		t.Errorf("stored embedding len = %d, want 2", len(repo.stored.Embedding()))
	}
}

func TestUpsert_KeepsSuppliedEmbedding(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{vec: []float32{9, 9}}
	svc := New(repo, emb, zap.NewNop())

	l := mustListing(t, domlisting.Attrs{ID: "lot-1", Embedding: []float32{0.5}})
	if _, err := svc.Upsert(context.Background(), l); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if emb.called {
		t.Error("embedder must not run when an embedding was supplied")
	}
	if len(repo.stored.Embedding()) != 1 {
		t.Errorf("stored embedding len = %d, want 1", len(repo.stored.Embedding()))
	}
}

func TestUpsert_EmbedFailureIsNonFatal(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{err: errors.New("provider down")}
	svc := New(repo, emb, zap.NewNop())

	l := mustListing(t, domlisting.Attrs{ID: "lot-1", Make: "Toyota"})
	if _, err := svc.Upsert(context.Background(), l); err != nil {
		t.Fatalf("expected success without vector, got %v", err)
	}
	if len(repo.stored.Embedding()) != 0 {
		t.Error("stored listing unexpectedly has an embedding")
	}
}

func TestUpsert_NilEmbedder(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, nil, zap.NewNop())

	l := mustListing(t, domlisting.Attrs{ID: "lot-1", Make: "Toyota"})
	if _, err := svc.Upsert(context.Background(), l); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if repo.stored == nil {
		t.Fatal("listing not stored")
	}
}

func TestUpsert_NoSearchTextSkipsEmbedder(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, emb, zap.NewNop())

	l := mustListing(t, domlisting.Attrs{ID: "lot-1"})
	if _, err := svc.Upsert(context.Background(), l); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if emb.called {
		t.Error("embedder must not run for a listing with no searchable text")
	}
}

func TestGet_WrapsNotFound(t *testing.T) {
	repo := &mockRepo{getErr: domain.ErrListingNotFound}
	svc := New(repo, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestDelete_PropagatesError(t *testing.T) {
	repo := &mockRepo{deleteErr: errors.New("redis down")}
	svc := New(repo, nil, zap.NewNop())

	if err := svc.Delete(context.Background(), "lot-1"); err == nil {
		t.Fatal("expected error")
	}
}
