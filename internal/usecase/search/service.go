package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openlot/lotsearch/internal/domain"
	"github.com/openlot/lotsearch/internal/domain/search/request"
	"github.com/openlot/lotsearch/internal/domain/search/result"
	"github.com/openlot/lotsearch/internal/metrics"
	"github.com/openlot/lotsearch/internal/retrieval"
)

// Default orchestration tunables.
const (
	// DefaultCandidateMultiplier sizes each retriever's candidate list at
	// matchCount * multiplier to give fusion headroom beyond the final cut.
	DefaultCandidateMultiplier = 3
	// DefaultRetrieverTimeout bounds each retrieval path. A timed-out path
	// degrades to an empty candidate list.
	DefaultRetrieverTimeout = 2 * time.Second
)

// Service orchestrates hybrid search: dual candidate retrieval under a
// shared filter set, followed by reciprocal-rank fusion.
type Service struct {
	source  CatalogSource
	vector  retrieval.Retriever
	lexical retrieval.Retriever
	embed   Embedder

	candidateMultiplier int
	retrieverTimeout    time.Duration
	logger              *zap.Logger
}

// New creates a search service. embed may be nil; text-only queries then
// rank on the lexical path alone unless the caller supplies an embedding.
func New(
	source CatalogSource,
	vector, lexical retrieval.Retriever,
	embed Embedder,
	logger *zap.Logger,
) *Service {
	return &Service{
		source:              source,
		vector:              vector,
		lexical:             lexical,
		embed:               embed,
		candidateMultiplier: DefaultCandidateMultiplier,
		retrieverTimeout:    DefaultRetrieverTimeout,
		logger:              logger,
	}
}

// WithCandidateMultiplier overrides the candidate headroom multiplier.
func (s *Service) WithCandidateMultiplier(n int) *Service {
	if n > 0 {
		s.candidateMultiplier = n
	}
	return s
}

// WithRetrieverTimeout overrides the per-path retrieval timeout.
func (s *Service) WithRetrieverTimeout(d time.Duration) *Service {
	if d > 0 {
		s.retrieverTimeout = d
	}
	return s
}

// Search runs both retrieval paths concurrently over one catalog snapshot
// and fuses their candidate lists.
//
// Degradation rules: a failed or timed-out path contributes an empty list
// and the request completes on the other path; only when every live path
// has failed does Search return domain.ErrRetrieverUnavailable. A request
// with neither text nor embedding returns an empty list, not an error.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Fused, error) {
	start := time.Now()

	q := retrieval.Query{Text: req.Query(), Embedding: req.Embedding()}

	// Resolve the query embedding when only text was supplied. Provider
	// failure degrades the vector path instead of failing the request.
	if len(q.Embedding) == 0 && strings.TrimSpace(q.Text) != "" && s.embed != nil {
		emb, err := s.embedQuery(ctx, q.Text)
		if err != nil {
			s.logger.Warn("query embedding failed, vector path degraded", zap.Error(err))
			metrics.SearchPathDegradedTotal.WithLabelValues("vector").Inc()
		} else {
			q.Embedding = emb
		}
	}

	if len(q.Embedding) == 0 && strings.TrimSpace(q.Text) == "" {
		s.logger.Debug("search request carries no query signal")
		metrics.SearchRequestsTotal.WithLabelValues("no_signal").Inc()
		return []result.Fused{}, nil
	}

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("load catalog snapshot: %w: %w", domain.ErrRetrieverUnavailable, err)
	}

	limit := req.MatchCount() * s.candidateMultiplier

	var (
		vecCands, lexCands []result.Candidate
		vecErr, lexErr     error
	)

	// The two paths share only the immutable snapshot, so they run
	// concurrently. Each goroutine absorbs its own failure; degradation is
	// decided after the join.
	g := new(errgroup.Group)
	g.Go(func() error {
		rctx, cancel := context.WithTimeout(ctx, s.retrieverTimeout)
		defer cancel()
		vecCands, vecErr = s.vector.Retrieve(rctx, snap, q, req.Filters(), limit)
		return nil
	})
	g.Go(func() error {
		rctx, cancel := context.WithTimeout(ctx, s.retrieverTimeout)
		defer cancel()
		lexCands, lexErr = s.lexical.Retrieve(rctx, snap, q, req.Filters(), limit)
		return nil
	})
	_ = g.Wait()

	vecSkipped := errors.Is(vecErr, domain.ErrMissingEmbedding)
	vecFailed := vecErr != nil && !vecSkipped
	lexFailed := lexErr != nil

	if vecFailed {
		s.logger.Warn("vector retrieval failed", zap.Error(vecErr))
		metrics.SearchPathDegradedTotal.WithLabelValues("vector").Inc()
		vecCands = nil
	}
	if lexFailed {
		s.logger.Warn("lexical retrieval failed", zap.Error(lexErr))
		metrics.SearchPathDegradedTotal.WithLabelValues("lexical").Inc()
		lexCands = nil
	}

	liveFailed := (vecSkipped || vecFailed) && lexFailed
	if liveFailed || (vecFailed && strings.TrimSpace(q.Text) == "") {
		metrics.SearchRequestsTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("all retrieval paths failed: %w", domain.ErrRetrieverUnavailable)
	}

	fused := fuse(vecCands, lexCands, req.Weights(), req.MatchCount())

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	s.logger.Debug("search completed",
		zap.Int("vector_candidates", len(vecCands)),
		zap.Int("lexical_candidates", len(lexCands)),
		zap.Int("results", len(fused)),
	)

	return fused, nil
}

func (s *Service) embedQuery(ctx context.Context, text string) ([]float32, error) {
	ectx, cancel := context.WithTimeout(ctx, s.retrieverTimeout)
	defer cancel()

	res, err := s.embed.Embed(ectx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return res.Embedding, nil
}
