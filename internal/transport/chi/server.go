package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openlot/lotsearch/internal/domain"
	"github.com/openlot/lotsearch/internal/domain/search/request"
	healthuc "github.com/openlot/lotsearch/internal/usecase/health"
	listinguc "github.com/openlot/lotsearch/internal/usecase/listing"
	searchuc "github.com/openlot/lotsearch/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API surface over the listing catalog and hybrid search.
type Server struct {
	listings      *listinguc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	weights       request.Weights
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. weights are the server-wide fusion
// defaults applied when a search request carries none.
func NewServer(
	listings *listinguc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	weights request.Weights,
	logger *zap.Logger,
) *Server {
	if weights == (request.Weights{}) {
		weights = request.DefaultWeights()
	}
	s := &Server{
		listings: listings,
		search:   search,
		health:   health,
		weights:  weights,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrListingNotFound, http.StatusNotFound, codeListingNotFound),
		sentinelHandler(domain.ErrInvalidListing, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidFilterRange, http.StatusBadRequest, codeInvalidFilterRange),
		sentinelHandler(domain.ErrRetrieverUnavailable, http.StatusServiceUnavailable, codeRetrieverUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.SearchListings)
		r.Get("/listings", s.ListListings)
		r.Put("/listings/{id}", s.UpsertListing)
		r.Get("/listings/{id}", s.GetListing)
		r.Delete("/listings/{id}", s.DeleteListing)
	})
}

// SearchListings handles POST /api/v1/search.
func (s *Server) SearchListings(w http.ResponseWriter, r *http.Request) {
	var dto searchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	filters, err := filtersFromDTO(dto.Filters)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	weights, err := weightsFromDTO(dto.Weights, s.weights)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	req, err := request.New(dto.QueryText, dto.QueryEmbedding, filters, weights, dto.MatchCount)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchResultItemDTO, len(results))
	for i := range results {
		items[i] = fusedToDTO(&results[i])
	}

	writeJSON(w, http.StatusOK, searchResponseDTO{
		Results: items,
		Total:   len(items),
	})
}

// UpsertListing handles PUT /api/v1/listings/{id}.
func (s *Server) UpsertListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto listingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	l, err := listingFromDTO(id, dto)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	created, err := s.listings.Upsert(r.Context(), l)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", "/api/v1/listings/"+id)
	}

	writeJSON(w, status, listingToDTO(&l, false))
}

// GetListing handles GET /api/v1/listings/{id}.
func (s *Server) GetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	l, err := s.listings.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	includeEmbedding := r.URL.Query().Get("include_embedding") == "true"
	writeJSON(w, http.StatusOK, listingToDTO(&l, includeEmbedding))
}

// DeleteListing handles DELETE /api/v1/listings/{id}.
func (s *Server) DeleteListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.listings.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListListings handles GET /api/v1/listings.
func (s *Server) ListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.listings.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]listingDTO, len(listings))
	for i := range listings {
		items[i] = listingToDTO(&listings[i], false)
	}

	writeJSON(w, http.StatusOK, listingListResponseDTO{
		Items: items,
		Total: len(items),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrListingNotFound,
		domain.ErrInvalidListing,
		domain.ErrInvalidFilterRange,
		domain.ErrRetrieverUnavailable,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}
