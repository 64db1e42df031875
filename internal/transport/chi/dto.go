package chi

import (
	"fmt"

	"github.com/openlot/lotsearch/internal/domain/listing"
	"github.com/openlot/lotsearch/internal/domain/search/filter"
	"github.com/openlot/lotsearch/internal/domain/search/request"
	"github.com/openlot/lotsearch/internal/domain/search/result"
)

// Error codes returned in the JSON error envelope.
const (
	codeBadRequest           = "bad_request"
	codeValidationFailed     = "validation_failed"
	codeInvalidFilterRange   = "invalid_filter_range"
	codeListingNotFound      = "listing_not_found"
	codeRetrieverUnavailable = "retriever_unavailable"
	codeEmbeddingProvider    = "embedding_provider_error"
	codeUnauthorized         = "unauthorized"
	codeInternal             = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type filterDTO struct {
	Make        *string  `json:"make,omitempty"`
	Model       *string  `json:"model,omitempty"`
	YearMin     *int     `json:"year_min,omitempty"`
	YearMax     *int     `json:"year_max,omitempty"`
	PriceMin    *float64 `json:"price_min,omitempty"`
	PriceMax    *float64 `json:"price_max,omitempty"`
	MileageMax  *int     `json:"mileage_max,omitempty"`
	VehicleType *string  `json:"vehicle_type,omitempty"`
}

type weightsDTO struct {
	VectorWeight        float64 `json:"vector_weight"`
	KeywordWeight       float64 `json:"keyword_weight"`
	PresenceBonusWeight float64 `json:"presence_bonus_weight"`
	RRFK                int     `json:"rrf_k"`
}

type searchRequestDTO struct {
	QueryText      string      `json:"query_text,omitempty"`
	QueryEmbedding []float32   `json:"query_embedding,omitempty"`
	Filters        *filterDTO  `json:"filters,omitempty"`
	Weights        *weightsDTO `json:"weights,omitempty"`
	MatchCount     int         `json:"match_count,omitempty"`
}

type searchResultItemDTO struct {
	ListingID        string  `json:"listing_id"`
	VectorSimilarity float64 `json:"vector_similarity"`
	KeywordRankScore float64 `json:"keyword_rank_score"`
	HybridScore      float64 `json:"hybrid_score"`
}

type searchResponseDTO struct {
	Results []searchResultItemDTO `json:"results"`
	Total   int                   `json:"total"`
}

type listingDTO struct {
	ID              string    `json:"id"`
	VIN             string    `json:"vin,omitempty"`
	Year            int       `json:"year,omitempty"`
	Make            string    `json:"make,omitempty"`
	Model           string    `json:"model,omitempty"`
	Trim            string    `json:"trim,omitempty"`
	VehicleType     string    `json:"vehicle_type,omitempty"`
	FuelType        string    `json:"fuel_type,omitempty"`
	Transmission    string    `json:"transmission,omitempty"`
	ExteriorColor   string    `json:"exterior_color,omitempty"`
	InteriorColor   string    `json:"interior_color,omitempty"`
	Mileage         int       `json:"mileage,omitempty"`
	Description     string    `json:"description,omitempty"`
	AskingPrice     *float64  `json:"asking_price,omitempty"`
	AuctionForecast *float64  `json:"auction_forecast,omitempty"`
	EstimatedPrice  *float64  `json:"estimated_price,omitempty"`
	PriceSource     string    `json:"price_source,omitempty"`
	PriceConfidence float64   `json:"price_confidence,omitempty"`
	EffectivePrice  *float64  `json:"effective_price,omitempty"`
	Status          string    `json:"status,omitempty"`
	Embedding       []float32 `json:"embedding,omitempty"`
}

type listingListResponseDTO struct {
	Items []listingDTO `json:"items"`
	Total int          `json:"total"`
}

// filtersFromDTO builds the domain filter set; min>max surfaces as
// domain.ErrInvalidFilterRange.
func filtersFromDTO(dto *filterDTO) (filter.FilterSet, error) {
	if dto == nil {
		return filter.FilterSet{}, nil
	}
	return filter.New(filter.Params{
		Make:        dto.Make,
		Model:       dto.Model,
		YearMin:     dto.YearMin,
		YearMax:     dto.YearMax,
		PriceMin:    dto.PriceMin,
		PriceMax:    dto.PriceMax,
		MileageMax:  dto.MileageMax,
		VehicleType: dto.VehicleType,
	})
}

// weightsFromDTO builds fusion weights; a nil DTO keeps the server defaults.
func weightsFromDTO(dto *weightsDTO, defaults request.Weights) (request.Weights, error) {
	if dto == nil {
		return defaults, nil
	}
	rrfK := dto.RRFK
	if rrfK == 0 {
		rrfK = request.DefaultRRFK
	}
	w, err := request.NewWeights(dto.VectorWeight, dto.KeywordWeight, dto.PresenceBonusWeight, rrfK)
	if err != nil {
		return request.Weights{}, fmt.Errorf("invalid weights: %w", err)
	}
	return w, nil
}

// listingFromDTO validates and builds a domain Listing.
func listingFromDTO(id string, dto listingDTO) (listing.Listing, error) {
	return listing.New(listing.Attrs{
		ID:              id,
		VIN:             dto.VIN,
		Year:            dto.Year,
		Make:            dto.Make,
		Model:           dto.Model,
		Trim:            dto.Trim,
		VehicleType:     dto.VehicleType,
		FuelType:        dto.FuelType,
		Transmission:    dto.Transmission,
		ExteriorColor:   dto.ExteriorColor,
		InteriorColor:   dto.InteriorColor,
		Mileage:         dto.Mileage,
		Description:     dto.Description,
		AskingPrice:     dto.AskingPrice,
		AuctionForecast: dto.AuctionForecast,
		EstimatedPrice:  dto.EstimatedPrice,
		PriceSource:     dto.PriceSource,
		PriceConfidence: dto.PriceConfidence,
		Status:          listing.Status(dto.Status),
		Embedding:       dto.Embedding,
	})
}

// listingToDTO converts a domain Listing for responses. The embedding is
// omitted unless includeEmbedding is set; the derived effective price is
// always included when present.
func listingToDTO(l *listing.Listing, includeEmbedding bool) listingDTO {
	dto := listingDTO{
		ID:              l.ID(),
		VIN:             l.VIN(),
		Year:            l.Year(),
		Make:            l.Make(),
		Model:           l.Model(),
		Trim:            l.Trim(),
		VehicleType:     l.VehicleType(),
		FuelType:        l.FuelType(),
		Transmission:    l.Transmission(),
		ExteriorColor:   l.ExteriorColor(),
		InteriorColor:   l.InteriorColor(),
		Mileage:         l.Mileage(),
		Description:     l.Description(),
		AskingPrice:     l.AskingPrice(),
		AuctionForecast: l.AuctionForecast(),
		EstimatedPrice:  l.EstimatedPrice(),
		PriceSource:     l.PriceSource(),
		PriceConfidence: l.PriceConfidence(),
		Status:          string(l.Status()),
	}
	if price, ok := l.EffectivePrice(); ok {
		dto.EffectivePrice = &price
	}
	if includeEmbedding {
		dto.Embedding = l.Embedding()
	}
	return dto
}

func fusedToDTO(f *result.Fused) searchResultItemDTO {
	return searchResultItemDTO{
		ListingID:        f.ID(),
		VectorSimilarity: f.VectorScore(),
		KeywordRankScore: f.KeywordScore(),
		HybridScore:      f.HybridScore(),
	}
}
