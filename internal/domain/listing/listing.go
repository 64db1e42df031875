package listing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openlot/lotsearch/internal/domain"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Status is the listing lifecycle state.
type Status string

// Lifecycle states.
const (
	StatusActive   Status = "active"
	StatusSold     Status = "sold"
	StatusReserved Status = "reserved"
	StatusInactive Status = "inactive"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusSold || s == StatusReserved || s == StatusInactive
}

// Attrs carries the raw listing attributes for construction and hydration.
type Attrs struct {
	ID            string
	VIN           string
	Year          int
	Make          string
	Model         string
	Trim          string
	VehicleType   string
	FuelType      string
	Transmission  string
	ExteriorColor string
	InteriorColor string
	Mileage       int
	Description   string

	AskingPrice     *float64
	AuctionForecast *float64
	EstimatedPrice  *float64
	PriceSource     string
	PriceConfidence float64

	Status    Status
	Embedding []float32
}

// Listing is a vehicle record (immutable value object).
// It is created by an external ingestion process and read-only here.
type Listing struct {
	attrs Attrs
}

// New validates and creates a Listing.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Status defaults to active.
func New(a Attrs) (Listing, error) {
	if a.ID == "" {
		return Listing{}, fmt.Errorf("%w: ID is required", domain.ErrInvalidListing)
	}
	if len(a.ID) > 256 {
		return Listing{}, fmt.Errorf("%w: ID too long (max 256)", domain.ErrInvalidListing)
	}
	if !idRegex.MatchString(a.ID) {
		return Listing{}, fmt.Errorf("%w: ID must be alphanumeric with underscores and hyphens",
			domain.ErrInvalidListing)
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	if !a.Status.IsValid() {
		return Listing{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidListing, a.Status)
	}
	if a.Year < 0 {
		return Listing{}, fmt.Errorf("%w: year must not be negative", domain.ErrInvalidListing)
	}
	if a.Mileage < 0 {
		return Listing{}, fmt.Errorf("%w: mileage must not be negative", domain.ErrInvalidListing)
	}
	for _, p := range []*float64{a.AskingPrice, a.AuctionForecast, a.EstimatedPrice} {
		if p != nil && *p < 0 {
			return Listing{}, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidListing)
		}
	}
	return Listing{attrs: a}, nil
}

// Reconstruct creates a Listing without validation (storage hydration).
func Reconstruct(a Attrs) Listing {
	return Listing{attrs: a}
}

// ID returns the listing identifier.
func (l *Listing) ID() string { return l.attrs.ID }

// VIN returns the vehicle identification number.
func (l *Listing) VIN() string { return l.attrs.VIN }

// Year returns the model year.
func (l *Listing) Year() int { return l.attrs.Year }

// Make returns the manufacturer name.
func (l *Listing) Make() string { return l.attrs.Make }

// Model returns the model name.
func (l *Listing) Model() string { return l.attrs.Model }

// Trim returns the trim level.
func (l *Listing) Trim() string { return l.attrs.Trim }

// VehicleType returns the body/vehicle type.
func (l *Listing) VehicleType() string { return l.attrs.VehicleType }

// FuelType returns the fuel type.
func (l *Listing) FuelType() string { return l.attrs.FuelType }

// Transmission returns the transmission type.
func (l *Listing) Transmission() string { return l.attrs.Transmission }

// ExteriorColor returns the exterior color.
func (l *Listing) ExteriorColor() string { return l.attrs.ExteriorColor }

// InteriorColor returns the interior color.
func (l *Listing) InteriorColor() string { return l.attrs.InteriorColor }

// Mileage returns the odometer reading.
func (l *Listing) Mileage() int { return l.attrs.Mileage }

// Description returns the free-text description.
func (l *Listing) Description() string { return l.attrs.Description }

// AskingPrice returns the seller's asking price, nil when absent.
func (l *Listing) AskingPrice() *float64 { return l.attrs.AskingPrice }

// AuctionForecast returns the forecast auction price, nil when absent.
func (l *Listing) AuctionForecast() *float64 { return l.attrs.AuctionForecast }

// EstimatedPrice returns the model-estimated price, nil when absent.
func (l *Listing) EstimatedPrice() *float64 { return l.attrs.EstimatedPrice }

// PriceSource returns the provenance label of the price data.
func (l *Listing) PriceSource() string { return l.attrs.PriceSource }

// PriceConfidence returns the confidence of the price estimate.
func (l *Listing) PriceConfidence() float64 { return l.attrs.PriceConfidence }

// Status returns the lifecycle state.
func (l *Listing) Status() Status { return l.attrs.Status }

// Embedding returns the dense embedding vector, nil when absent.
func (l *Listing) Embedding() []float32 { return l.attrs.Embedding }

// EffectivePrice resolves the single effective price from the priority chain
// asking_price > auction_forecast > estimated_price. The second return is
// false when no price source is present. Always derived, never stored.
func (l *Listing) EffectivePrice() (float64, bool) {
	switch {
	case l.attrs.AskingPrice != nil:
		return *l.attrs.AskingPrice, true
	case l.attrs.AuctionForecast != nil:
		return *l.attrs.AuctionForecast, true
	case l.attrs.EstimatedPrice != nil:
		return *l.attrs.EstimatedPrice, true
	default:
		return 0, false
	}
}

// SearchText joins the lexically searchable attributes into one string.
func (l *Listing) SearchText() string {
	parts := []string{
		l.attrs.Make, l.attrs.Model, l.attrs.Trim, l.attrs.VehicleType,
		l.attrs.FuelType, l.attrs.Transmission,
		l.attrs.ExteriorColor, l.attrs.InteriorColor,
		l.attrs.Description,
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// WithEmbedding returns a copy with the given vector set.
func (l *Listing) WithEmbedding(v []float32) Listing {
	a := l.attrs
	a.Embedding = v
	return Listing{attrs: a}
}
