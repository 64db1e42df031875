// Package filter holds the attribute filter applied identically on every
// retrieval path, so that fused candidates never need re-filtering.
package filter

import (
	"fmt"
	"strings"

	"github.com/openlot/lotsearch/internal/domain"
	"github.com/openlot/lotsearch/internal/domain/listing"
)

// Params carries the optional filter bounds. A nil field means "unconstrained".
type Params struct {
	Make        *string
	Model       *string
	YearMin     *int
	YearMax     *int
	PriceMin    *float64
	PriceMax    *float64
	MileageMax  *int
	VehicleType *string
}

// FilterSet is an immutable conjunction of optional listing predicates.
type FilterSet struct {
	p Params
}

// New validates and creates a FilterSet.
// Inverted ranges (min > max) are rejected, never silently corrected.
func New(p Params) (FilterSet, error) {
	if p.YearMin != nil && p.YearMax != nil && *p.YearMin > *p.YearMax {
		return FilterSet{}, fmt.Errorf("%w: year min %d > max %d",
			domain.ErrInvalidFilterRange, *p.YearMin, *p.YearMax)
	}
	if p.PriceMin != nil && p.PriceMax != nil && *p.PriceMin > *p.PriceMax {
		return FilterSet{}, fmt.Errorf("%w: price min %g > max %g",
			domain.ErrInvalidFilterRange, *p.PriceMin, *p.PriceMax)
	}
	if p.MileageMax != nil && *p.MileageMax < 0 {
		return FilterSet{}, fmt.Errorf("%w: mileage max %d is negative",
			domain.ErrInvalidFilterRange, *p.MileageMax)
	}
	return FilterSet{p: p}, nil
}

// IsEmpty reports whether no bounds are set.
func (f FilterSet) IsEmpty() bool {
	return f.p == Params{}
}

// Matches reports whether the listing satisfies every present bound.
// Only active listings ever match. String fields compare case-insensitively;
// numeric ranges are inclusive. The price bounds test the effective price,
// so a listing with no price source fails any price bound.
func (f FilterSet) Matches(l *listing.Listing) bool {
	if l.Status() != listing.StatusActive {
		return false
	}
	if f.p.Make != nil && !strings.EqualFold(l.Make(), *f.p.Make) {
		return false
	}
	if f.p.Model != nil && !strings.EqualFold(l.Model(), *f.p.Model) {
		return false
	}
	if f.p.VehicleType != nil && !strings.EqualFold(l.VehicleType(), *f.p.VehicleType) {
		return false
	}
	if f.p.YearMin != nil && l.Year() < *f.p.YearMin {
		return false
	}
	if f.p.YearMax != nil && l.Year() > *f.p.YearMax {
		return false
	}
	if f.p.MileageMax != nil && l.Mileage() > *f.p.MileageMax {
		return false
	}
	if f.p.PriceMin != nil || f.p.PriceMax != nil {
		price, ok := l.EffectivePrice()
		if !ok {
			return false
		}
		if f.p.PriceMin != nil && price < *f.p.PriceMin {
			return false
		}
		if f.p.PriceMax != nil && price > *f.p.PriceMax {
			return false
		}
	}
	return true
}
