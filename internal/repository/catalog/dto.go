package catalog

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/openlot/lotsearch/internal/domain/listing"
)

// Hash field names for the listing record.
const (
	fieldVIN             = "vin"
	fieldYear            = "year"
	fieldMake            = "make"
	fieldModel           = "model"
	fieldTrim            = "trim"
	fieldVehicleType     = "vehicle_type"
	fieldFuelType        = "fuel_type"
	fieldTransmission    = "transmission"
	fieldExteriorColor   = "exterior_color"
	fieldInteriorColor   = "interior_color"
	fieldMileage         = "mileage"
	fieldDescription     = "description"
	fieldAskingPrice     = "asking_price"
	fieldAuctionForecast = "auction_forecast"
	fieldEstimatedPrice  = "estimated_price"
	fieldPriceSource     = "price_source"
	fieldPriceConfidence = "price_confidence"
	fieldStatus          = "status"
	fieldEmbedding       = "embedding"
)

// buildHashFields converts a domain Listing into a flat map for HSET.
// Absent price fields are omitted so that hydration keeps them nil.
func buildHashFields(l *listing.Listing) map[string]string {
	m := map[string]string{
		fieldVIN:             l.VIN(),
		fieldYear:            strconv.Itoa(l.Year()),
		fieldMake:            l.Make(),
		fieldModel:           l.Model(),
		fieldTrim:            l.Trim(),
		fieldVehicleType:     l.VehicleType(),
		fieldFuelType:        l.FuelType(),
		fieldTransmission:    l.Transmission(),
		fieldExteriorColor:   l.ExteriorColor(),
		fieldInteriorColor:   l.InteriorColor(),
		fieldMileage:         strconv.Itoa(l.Mileage()),
		fieldDescription:     l.Description(),
		fieldPriceSource:     l.PriceSource(),
		fieldPriceConfidence: strconv.FormatFloat(l.PriceConfidence(), 'f', -1, 64),
		fieldStatus:          string(l.Status()),
		fieldEmbedding:       vectorToBytes(l.Embedding()),
	}
	putOptFloat(m, fieldAskingPrice, l.AskingPrice())
	putOptFloat(m, fieldAuctionForecast, l.AuctionForecast())
	putOptFloat(m, fieldEstimatedPrice, l.EstimatedPrice())
	return m
}

// parseHashFields converts a flat hash map back into a domain Listing.
func parseHashFields(id string, m map[string]string) listing.Listing {
	return listing.Reconstruct(listing.Attrs{
		ID:              id,
		VIN:             m[fieldVIN],
		Year:            parseInt(m[fieldYear]),
		Make:            m[fieldMake],
		Model:           m[fieldModel],
		Trim:            m[fieldTrim],
		VehicleType:     m[fieldVehicleType],
		FuelType:        m[fieldFuelType],
		Transmission:    m[fieldTransmission],
		ExteriorColor:   m[fieldExteriorColor],
		InteriorColor:   m[fieldInteriorColor],
		Mileage:         parseInt(m[fieldMileage]),
		Description:     m[fieldDescription],
		AskingPrice:     parseOptFloat(m, fieldAskingPrice),
		AuctionForecast: parseOptFloat(m, fieldAuctionForecast),
		EstimatedPrice:  parseOptFloat(m, fieldEstimatedPrice),
		PriceSource:     m[fieldPriceSource],
		PriceConfidence: parseFloat(m[fieldPriceConfidence]),
		Status:          listing.Status(m[fieldStatus]),
		Embedding:       bytesToVector(m[fieldEmbedding]),
	})
}

func putOptFloat(m map[string]string, field string, v *float64) {
	if v != nil {
		m[field] = strconv.FormatFloat(*v, 'f', -1, 64)
	}
}

func parseOptFloat(m map[string]string, field string) *float64 {
	s, ok := m[field]
	if !ok || s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
