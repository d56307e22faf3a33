// Package geo holds coordinate validation and great-circle distance helpers.
package geo

import (
	"math"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
)

const (
	// EarthRadiusKm is the mean Earth radius used by DistanceKm.
	EarthRadiusKm = 6371.0

	// DefaultDecimalPlaces is the rounding applied by DistanceKm when none is given.
	DefaultDecimalPlaces = 1

	degreesToRadians = math.Pi / 180.0
)

// Coordinate is a point on the Earth's surface with an optional label.
// Construction does not validate; call IsValid before using it in calculations.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
}

// NewCoordinate builds a Coordinate. An optional name may be given.
func NewCoordinate(latitude, longitude float64, name ...string) Coordinate {
	c := Coordinate{Latitude: latitude, Longitude: longitude}
	if len(name) > 0 {
		c.Name = name[0]
	}
	return c
}

// IsValid reports whether c lies within the latitude and longitude ranges.
func (c Coordinate) IsValid() bool {
	return IsValid(c)
}

// IsValid reports whether latitude is within [-90,90] and longitude within [-180,180].
func IsValid(c Coordinate) bool {
	return c.Latitude >= -90.0 && c.Latitude <= 90.0 &&
		c.Longitude >= -180.0 && c.Longitude <= 180.0
}

// DistanceKm returns the haversine distance between a and b in kilometers,
// rounded to decimalPlaces (DefaultDecimalPlaces when omitted). A negative
// decimalPlaces is rejected.
func DistanceKm(a, b Coordinate, decimalPlaces ...int) (float64, error) {
	if !IsValid(a) {
		return 0, domain.NewInvalidArgument("invalid origin coordinates supplied (%g, %g)", a.Latitude, a.Longitude)
	}
	if !IsValid(b) {
		return 0, domain.NewInvalidArgument("invalid destination coordinates supplied (%g, %g)", b.Latitude, b.Longitude)
	}

	places := DefaultDecimalPlaces
	if len(decimalPlaces) > 0 {
		places = decimalPlaces[0]
	}
	if places < 0 {
		return 0, domain.NewInvalidArgument("decimal places must not be negative, got %d", places)
	}

	dLat := degreesToRadians * (b.Latitude - a.Latitude)
	dLon := degreesToRadians * (b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians*a.Latitude)*math.Cos(degreesToRadians*b.Latitude)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// sqrt(h) can drift just above 1 for antipodal points.
	distance := 2 * EarthRadiusKm * math.Asin(math.Min(1.0, math.Sqrt(h)))
	return Round(distance, places), nil
}

// Round rounds value to the given number of decimal places, halves away from zero.
// Non-positive places round to a whole number.
func Round(value float64, places int) float64 {
	if places <= 0 {
		return math.Round(value)
	}
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
