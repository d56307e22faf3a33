package route

import (
	"time"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain/geo"
)

// AverageSpeedKmh is the constant speed used to estimate travel time.
const AverageSpeedKmh = 60.0

// Route is a trip between two coordinates. Distance and travel time are
// derived from the locations on every call.
type Route struct {
	ID            string          `json:"id,omitempty"`
	StartLocation *geo.Coordinate `json:"startLocation"`
	EndLocation   *geo.Coordinate `json:"endLocation"`
}

// NewRoute creates an unsaved route between start and end.
func NewRoute(start, end geo.Coordinate) *Route {
	return &Route{StartLocation: &start, EndLocation: &end}
}

func (r *Route) GetID() string   { return r.ID }
func (r *Route) SetID(id string) { r.ID = id }

// Distance returns the great-circle distance between the two locations in km.
func (r *Route) Distance() (float64, error) {
	if r.StartLocation == nil || r.EndLocation == nil {
		return 0, domain.NewInvalidState("start and end locations must be set to calculate distance")
	}
	return geo.DistanceKm(*r.StartLocation, *r.EndLocation)
}

// EstimatedTravelTime returns the travel time in hours at AverageSpeedKmh.
func (r *Route) EstimatedTravelTime() (float64, error) {
	d, err := r.Distance()
	if err != nil {
		return 0, err
	}
	return d / AverageSpeedKmh, nil
}

// EstimatedArrivalTimeOfDay adds the travel time to departure's wall-clock
// time of day. The result is not wrapped at midnight.
func (r *Route) EstimatedArrivalTimeOfDay(departure time.Time) (time.Duration, error) {
	hours, err := r.EstimatedTravelTime()
	if err != nil {
		return 0, err
	}
	h, m, s := departure.Clock()
	clock := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(departure.Nanosecond())
	return clock + time.Duration(hours*float64(time.Hour)), nil
}

// Validate checks that both locations are present and in range.
func (r *Route) Validate() error {
	if r.StartLocation == nil {
		return domain.NewInvalidArgument("start location is required")
	}
	if r.EndLocation == nil {
		return domain.NewInvalidArgument("end location is required")
	}
	if !r.StartLocation.IsValid() {
		return domain.NewInvalidArgument("start location (%g, %g) is out of range",
			r.StartLocation.Latitude, r.StartLocation.Longitude)
	}
	if !r.EndLocation.IsValid() {
		return domain.NewInvalidArgument("end location (%g, %g) is out of range",
			r.EndLocation.Latitude, r.EndLocation.Longitude)
	}
	return nil
}

// TotalDistance sums the distance of every route. The first route whose
// distance cannot be computed aborts the sum.
func TotalDistance(routes []*Route) (float64, error) {
	var total float64
	for _, r := range routes {
		d, err := r.Distance()
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}
