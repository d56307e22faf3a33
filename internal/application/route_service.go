package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain/geo"
	routeDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/route"
)

// RouteDTO is the API representation of a route, including derived fields.
type RouteDTO struct {
	ID                  string          `json:"id"`
	StartLocation       *geo.Coordinate `json:"startLocation"`
	EndLocation         *geo.Coordinate `json:"endLocation"`
	Distance            float64         `json:"distance"`
	EstimatedTravelTime float64         `json:"estimatedTravelTime"`
}

// ArrivalDTO is the response for an arrival estimate.
type ArrivalDTO struct {
	RouteID             string    `json:"routeId"`
	Departure           time.Time `json:"departure"`
	Arrival             time.Time `json:"arrival"`
	EstimatedTravelTime float64   `json:"estimatedTravelTime"`
	// ArrivalTimeOfDay is hh:mm:ss past the departure day's midnight and may exceed 24h.
	ArrivalTimeOfDay string `json:"arrivalTimeOfDay"`
}

// ToRouteDTO computes the derived fields of r.
func ToRouteDTO(r *routeDomain.Route) (RouteDTO, error) {
	distance, err := r.Distance()
	if err != nil {
		return RouteDTO{}, err
	}
	travelTime, err := r.EstimatedTravelTime()
	if err != nil {
		return RouteDTO{}, err
	}
	return RouteDTO{
		ID:                  r.ID,
		StartLocation:       r.StartLocation,
		EndLocation:         r.EndLocation,
		Distance:            distance,
		EstimatedTravelTime: travelTime,
	}, nil
}

// RouteService adds route rules to the generic service. Routes with a
// missing or out-of-range location are rejected before they reach storage.
type RouteService struct {
	*EntityService[*routeDomain.Route]
}

// NewRouteService creates a RouteService over repo.
func NewRouteService(repo domain.Repository[*routeDomain.Route], logger *zap.Logger, opts ...ServiceOption[*routeDomain.Route]) *RouteService {
	opts = append([]ServiceOption[*routeDomain.Route]{
		WithValidator(func(r *routeDomain.Route) error { return r.Validate() }),
	}, opts...)
	return &RouteService{EntityService: NewEntityService(repo, logger, opts...)}
}

// TotalDistance sums Distance over every stored route.
func (s *RouteService) TotalDistance(ctx context.Context) (float64, error) {
	routes, err := s.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	total, err := routeDomain.TotalDistance(routes)
	if err != nil {
		return 0, fmt.Errorf("failed to total route distance: %w", err)
	}
	return total, nil
}

// EstimateArrival estimates when a trip on route id leaving at departure
// arrives. found is false when the route does not exist.
func (s *RouteService) EstimateArrival(ctx context.Context, id string, departure time.Time) (ArrivalDTO, bool, error) {
	r, found, err := s.GetByID(ctx, id)
	if err != nil || !found {
		return ArrivalDTO{}, found, err
	}

	travelTime, err := r.EstimatedTravelTime()
	if err != nil {
		return ArrivalDTO{}, true, err
	}
	timeOfDay, err := r.EstimatedArrivalTimeOfDay(departure)
	if err != nil {
		return ArrivalDTO{}, true, err
	}

	return ArrivalDTO{
		RouteID:             id,
		Departure:           departure,
		Arrival:             departure.Add(time.Duration(travelTime * float64(time.Hour))),
		EstimatedTravelTime: travelTime,
		ArrivalTimeOfDay:    formatTimeOfDay(timeOfDay),
	}, true, nil
}

func formatTimeOfDay(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, d/time.Second)
}
