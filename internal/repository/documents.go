package repository

import (
	"math"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain/geo"
	routeDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/route"
	vehicleDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/vehicle"
)

// DocumentMapper converts between an entity and its stored document.
// The identifier is handled by the repository, not the document.
type DocumentMapper[T domain.Entity, D any] interface {
	ToDocument(entity T) (D, error)
	ToEntity(id string, doc D) T
}

// RouteDocument is the stored form of a route. Distance and travel time are
// persisted alongside the locations.
type RouteDocument struct {
	StartLocation       *geo.Coordinate `bson:"startLocation"`
	EndLocation         *geo.Coordinate `bson:"endLocation"`
	Distance            float64         `bson:"distance"`
	EstimatedTravelTime float64         `bson:"estimatedTravelTime"`
}

// RouteMapper maps routes to RouteDocument.
type RouteMapper struct{}

func (RouteMapper) ToDocument(r *routeDomain.Route) (RouteDocument, error) {
	distance, err := r.Distance()
	if err != nil {
		return RouteDocument{}, err
	}
	travelTime, err := r.EstimatedTravelTime()
	if err != nil {
		return RouteDocument{}, err
	}
	return RouteDocument{
		StartLocation:       copyCoordinate(r.StartLocation),
		EndLocation:         copyCoordinate(r.EndLocation),
		Distance:            distance,
		EstimatedTravelTime: travelTime,
	}, nil
}

func (RouteMapper) ToEntity(id string, d RouteDocument) *routeDomain.Route {
	return &routeDomain.Route{
		ID:            id,
		StartLocation: copyCoordinate(d.StartLocation),
		EndLocation:   copyCoordinate(d.EndLocation),
	}
}

// VehicleDocument is the stored form of a vehicle.
type VehicleDocument struct {
	Type     string `bson:"type"`
	Capacity int32  `bson:"capacity"`
}

// VehicleMapper maps vehicles to VehicleDocument.
type VehicleMapper struct{}

func (VehicleMapper) ToDocument(v *vehicleDomain.Vehicle) (VehicleDocument, error) {
	if v.Capacity > math.MaxInt32 || v.Capacity < math.MinInt32 {
		return VehicleDocument{}, domain.NewInvalidArgument("capacity %d does not fit in 32 bits", v.Capacity)
	}
	return VehicleDocument{Type: v.Type, Capacity: int32(v.Capacity)}, nil
}

func (VehicleMapper) ToEntity(id string, d VehicleDocument) *vehicleDomain.Vehicle {
	return &vehicleDomain.Vehicle{ID: id, Type: d.Type, Capacity: int(d.Capacity)}
}

func copyCoordinate(c *geo.Coordinate) *geo.Coordinate {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
