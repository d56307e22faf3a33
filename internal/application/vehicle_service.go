package application

import (
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
	vehicleDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/vehicle"
)

// VehicleService is the generic service for vehicles plus JSON conversion.
type VehicleService struct {
	*EntityService[*vehicleDomain.Vehicle]
}

// NewVehicleService creates a VehicleService over repo.
func NewVehicleService(repo domain.Repository[*vehicleDomain.Vehicle], logger *zap.Logger, opts ...ServiceOption[*vehicleDomain.Vehicle]) *VehicleService {
	return &VehicleService{EntityService: NewEntityService(repo, logger, opts...)}
}

// Serialize renders v as JSON text.
func (s *VehicleService) Serialize(v *vehicleDomain.Vehicle) (string, error) {
	return vehicleDomain.Serialize(v)
}

// Deserialize parses JSON text into a vehicle.
func (s *VehicleService) Deserialize(text string) (*vehicleDomain.Vehicle, error) {
	return vehicleDomain.Deserialize(text)
}
