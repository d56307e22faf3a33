package handler

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/application"
	vehicleDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/vehicle"
)

// VehicleHandler handles HTTP requests for vehicles.
type VehicleHandler struct {
	*EntityHandler[*vehicleDomain.Vehicle]
	service *application.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(service *application.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		EntityHandler: NewEntityHandler[*vehicleDomain.Vehicle](service, func() *vehicleDomain.Vehicle { return &vehicleDomain.Vehicle{} }, nil),
		service:       service,
	}
}

// RegisterRoutes registers the CRUD routes plus JSON conversion.
func (h *VehicleHandler) RegisterRoutes(r *gin.RouterGroup) {
	vehicles := h.EntityHandler.RegisterRoutes(r)
	vehicles.POST("/serialize", h.Serialize)
	vehicles.POST("/deserialize", h.Deserialize)
}

// Serialize returns the JSON text of the vehicle in the body.
// An empty body or "null" is rejected.
func (h *VehicleHandler) Serialize(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		badRequest(c, "failed to read request body")
		return
	}
	var v *vehicleDomain.Vehicle
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			badRequest(c, "malformed vehicle JSON: "+err.Error())
			return
		}
	}

	text, err := h.service.Serialize(v)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, text)
}

// Deserialize parses vehicle JSON from the body. The body is either the
// vehicle object itself or a JSON string holding it.
func (h *VehicleHandler) Deserialize(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		badRequest(c, "failed to read request body")
		return
	}

	text := string(raw)
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			badRequest(c, "malformed JSON string: "+err.Error())
			return
		}
	}

	v, err := h.service.Deserialize(text)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, v)
}
