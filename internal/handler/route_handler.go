package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/application"
	routeDomain "github.com/Kilat-Pet-Delivery/service-transit/internal/domain/route"
)

// RouteHandler handles HTTP requests for routes.
type RouteHandler struct {
	*EntityHandler[*routeDomain.Route]
	service *application.RouteService
}

// NewRouteHandler creates a new RouteHandler. Routes are returned with their
// derived distance and travel time.
func NewRouteHandler(service *application.RouteService) *RouteHandler {
	present := func(r *routeDomain.Route) (interface{}, error) {
		return application.ToRouteDTO(r)
	}
	return &RouteHandler{
		EntityHandler: NewEntityHandler[*routeDomain.Route](service, func() *routeDomain.Route { return &routeDomain.Route{} }, present),
		service:       service,
	}
}

// RegisterRoutes registers the CRUD routes plus the route-specific ones.
func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup) {
	routes := h.EntityHandler.RegisterRoutes(r)
	routes.GET("/totaldistance", h.TotalDistance)
	routes.GET("/:id/arrival", h.EstimateArrival)
}

// TotalDistance returns the summed distance of all routes.
func (h *RouteHandler) TotalDistance(c *gin.Context) {
	total, err := h.service.TotalDistance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, total)
}

// EstimateArrival estimates the arrival for a departure given as RFC 3339.
// Without a departure the current time is used.
func (h *RouteHandler) EstimateArrival(c *gin.Context) {
	departure := time.Now().UTC()
	if raw := c.Query("departure"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "departure must be an RFC 3339 timestamp")
			return
		}
		departure = t
	}

	id := c.Param("id")
	arrival, found, err := h.service.EstimateArrival(c.Request.Context(), id, departure)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		notFound(c, fmt.Sprintf("route '%s' not found", id))
		return
	}
	success(c, arrival)
}
