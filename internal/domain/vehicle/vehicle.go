package vehicle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Kilat-Pet-Delivery/service-transit/internal/domain"
)

// Vehicle is a transit vehicle with a passenger capacity.
type Vehicle struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
}

func (v *Vehicle) GetID() string   { return v.ID }
func (v *Vehicle) SetID(id string) { v.ID = id }

// Serialize renders v as JSON text.
func Serialize(v *Vehicle) (string, error) {
	if v == nil {
		return "", domain.NewInvalidArgument("vehicle object is null")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize vehicle: %w", err)
	}
	return string(b), nil
}

// Deserialize parses JSON text into a Vehicle.
func Deserialize(text string) (*Vehicle, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewInvalidArgument("JSON string is null or empty")
	}
	var v *Vehicle
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, domain.NewInvalidArgument("malformed vehicle JSON: %v", err)
	}
	if v == nil {
		return nil, domain.NewInvalidArgument("JSON string is null or empty")
	}
	return v, nil
}
