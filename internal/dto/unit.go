package dto

import (
	"time"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
)

// CreateUnitRequest registers a new hospital unit.
type CreateUnitRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateUnitRequest updates mutable unit fields.
type UpdateUnitRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// UnitResponse is the API shape of a unit.
type UnitResponse struct {
	UnitID      string    `json:"unitID"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	QRContent   string    `json:"qrContent,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToUnitResponse converts a domain unit to its API shape. qrContent is the
// encoded QR payload for the unit token.
func ToUnitResponse(unit *domain.Unit, qrContent string) UnitResponse {
	return UnitResponse{
		UnitID:      unit.UnitID,
		Code:        unit.Code,
		Name:        unit.Name,
		Description: unit.Description,
		QRContent:   qrContent,
		IsActive:    unit.IsActive,
		CreatedAt:   unit.CreatedAt,
	}
}
