package dto

import (
	"time"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
)

// CreateInstrumentRequest registers a new instrument type.
type CreateInstrumentRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
}

// UpdateInstrumentRequest updates mutable instrument fields.
type UpdateInstrumentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// InstrumentResponse is the API shape of an instrument.
type InstrumentResponse struct {
	InstrumentID string    `json:"instrumentID"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Description  string    `json:"description,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToInstrumentResponse converts a domain instrument to its API shape.
func ToInstrumentResponse(inst *domain.Instrument) InstrumentResponse {
	return InstrumentResponse{
		InstrumentID: inst.InstrumentID,
		Name:         inst.Name,
		Code:         inst.Code,
		Description:  inst.Description,
		IsActive:     inst.IsActive,
		CreatedAt:    inst.CreatedAt,
	}
}
