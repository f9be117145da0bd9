package entities

import (
	"time"

	"github.com/google/uuid"
)

type WasteType string

const (
	WasteTypeOrganic  WasteType = "organic"
	WasteTypeResidual WasteType = "residual"
)

type Container struct {
	ID        uuid.UUID `json:"id"`
	WasteType WasteType `json:"waste_type"`
	// Containers coletivos são compartilhados entre vários endereços.
	IsCollective bool      `json:"is_collective"`
	HasKey       bool      `json:"has_key"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
