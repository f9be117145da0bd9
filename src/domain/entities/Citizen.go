package entities

import (
	"time"

	"github.com/google/uuid"
)

// Citizen é o "klant": o dono de uma ou mais containers,
// identificado de forma única pelo BSN (national id).
type Citizen struct {
	ID         uuid.UUID `json:"id"`
	NationalID string    `json:"national_id"`
	// Pode ser uma pessoa, organização, empresa, etc.
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
