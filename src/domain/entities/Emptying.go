package entities

import (
	"time"

	"github.com/google/uuid"
)

// Emptying é um registro de lediging: um container esvaziado
// em um local, para um klant, com peso e momento.
type Emptying struct {
	ID                  uuid.UUID `json:"id"`
	ContainerLocationID uuid.UUID `json:"container_location_id"`
	CitizenID           uuid.UUID `json:"citizen_id"`
	ContainerID         uuid.UUID `json:"container_id"`
	Weight              float64   `json:"weight"`
	EmptiedAt           time.Time `json:"emptied_at"`
	// Coluna gerada no banco a partir de emptied_at (UTC),
	// usada para filtrar por data sem truncar por query.
	EmptiedOn time.Time `json:"emptied_on"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
