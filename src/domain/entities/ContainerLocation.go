package entities

import (
	"time"

	"github.com/google/uuid"
)

// ContainerLocation é o endereço físico onde um container fica.
// O address pode ser vazio, a identidade vem do id.
type ContainerLocation struct {
	ID        uuid.UUID `json:"id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
