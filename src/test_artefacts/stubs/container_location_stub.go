package stubs

import (
	"time"

	"afvalprofiel/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

type ContainerLocationStub struct {
	location entities.ContainerLocation
}

func NewContainerLocationStub() ContainerLocationStub {
	now := time.Now().UTC()

	location := entities.ContainerLocation{
		ID:        uuid.New(),
		Address:   gofakeit.Street(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return ContainerLocationStub{location: location}
}

func (ls ContainerLocationStub) WithAddress(address string) ContainerLocationStub {
	ls.location.Address = address
	return ls
}

func (ls ContainerLocationStub) Get() entities.ContainerLocation {
	return ls.location
}
