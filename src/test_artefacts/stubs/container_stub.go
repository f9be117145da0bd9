package stubs

import (
	"time"

	"afvalprofiel/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

type ContainerStub struct {
	container entities.Container
}

func NewContainerStub() ContainerStub {
	now := time.Now().UTC()

	wasteType := entities.WasteTypeResidual
	if gofakeit.Bool() {
		wasteType = entities.WasteTypeOrganic
	}

	container := entities.Container{
		ID:           uuid.New(),
		WasteType:    wasteType,
		IsCollective: gofakeit.Bool(),
		HasKey:       gofakeit.Bool(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return ContainerStub{container: container}
}

func (cs ContainerStub) WithWasteType(wasteType entities.WasteType) ContainerStub {
	cs.container.WasteType = wasteType
	return cs
}

func (cs ContainerStub) WithIsCollective(isCollective bool) ContainerStub {
	cs.container.IsCollective = isCollective
	return cs
}

func (cs ContainerStub) WithHasKey(hasKey bool) ContainerStub {
	cs.container.HasKey = hasKey
	return cs
}

func (cs ContainerStub) Get() entities.Container {
	return cs.container
}
