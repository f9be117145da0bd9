package stubs

import (
	"time"

	"afvalprofiel/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

type EmptyingStub struct {
	emptying entities.Emptying
}

func NewEmptyingStub() EmptyingStub {
	now := time.Now().UTC()
	emptiedAt := gofakeit.DateRange(now.AddDate(-1, 0, 0), now).UTC()

	emptying := entities.Emptying{
		ID:        uuid.New(),
		Weight:    float64(gofakeit.Number(1, 500)) / 10,
		EmptiedAt: emptiedAt,
		EmptiedOn: emptiedAt.Truncate(24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return EmptyingStub{emptying: emptying}
}

func (es EmptyingStub) WithCitizenID(citizenID uuid.UUID) EmptyingStub {
	es.emptying.CitizenID = citizenID
	return es
}

func (es EmptyingStub) WithContainerID(containerID uuid.UUID) EmptyingStub {
	es.emptying.ContainerID = containerID
	return es
}

func (es EmptyingStub) WithContainerLocationID(locationID uuid.UUID) EmptyingStub {
	es.emptying.ContainerLocationID = locationID
	return es
}

func (es EmptyingStub) WithWeight(weight float64) EmptyingStub {
	es.emptying.Weight = weight
	return es
}

func (es EmptyingStub) WithEmptiedAt(emptiedAt time.Time) EmptyingStub {
	es.emptying.EmptiedAt = emptiedAt.UTC()
	es.emptying.EmptiedOn = es.emptying.EmptiedAt.Truncate(24 * time.Hour)
	return es
}

func (es EmptyingStub) Get() entities.Emptying {
	return es.emptying
}
