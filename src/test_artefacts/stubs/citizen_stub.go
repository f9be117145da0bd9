package stubs

import (
	"fmt"
	"time"

	"afvalprofiel/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

type CitizenStub struct {
	citizen entities.Citizen
}

func NewCitizenStub() CitizenStub {
	now := time.Now().UTC()

	citizen := entities.Citizen{
		ID:         uuid.New(),
		NationalID: fmt.Sprintf("%09d", gofakeit.Number(100000000, 999999999)),
		Name:       gofakeit.Name(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return CitizenStub{citizen: citizen}
}

func (cs CitizenStub) WithNationalID(nationalID string) CitizenStub {
	cs.citizen.NationalID = nationalID
	return cs
}

func (cs CitizenStub) WithName(name string) CitizenStub {
	cs.citizen.Name = name
	return cs
}

func (cs CitizenStub) Get() entities.Citizen {
	return cs.citizen
}
