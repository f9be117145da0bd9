package domain

import (
	"errors"
	"time"

	"afvalprofiel/src/domain/entities"
)

var (
	ErrCitizenNotFound = errors.New("citizen not found")

	ErrUnavailableServer = errors.New("Oops, something unexpected happened. Please try again later.")
)

// ############################################################
// ############ PROCESSO DE LEITURA DO PROFIEL ################
// ############################################################

// ProfileFilter carrega os filtros opcionais da consulta de profiel.
// Addresses são combinados com OR; as datas são inclusivas nas duas
// pontas e aplicadas sobre emptied_on.
type ProfileFilter struct {
	WasteType entities.WasteType
	Addresses []string
	StartDate *time.Time
	EndDate   *time.Time
}

func (f ProfileFilter) HasWasteType() bool { return f.WasteType != "" }
func (f ProfileFilter) HasAddresses() bool { return len(f.Addresses) > 0 }

// ContainerWithWeight é um container do klant com o peso agregado
// das ledigingen dele nesse container (0.0 quando nada casa com os filtros).
type ContainerWithWeight struct {
	entities.Container
	TotalWeight float64
}

type LocationWithWeight struct {
	entities.ContainerLocation
	TotalWeight float64
}

// EmptyingWithWasteType é uma lediging enriquecida com o waste type
// do container, para o breakdown por tipo no summary.
type EmptyingWithWasteType struct {
	entities.Emptying
	WasteType entities.WasteType
}

// Period cobre da primeira à última lediging do conjunto filtrado.
type Period struct {
	FirstEmptying time.Time `json:"first_emptying"`
	LastEmptying  time.Time `json:"last_emptying"`
}

type Summary struct {
	TotalWeight             float64                        `json:"total_weight"`
	TotalWeightPerWasteType map[entities.WasteType]float64 `json:"total_weight_per_waste_type"`
	EmptyingCount           int                            `json:"emptying_count"`
	ContainerCount          int                            `json:"container_count"`
	LocationCount           int                            `json:"location_count"`
	Period                  *Period                        `json:"period"`
}

// Profile é o agregado completo retornado para um BSN.
type Profile struct {
	Citizen    entities.Citizen
	Summary    Summary
	Containers []ContainerWithWeight
	Locations  []LocationWithWeight
	Emptyings  []EmptyingWithWasteType
}

// ############################################################
// ################ EVENTOS DE DOMÍNIO ########################
// ############################################################

// DatasetReplacedEvent é publicado depois que um import substitui
// o dataset inteiro com sucesso.
type DatasetReplacedEvent struct {
	Source         string    `json:"source"`
	CitizenCount   int       `json:"citizen_count"`
	ContainerCount int       `json:"container_count"`
	LocationCount  int       `json:"location_count"`
	EmptyingCount  int       `json:"emptying_count"`
	RowsRead       int       `json:"rows_read"`
	RowsSkipped    int       `json:"rows_skipped"`
	ReplacedAt     time.Time `json:"replaced_at"`
}
