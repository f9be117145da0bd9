package server

import (
	"time"

	"afvalprofiel/src/domain"
)

type ProfileDTO struct {
	Citizen    CitizenDTO     `json:"citizen"`
	Summary    SummaryDTO     `json:"summary"`
	Containers []ContainerDTO `json:"containers"`
	Locations  []LocationDTO  `json:"locations"`
	Emptyings  []EmptyingDTO  `json:"emptyings"`
}

type CitizenDTO struct {
	ID         string `json:"id"`
	NationalID string `json:"national_id"`
	Name       string `json:"name"`
}

type SummaryDTO struct {
	TotalWeight             float64            `json:"total_weight"`
	TotalWeightPerWasteType map[string]float64 `json:"total_weight_per_waste_type"`
	EmptyingCount           int                `json:"emptying_count"`
	ContainerCount          int                `json:"container_count"`
	LocationCount           int                `json:"location_count"`
	Period                  *PeriodDTO         `json:"period"`
}

type PeriodDTO struct {
	FirstEmptying time.Time `json:"first_emptying"`
	LastEmptying  time.Time `json:"last_emptying"`
}

type ContainerDTO struct {
	ID           string  `json:"id"`
	WasteType    string  `json:"waste_type"`
	IsCollective bool    `json:"is_collective"`
	HasKey       bool    `json:"has_key"`
	TotalWeight  float64 `json:"total_weight"`
}

type LocationDTO struct {
	ID          string  `json:"id"`
	Address     string  `json:"address"`
	TotalWeight float64 `json:"total_weight"`
}

type EmptyingDTO struct {
	ID                  string    `json:"id"`
	ContainerID         string    `json:"container_id"`
	ContainerLocationID string    `json:"container_location_id"`
	WasteType           string    `json:"waste_type"`
	Weight              float64   `json:"weight"`
	EmptiedAt           time.Time `json:"emptied_at"`
	EmptiedOn           string    `json:"emptied_on"`
}

func MapProfileToResponse(profile *domain.Profile) *ProfileDTO {
	if profile == nil {
		return nil
	}

	dto := &ProfileDTO{
		Citizen: CitizenDTO{
			ID:         profile.Citizen.ID.String(),
			NationalID: profile.Citizen.NationalID,
			Name:       profile.Citizen.Name,
		},
		Summary:    mapSummary(profile.Summary),
		Containers: make([]ContainerDTO, 0, len(profile.Containers)),
		Locations:  make([]LocationDTO, 0, len(profile.Locations)),
		Emptyings:  make([]EmptyingDTO, 0, len(profile.Emptyings)),
	}

	for _, container := range profile.Containers {
		dto.Containers = append(dto.Containers, ContainerDTO{
			ID:           container.ID.String(),
			WasteType:    string(container.WasteType),
			IsCollective: container.IsCollective,
			HasKey:       container.HasKey,
			TotalWeight:  container.TotalWeight,
		})
	}

	for _, location := range profile.Locations {
		dto.Locations = append(dto.Locations, LocationDTO{
			ID:          location.ID.String(),
			Address:     location.Address,
			TotalWeight: location.TotalWeight,
		})
	}

	for _, emptying := range profile.Emptyings {
		dto.Emptyings = append(dto.Emptyings, EmptyingDTO{
			ID:                  emptying.ID.String(),
			ContainerID:         emptying.ContainerID.String(),
			ContainerLocationID: emptying.ContainerLocationID.String(),
			WasteType:           string(emptying.WasteType),
			Weight:              emptying.Weight,
			EmptiedAt:           emptying.EmptiedAt,
			EmptiedOn:           emptying.EmptiedOn.Format("2006-01-02"),
		})
	}

	return dto
}

func mapSummary(summary domain.Summary) SummaryDTO {
	perType := make(map[string]float64, len(summary.TotalWeightPerWasteType))
	for wasteType, weight := range summary.TotalWeightPerWasteType {
		perType[string(wasteType)] = weight
	}

	dto := SummaryDTO{
		TotalWeight:             summary.TotalWeight,
		TotalWeightPerWasteType: perType,
		EmptyingCount:           summary.EmptyingCount,
		ContainerCount:          summary.ContainerCount,
		LocationCount:           summary.LocationCount,
	}

	if summary.Period != nil {
		dto.Period = &PeriodDTO{
			FirstEmptying: summary.Period.FirstEmptying,
			LastEmptying:  summary.Period.LastEmptying,
		}
	}

	return dto
}
