package profile

import (
	"afvalprofiel/src/domain"
	"afvalprofiel/src/domain/entities"
	"afvalprofiel/src/repositories"
)

type ProfileService struct {
	cachedProfileRepository *repositories.CachedProfileRepository
}

func NewProfileService(
	cachedProfileRepository *repositories.CachedProfileRepository,
) *ProfileService {
	return &ProfileService{
		cachedProfileRepository: cachedProfileRepository,
	}
}

// buildSummary agrega o conjunto de ledigingen já filtrado por período.
// O breakdown por waste type só contém tipos que ocorrem; o Period é nil
// quando o conjunto está vazio. Os counts de containers/locations vêm
// das listagens, que seguem os filtros da própria dimensão.
func (ps *ProfileService) buildSummary(
	emptyings []domain.EmptyingWithWasteType,
	containerCount int,
	locationCount int,
) domain.Summary {
	summary := domain.Summary{
		TotalWeightPerWasteType: make(map[entities.WasteType]float64),
		EmptyingCount:           len(emptyings),
		ContainerCount:          containerCount,
		LocationCount:           locationCount,
	}

	for _, emp := range emptyings {
		summary.TotalWeight += emp.Weight
		summary.TotalWeightPerWasteType[emp.WasteType] += emp.Weight

		// emptyings chegam ordenadas por emptied_at desc
		if summary.Period == nil {
			summary.Period = &domain.Period{
				FirstEmptying: emp.EmptiedAt,
				LastEmptying:  emp.EmptiedAt,
			}
		}
		summary.Period.FirstEmptying = emp.EmptiedAt
	}

	return summary
}
