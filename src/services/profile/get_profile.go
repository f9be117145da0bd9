package profile

import (
	"context"
	"fmt"

	"afvalprofiel/src/domain"
)

// GetProfile monta o afval profiel completo de um klant pelo BSN.
// Um BSN desconhecido retorna domain.ErrCitizenNotFound, que é um
// resultado legítimo, não um erro do sistema.
func (ps *ProfileService) GetProfile(ctx context.Context, nationalID string, filter domain.ProfileFilter) (*domain.Profile, error) {
	data, err := ps.cachedProfileRepository.QueryProfileData(ctx, nationalID, filter)
	if err != nil {
		return nil, fmt.Errorf("ProfileService.GetProfile - failed to query profile data: %w", err)
	}

	summary := ps.buildSummary(data.Emptyings, len(data.Containers), len(data.Locations))

	return &domain.Profile{
		Citizen:    data.Citizen,
		Summary:    summary,
		Containers: data.Containers,
		Locations:  data.Locations,
		Emptyings:  data.Emptyings,
	}, nil
}
