package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"afvalprofiel/src/domain"
	"afvalprofiel/src/domain/entities"
	"afvalprofiel/src/infra/postgres"
)

// ProfileQueryRepository lê o profiel de um klant. Só leitura: o dataset
// inteiro é trocado pelo import job, nunca mutado aqui.
type ProfileQueryRepository struct {
	pool *pgxpool.Pool
}

func NewProfileQueryRepository(pool *pgxpool.Pool) *ProfileQueryRepository {
	return &ProfileQueryRepository{pool: pool}
}

func (pqr *ProfileQueryRepository) GetCitizenByNationalID(ctx context.Context, nationalID string) (entities.Citizen, error) {
	query := `
		SELECT
			id,
			national_id,
			name,
			created_at,
			updated_at
		FROM
			citizens
		WHERE
			national_id = $1;
	`

	var citizen entities.Citizen
	err := pqr.pool.QueryRow(ctx, query, nationalID).
		Scan(&citizen.ID, &citizen.NationalID, &citizen.Name, &citizen.CreatedAt, &citizen.UpdatedAt)
	if err != nil {
		if postgres.IsNoRows(err) {
			return entities.Citizen{}, fmt.Errorf("ProfileQueryRepository.GetCitizenByNationalID - %w", domain.ErrCitizenNotFound)
		}
		return entities.Citizen{}, fmt.Errorf("ProfileQueryRepository.GetCitizenByNationalID - query failed: %w", err)
	}

	return citizen, nil
}

// ListEmptyings retorna as ledigingen do klant, mais recentes primeiro.
// Só o filtro de período se aplica aqui; waste type e address não
// estreitam a listagem de eventos.
func (pqr *ProfileQueryRepository) ListEmptyings(ctx context.Context, citizenID uuid.UUID, filter domain.ProfileFilter) ([]domain.EmptyingWithWasteType, error) {
	query := `
		SELECT
			e.id,
			e.container_location_id,
			e.citizen_id,
			e.container_id,
			e.weight,
			e.emptied_at,
			e.emptied_on,
			e.created_at,
			e.updated_at,
			c.waste_type
		FROM
			emptyings e
		JOIN
			containers c ON c.id = e.container_id
		WHERE
			e.citizen_id = $1
			AND ($2::date IS NULL OR e.emptied_on >= $2)
			AND ($3::date IS NULL OR e.emptied_on <= $3)
		ORDER BY
			e.emptied_at DESC;
	`

	rows, err := pqr.pool.Query(ctx, query,
		citizenID,
		postgres.NewNullDate(filter.StartDate),
		postgres.NewNullDate(filter.EndDate),
	)
	if err != nil {
		return nil, fmt.Errorf("ProfileQueryRepository.ListEmptyings - query failed: %w", err)
	}
	defer rows.Close()

	var emptyings []domain.EmptyingWithWasteType
	for rows.Next() {
		var emp domain.EmptyingWithWasteType
		var wasteType string

		if err := rows.Scan(
			&emp.ID,
			&emp.ContainerLocationID,
			&emp.CitizenID,
			&emp.ContainerID,
			&emp.Weight,
			&emp.EmptiedAt,
			&emp.EmptiedOn,
			&emp.CreatedAt,
			&emp.UpdatedAt,
			&wasteType,
		); err != nil {
			return nil, fmt.Errorf("ProfileQueryRepository.ListEmptyings - failed to scan row: %w", err)
		}

		emp.WasteType = entities.WasteType(wasteType)
		emptyings = append(emptyings, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ProfileQueryRepository.ListEmptyings - error iterating rows: %w", err)
	}

	return emptyings, nil
}

// ListContainersWithWeights retorna os containers distintos do klant com
// o peso agregado. A listagem filtra pelo waste type (dimensão própria);
// o peso é estreitado pelo período e, quando o filtro de address está
// ativo, pelas ledigingen nesses endereços — nunca pelo próprio waste type.
func (pqr *ProfileQueryRepository) ListContainersWithWeights(ctx context.Context, citizenID uuid.UUID, filter domain.ProfileFilter) ([]domain.ContainerWithWeight, error) {
	query := `
		SELECT
			c.id,
			c.waste_type,
			c.is_collective,
			c.has_key,
			c.created_at,
			c.updated_at,
			COALESCE((
				SELECT SUM(w.weight)
				FROM emptyings w
				WHERE
					w.container_id = c.id
					AND w.citizen_id = $1
					AND ($3::date IS NULL OR w.emptied_on >= $3)
					AND ($4::date IS NULL OR w.emptied_on <= $4)
					AND ($5::text[] IS NULL OR w.container_location_id IN (
						SELECT cl.id FROM container_locations cl WHERE cl.address = ANY($5::text[])
					))
			), 0.0) AS total_weight
		FROM
			containers c
		WHERE
			EXISTS (
				SELECT 1 FROM emptyings e
				WHERE e.container_id = c.id AND e.citizen_id = $1
			)
			AND ($2::text IS NULL OR c.waste_type = $2)
		ORDER BY
			c.waste_type, c.id;
	`

	wasteType := string(filter.WasteType)
	rows, err := pqr.pool.Query(ctx, query,
		citizenID,
		postgres.NewNullString(&wasteType),
		postgres.NewNullDate(filter.StartDate),
		postgres.NewNullDate(filter.EndDate),
		nullableStrings(filter.Addresses),
	)
	if err != nil {
		return nil, fmt.Errorf("ProfileQueryRepository.ListContainersWithWeights - query failed: %w", err)
	}
	defer rows.Close()

	var containers []domain.ContainerWithWeight
	for rows.Next() {
		var cont domain.ContainerWithWeight
		var wt string

		if err := rows.Scan(
			&cont.ID,
			&wt,
			&cont.IsCollective,
			&cont.HasKey,
			&cont.CreatedAt,
			&cont.UpdatedAt,
			&cont.TotalWeight,
		); err != nil {
			return nil, fmt.Errorf("ProfileQueryRepository.ListContainersWithWeights - failed to scan row: %w", err)
		}

		cont.WasteType = entities.WasteType(wt)
		containers = append(containers, cont)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ProfileQueryRepository.ListContainersWithWeights - error iterating rows: %w", err)
	}

	return containers, nil
}

// ListLocationsWithWeights é o simétrico: listagem filtrada por address,
// peso estreitado pelo período e pelo filtro de waste type.
func (pqr *ProfileQueryRepository) ListLocationsWithWeights(ctx context.Context, citizenID uuid.UUID, filter domain.ProfileFilter) ([]domain.LocationWithWeight, error) {
	query := `
		SELECT
			cl.id,
			cl.address,
			cl.created_at,
			cl.updated_at,
			COALESCE((
				SELECT SUM(w.weight)
				FROM emptyings w
				WHERE
					w.container_location_id = cl.id
					AND w.citizen_id = $1
					AND ($3::date IS NULL OR w.emptied_on >= $3)
					AND ($4::date IS NULL OR w.emptied_on <= $4)
					AND ($5::text IS NULL OR w.container_id IN (
						SELECT c.id FROM containers c WHERE c.waste_type = $5
					))
			), 0.0) AS total_weight
		FROM
			container_locations cl
		WHERE
			EXISTS (
				SELECT 1 FROM emptyings e
				WHERE e.container_location_id = cl.id AND e.citizen_id = $1
			)
			AND ($2::text[] IS NULL OR cl.address = ANY($2::text[]))
		ORDER BY
			cl.address, cl.id;
	`

	wasteType := string(filter.WasteType)
	rows, err := pqr.pool.Query(ctx, query,
		citizenID,
		nullableStrings(filter.Addresses),
		postgres.NewNullDate(filter.StartDate),
		postgres.NewNullDate(filter.EndDate),
		postgres.NewNullString(&wasteType),
	)
	if err != nil {
		return nil, fmt.Errorf("ProfileQueryRepository.ListLocationsWithWeights - query failed: %w", err)
	}
	defer rows.Close()

	var locations []domain.LocationWithWeight
	for rows.Next() {
		var loc domain.LocationWithWeight

		if err := rows.Scan(
			&loc.ID,
			&loc.Address,
			&loc.CreatedAt,
			&loc.UpdatedAt,
			&loc.TotalWeight,
		); err != nil {
			return nil, fmt.Errorf("ProfileQueryRepository.ListLocationsWithWeights - failed to scan row: %w", err)
		}

		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ProfileQueryRepository.ListLocationsWithWeights - error iterating rows: %w", err)
	}

	return locations, nil
}

// nullableStrings vira NULL no banco quando a lista está vazia, para os
// predicados "$n::text[] IS NULL OR ...".
func nullableStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}
