package test_seeder

import (
	"context"
	"fmt"

	"afvalprofiel/src/domain/entities"
)

func (ts TestSeeder) SelectCitizens(ctx context.Context) ([]entities.Citizen, error) {
	query := `SELECT id, national_id, name, created_at, updated_at
			  FROM citizens ORDER BY national_id`

	rows, err := ts.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var citizens []entities.Citizen
	for rows.Next() {
		var citizen entities.Citizen
		err := rows.Scan(
			&citizen.ID,
			&citizen.NationalID,
			&citizen.Name,
			&citizen.CreatedAt,
			&citizen.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		citizens = append(citizens, citizen)
	}

	return citizens, rows.Err()
}

func (ts TestSeeder) SelectContainers(ctx context.Context) ([]entities.Container, error) {
	query := `SELECT id, waste_type, is_collective, has_key, created_at, updated_at
			  FROM containers ORDER BY waste_type, id`

	rows, err := ts.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var containers []entities.Container
	for rows.Next() {
		var container entities.Container
		err := rows.Scan(
			&container.ID,
			&container.WasteType,
			&container.IsCollective,
			&container.HasKey,
			&container.CreatedAt,
			&container.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		containers = append(containers, container)
	}

	return containers, rows.Err()
}

func (ts TestSeeder) SelectContainerLocations(ctx context.Context) ([]entities.ContainerLocation, error) {
	query := `SELECT id, address, created_at, updated_at
			  FROM container_locations ORDER BY address, id`

	rows, err := ts.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []entities.ContainerLocation
	for rows.Next() {
		var location entities.ContainerLocation
		err := rows.Scan(
			&location.ID,
			&location.Address,
			&location.CreatedAt,
			&location.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}

	return locations, rows.Err()
}

// SelectEmptyingsByNationalID retrieves the emptyings of a citizen, newest first
func (ts TestSeeder) SelectEmptyingsByNationalID(ctx context.Context, nationalID string) ([]entities.Emptying, error) {
	query := `SELECT e.id, e.container_location_id, e.citizen_id, e.container_id, e.weight, e.emptied_at, e.emptied_on, e.created_at, e.updated_at
			  FROM emptyings e
			  JOIN citizens c ON e.citizen_id = c.id
			  WHERE c.national_id = $1
			  ORDER BY e.emptied_at DESC`

	rows, err := ts.pool.Query(ctx, query, nationalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emptyings []entities.Emptying
	for rows.Next() {
		var emptying entities.Emptying
		err := rows.Scan(
			&emptying.ID,
			&emptying.ContainerLocationID,
			&emptying.CitizenID,
			&emptying.ContainerID,
			&emptying.Weight,
			&emptying.EmptiedAt,
			&emptying.EmptiedOn,
			&emptying.CreatedAt,
			&emptying.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		emptyings = append(emptyings, emptying)
	}

	return emptyings, rows.Err()
}

// CountRows counts rows for a fixed set of known tables
func (ts TestSeeder) CountRows(ctx context.Context, table string) (int, error) {
	allowed := map[string]string{
		"citizens":            "SELECT COUNT(*) FROM citizens",
		"containers":          "SELECT COUNT(*) FROM containers",
		"container_locations": "SELECT COUNT(*) FROM container_locations",
		"emptyings":           "SELECT COUNT(*) FROM emptyings",
	}

	query, ok := allowed[table]
	if !ok {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var count int
	err := ts.pool.QueryRow(ctx, query).Scan(&count)
	return count, err
}
