package test_seeder

import (
	"context"
	"fmt"

	"afvalprofiel/src/domain/entities"
)

// InsertCitizen inserts a citizen into the database for testing
func (ts TestSeeder) InsertCitizen(ctx context.Context, citizen entities.Citizen) {
	query := `
		INSERT INTO citizens (id, national_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := ts.pool.Exec(ctx, query,
		citizen.ID,
		citizen.NationalID,
		citizen.Name,
		citizen.CreatedAt,
		citizen.UpdatedAt,
	)
	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertCitizen failed: %v", err))
	}
}

// InsertContainer inserts a container into the database for testing
func (ts TestSeeder) InsertContainer(ctx context.Context, container entities.Container) {
	query := `
		INSERT INTO containers (id, waste_type, is_collective, has_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := ts.pool.Exec(ctx, query,
		container.ID,
		string(container.WasteType),
		container.IsCollective,
		container.HasKey,
		container.CreatedAt,
		container.UpdatedAt,
	)
	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertContainer failed: %v", err))
	}
}

// InsertContainerLocation inserts a container location into the database for testing
func (ts TestSeeder) InsertContainerLocation(ctx context.Context, location entities.ContainerLocation) {
	query := `
		INSERT INTO container_locations (id, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`

	_, err := ts.pool.Exec(ctx, query,
		location.ID,
		location.Address,
		location.CreatedAt,
		location.UpdatedAt,
	)
	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertContainerLocation failed: %v", err))
	}
}

// InsertEmptying inserts an emptying into the database for testing.
// emptied_on is a generated column, so it is left to the database.
func (ts TestSeeder) InsertEmptying(ctx context.Context, emptying entities.Emptying) {
	query := `
		INSERT INTO emptyings (id, container_location_id, citizen_id, container_id, weight, emptied_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := ts.pool.Exec(ctx, query,
		emptying.ID,
		emptying.ContainerLocationID,
		emptying.CitizenID,
		emptying.ContainerID,
		emptying.Weight,
		emptying.EmptiedAt,
		emptying.CreatedAt,
		emptying.UpdatedAt,
	)
	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertEmptying failed: %v", err))
	}
}
