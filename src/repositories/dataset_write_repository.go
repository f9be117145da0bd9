package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"afvalprofiel/src/domain/entities"
	"afvalprofiel/src/infra/postgres"
)

// insertBatchSize limita o tamanho de cada COPY.
const insertBatchSize = 1000

// DatasetWriteRepository faz o replace-all do dataset. Todos os métodos
// recebem a transação do orquestrador: o purge, os inserts de entidades
// e os inserts de ledigingen do pass 2 vivem em uma transação só.
type DatasetWriteRepository struct {
	writePool *pgxpool.Pool
}

func NewDatasetWriteRepository(writePool *pgxpool.Pool) *DatasetWriteRepository {
	return &DatasetWriteRepository{writePool: writePool}
}

func (r *DatasetWriteRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.writePool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("DatasetWriteRepository.Begin - failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Purge apaga o dataset inteiro, na ordem inversa das FKs.
func (r *DatasetWriteRepository) Purge(ctx context.Context, tx pgx.Tx) error {
	tables := []string{"emptyings", "containers", "citizens", "container_locations"}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("DatasetWriteRepository.Purge - failed to purge %s: %w", table, err)
		}
	}

	return nil
}

func (r *DatasetWriteRepository) InsertLocations(ctx context.Context, tx pgx.Tx, locations []entities.ContainerLocation) error {
	rows := make([][]interface{}, 0, len(locations))
	for _, loc := range locations {
		rows = append(rows, []interface{}{loc.ID, loc.Address, loc.CreatedAt, loc.UpdatedAt})
	}

	columns := []string{"id", "address", "created_at", "updated_at"}
	if err := r.copyInBatches(ctx, tx, "container_locations", columns, rows); err != nil {
		return fmt.Errorf("DatasetWriteRepository.InsertLocations - %w", err)
	}

	return nil
}

func (r *DatasetWriteRepository) InsertCitizens(ctx context.Context, tx pgx.Tx, citizens []entities.Citizen) error {
	rows := make([][]interface{}, 0, len(citizens))
	for _, cit := range citizens {
		rows = append(rows, []interface{}{cit.ID, cit.NationalID, cit.Name, cit.CreatedAt, cit.UpdatedAt})
	}

	columns := []string{"id", "national_id", "name", "created_at", "updated_at"}
	if err := r.copyInBatches(ctx, tx, "citizens", columns, rows); err != nil {
		if postgres.IsUniqueViolation(err) {
			// Dois SUBJECTIDs distintos com o mesmo BSN: erro de
			// integridade, nunca merge silencioso.
			return fmt.Errorf("DatasetWriteRepository.InsertCitizens - duplicate national_id across distinct subject ids: %w", err)
		}
		return fmt.Errorf("DatasetWriteRepository.InsertCitizens - %w", err)
	}

	return nil
}

func (r *DatasetWriteRepository) InsertContainers(ctx context.Context, tx pgx.Tx, containers []entities.Container) error {
	rows := make([][]interface{}, 0, len(containers))
	for _, cont := range containers {
		rows = append(rows, []interface{}{cont.ID, string(cont.WasteType), cont.IsCollective, cont.HasKey, cont.CreatedAt, cont.UpdatedAt})
	}

	columns := []string{"id", "waste_type", "is_collective", "has_key", "created_at", "updated_at"}
	if err := r.copyInBatches(ctx, tx, "containers", columns, rows); err != nil {
		return fmt.Errorf("DatasetWriteRepository.InsertContainers - %w", err)
	}

	return nil
}

// InsertEmptyings é chamado uma vez por chunk do pass 2, então o pico de
// memória fica limitado ao chunk. emptied_on é coluna gerada e fica fora
// da lista.
func (r *DatasetWriteRepository) InsertEmptyings(ctx context.Context, tx pgx.Tx, emptyings []entities.Emptying) error {
	rows := make([][]interface{}, 0, len(emptyings))
	for _, emp := range emptyings {
		rows = append(rows, []interface{}{
			emp.ID,
			emp.ContainerLocationID,
			emp.CitizenID,
			emp.ContainerID,
			emp.Weight,
			emp.EmptiedAt,
			emp.CreatedAt,
			emp.UpdatedAt,
		})
	}

	columns := []string{"id", "container_location_id", "citizen_id", "container_id", "weight", "emptied_at", "created_at", "updated_at"}
	if err := r.copyInBatches(ctx, tx, "emptyings", columns, rows); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			// Uma lediging apontando para entidade que o pass 1 não viu.
			return fmt.Errorf("DatasetWriteRepository.InsertEmptyings - emptying references an unknown entity: %w", err)
		}
		return fmt.Errorf("DatasetWriteRepository.InsertEmptyings - %w", err)
	}

	return nil
}

func (r *DatasetWriteRepository) copyInBatches(ctx context.Context, tx pgx.Tx, table string, columns []string, rows [][]interface{}) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}

		_, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows[start:end]))
		if err != nil {
			return fmt.Errorf("failed to copy batch into %s: %w", table, err)
		}
	}

	return nil
}
