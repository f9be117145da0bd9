package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"afvalprofiel/src/domain/entities"
	"afvalprofiel/src/repositories"
)

type ImportService struct {
	logger                 *slog.Logger
	datasetWriteRepository *repositories.DatasetWriteRepository
}

func NewImportService(
	logger *slog.Logger,
	datasetWriteRepository *repositories.DatasetWriteRepository,
) *ImportService {
	return &ImportService{
		logger:                 logger,
		datasetWriteRepository: datasetWriteRepository,
	}
}

// ImportStats são contadores de progresso. Observáveis, mas fora do
// contrato transacional.
type ImportStats struct {
	RowsRead    int
	RowsSkipped int
	Locations   int
	Citizens    int
	Containers  int
	Emptyings   int
}

// ImportFromFile roda o import completo contra um CSV local.
func (s *ImportService) ImportFromFile(ctx context.Context, path string, chunkSize int) (ImportStats, error) {
	src, f, err := OpenCSVFile(path)
	if err != nil {
		return ImportStats{}, err
	}
	defer f.Close()

	return s.ImportFromSource(ctx, src, chunkSize)
}

// ImportFromSource substitui o dataset inteiro pelo conteúdo da fonte.
//
// Dois passes sobre a mesma fonte: o pass 1 só descobre as entidades
// únicas; depois uma única transação cobre purge, insert das entidades
// e o pass 2 (releitura da fonte, uma lediging por linha sobrevivente,
// insert por chunk). Qualquer falha desfaz o replace inteiro e o
// dataset anterior fica intacto.
func (s *ImportService) ImportFromSource(ctx context.Context, src RowSource, chunkSize int) (ImportStats, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	stats := ImportStats{}
	collector := NewEntityCollector()

	// ---- pass 1: discovery ----
	for {
		chunk, err := src.ReadChunk(chunkSize)
		if err != nil {
			return stats, fmt.Errorf("ImportService.ImportFromSource - pass 1 read failed: %w", err)
		}
		if len(chunk) == 0 {
			break
		}

		for _, rec := range chunk {
			row, ok, err := NormalizeRow(rec)
			if err != nil {
				return stats, fmt.Errorf("ImportService.ImportFromSource - pass 1 row %d: %w", stats.RowsRead+1, err)
			}

			stats.RowsRead++
			if !ok {
				stats.RowsSkipped++
				continue
			}

			collector.Collect(row)
		}

		s.logger.Info("pass 1 progress",
			"rows_read", stats.RowsRead,
			"rows_skipped", stats.RowsSkipped)
	}

	locations := collector.Locations()
	citizens := collector.Citizens()
	containers := collector.Containers()

	stats.Locations = len(locations)
	stats.Citizens = len(citizens)
	stats.Containers = len(containers)

	s.logger.Info("pass 1 done",
		"locations", stats.Locations,
		"citizens", stats.Citizens,
		"containers", stats.Containers)

	// ---- reload + pass 2, em uma transação só ----
	tx, err := s.datasetWriteRepository.Begin(ctx)
	if err != nil {
		return stats, fmt.Errorf("ImportService.ImportFromSource - %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.datasetWriteRepository.Purge(ctx, tx); err != nil {
		return stats, fmt.Errorf("ImportService.ImportFromSource - %w", err)
	}

	if err := s.datasetWriteRepository.InsertLocations(ctx, tx, locations); err != nil {
		return stats, fmt.Errorf("ImportService.ImportFromSource - %w", err)
	}
	if err := s.datasetWriteRepository.InsertCitizens(ctx, tx, citizens); err != nil {
		return stats, fmt.Errorf("ImportService.ImportFromSource - %w", err)
	}
	if err := s.datasetWriteRepository.InsertContainers(ctx, tx, containers); err != nil {
		return stats, fmt.Errorf("ImportService.ImportFromSource - %w", err)
	}

	if err := src.Reset(); err != nil {
		return stats, fmt.Errorf("ImportService.ImportFromSource - failed to rewind source for pass 2: %w", err)
	}

	for {
		chunk, err := src.ReadChunk(chunkSize)
		if err != nil {
			return stats, fmt.Errorf("ImportService.ImportFromSource - pass 2 read failed: %w", err)
		}
		if len(chunk) == 0 {
			break
		}

		emptyings := make([]entities.Emptying, 0, len(chunk))
		for _, rec := range chunk {
			// Mesma normalização e skip rule do pass 1, então os
			// dois passes enxergam o mesmo conjunto de linhas.
			row, ok, err := NormalizeRow(rec)
			if err != nil {
				return stats, fmt.Errorf("ImportService.ImportFromSource - pass 2: %w", err)
			}
			if !ok {
				continue
			}

			emptying, err := s.buildEmptying(collector, row)
			if err != nil {
				return stats, fmt.Errorf("ImportService.ImportFromSource - pass 2: %w", err)
			}

			emptyings = append(emptyings, emptying)
		}

		if err := s.datasetWriteRepository.InsertEmptyings(ctx, tx, emptyings); err != nil {
			return stats, fmt.Errorf("ImportService.ImportFromSource - %w", err)
		}

		stats.Emptyings += len(emptyings)
		s.logger.Info("pass 2 progress", "emptyings", stats.Emptyings)
	}

	if err := tx.Commit(ctx); err != nil {
		return stats, fmt.Errorf("ImportService.ImportFromSource - failed to commit: %w", err)
	}

	s.logger.Info("import finished",
		"rows_read", stats.RowsRead,
		"rows_skipped", stats.RowsSkipped,
		"emptyings", stats.Emptyings)

	return stats, nil
}

func (s *ImportService) buildEmptying(collector *EntityCollector, row NormalizedRow) (entities.Emptying, error) {
	locationID, ok := collector.LocationID(row.ObjectID)
	if !ok {
		return entities.Emptying{}, fmt.Errorf("no location collected for OBJECTID %q", row.ObjectID)
	}

	citizenID, ok := collector.CitizenID(row.SubjectID)
	if !ok {
		return entities.Emptying{}, fmt.Errorf("no citizen collected for SUBJECTID %q", row.SubjectID)
	}

	containerID, ok := collector.ContainerID(row.ContainerID)
	if !ok {
		return entities.Emptying{}, fmt.Errorf("no container collected for CONTAINERID %q", row.ContainerID)
	}

	now := time.Now().UTC()

	return entities.Emptying{
		ID:                  uuid.New(),
		ContainerLocationID: locationID,
		CitizenID:           citizenID,
		ContainerID:         containerID,
		Weight:              row.Weight,
		EmptiedAt:           row.EmptiedAt,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}
