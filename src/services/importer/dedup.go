package importer

import (
	"time"

	"github.com/google/uuid"

	"afvalprofiel/src/domain/entities"
)

// EntityCollector acumula as entidades únicas vistas durante o pass 1,
// com "first occurrence wins": linhas posteriores com um external id já
// visto não sobrescrevem atributos. O estado atravessa os chunks.
//
// Cada entidade ganha um uuid no primeiro avistamento, então o mapa
// external id -> id interno é explícito e não depende da ordem de insert.
type EntityCollector struct {
	locations     map[string]entities.ContainerLocation
	locationOrder []string

	citizens     map[string]entities.Citizen
	citizenOrder []string

	containers     map[string]entities.Container
	containerOrder []string
}

func NewEntityCollector() *EntityCollector {
	return &EntityCollector{
		locations:  make(map[string]entities.ContainerLocation),
		citizens:   make(map[string]entities.Citizen),
		containers: make(map[string]entities.Container),
	}
}

func (c *EntityCollector) Collect(row NormalizedRow) {
	now := time.Now().UTC()

	if _, seen := c.locations[row.ObjectID]; !seen {
		c.locations[row.ObjectID] = entities.ContainerLocation{
			ID:        uuid.New(),
			Address:   row.Address,
			CreatedAt: now,
			UpdatedAt: now,
		}
		c.locationOrder = append(c.locationOrder, row.ObjectID)
	}

	if _, seen := c.citizens[row.SubjectID]; !seen {
		c.citizens[row.SubjectID] = entities.Citizen{
			ID:         uuid.New(),
			NationalID: row.NationalID,
			Name:       row.SubjectName,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		c.citizenOrder = append(c.citizenOrder, row.SubjectID)
	}

	if _, seen := c.containers[row.ContainerID]; !seen {
		c.containers[row.ContainerID] = entities.Container{
			ID:           uuid.New(),
			WasteType:    row.WasteType,
			IsCollective: row.IsCollective,
			HasKey:       row.HasKey,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		c.containerOrder = append(c.containerOrder, row.ContainerID)
	}
}

// Locations retorna as locations na ordem do primeiro avistamento.
func (c *EntityCollector) Locations() []entities.ContainerLocation {
	out := make([]entities.ContainerLocation, 0, len(c.locationOrder))
	for _, key := range c.locationOrder {
		out = append(out, c.locations[key])
	}
	return out
}

func (c *EntityCollector) Citizens() []entities.Citizen {
	out := make([]entities.Citizen, 0, len(c.citizenOrder))
	for _, key := range c.citizenOrder {
		out = append(out, c.citizens[key])
	}
	return out
}

func (c *EntityCollector) Containers() []entities.Container {
	out := make([]entities.Container, 0, len(c.containerOrder))
	for _, key := range c.containerOrder {
		out = append(out, c.containers[key])
	}
	return out
}

func (c *EntityCollector) LocationID(objectID string) (uuid.UUID, bool) {
	loc, ok := c.locations[objectID]
	return loc.ID, ok
}

func (c *EntityCollector) CitizenID(subjectID string) (uuid.UUID, bool) {
	cit, ok := c.citizens[subjectID]
	return cit.ID, ok
}

func (c *EntityCollector) ContainerID(containerID string) (uuid.UUID, bool) {
	cont, ok := c.containers[containerID]
	return cont.ID, ok
}
