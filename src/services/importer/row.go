package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"afvalprofiel/src/domain/entities"
)

var (
	// ErrSourceFormat cobre header inválido e linhas malformadas.
	// Qualquer ocorrência aborta o run inteiro.
	ErrSourceFormat = errors.New("source format error")

	// ErrInvalidFlag é um literal J/N desconhecido. Diferente de um
	// waste type desconhecido (que tem default), isso indica problema
	// de qualidade nos dados e falha o run.
	ErrInvalidFlag = errors.New("invalid J/N flag literal")
)

// Colunas obrigatórias do arquivo fonte (case-sensitive).
const (
	ColSubjectID         = "SUBJECTID"
	ColBSN               = "BSN"
	ColSubjectName       = "SUBJECTNAAM"
	ColObjectID          = "OBJECTID"
	ColObjectAddress     = "OBJECTADRES"
	ColContainerID       = "CONTAINERID"
	ColKeyNumber         = "SLEUTELNUMMER"
	ColCollectiveFlag    = "VERZAMELCONTAINER_J_N"
	ColContainerSoort    = "CONTAINERSOORT"
	ColFractieID         = "FRACTIEID" // legacy alias for CONTAINERSOORT
	ColEmptyingID        = "LEDIGINGID"
	ColWeightUndivided   = "GEWICHT_ONVERDEELD"
	ColWeightDivided     = "GEWICHT_VERDEELD"
	ColEmptyingTimestamp = "LEDIGINGSMOMENT"
)

// NormalizedRow é uma linha da fonte já tipada e validada.
type NormalizedRow struct {
	SubjectID    string
	NationalID   string
	SubjectName  string
	ObjectID     string
	Address      string
	ContainerID  string
	WasteType    entities.WasteType
	IsCollective bool
	HasKey       bool
	Weight       float64
	EmptiedAt    time.Time
}

// Layouts aceitos para LEDIGINGSMOMENT. Timestamps sem timezone são
// interpretados como UTC.
var emptiedAtLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// NormalizeRow transforma um Record em NormalizedRow. O segundo retorno
// indica se a linha sobrevive à skip rule: linhas sem BSN ou sem
// LEDIGINGSMOMENT são excluídas silenciosamente, nos dois passes.
func NormalizeRow(rec Record) (NormalizedRow, bool, error) {
	nationalID := strings.TrimSpace(rec.Get(ColBSN))
	rawMoment := strings.TrimSpace(rec.Get(ColEmptyingTimestamp))

	if nationalID == "" || rawMoment == "" {
		return NormalizedRow{}, false, nil
	}

	isCollective, err := parseYesNo(rec.Get(ColCollectiveFlag))
	if err != nil {
		return NormalizedRow{}, false, err
	}

	weight, err := parseWeight(rec.Get(ColWeightDivided))
	if err != nil {
		return NormalizedRow{}, false, err
	}

	emptiedAt, err := parseEmptiedAt(rawMoment)
	if err != nil {
		return NormalizedRow{}, false, err
	}

	row := NormalizedRow{
		SubjectID:    rec.Get(ColSubjectID),
		NationalID:   nationalID,
		SubjectName:  rec.Get(ColSubjectName),
		ObjectID:     rec.Get(ColObjectID),
		Address:      rec.Get(ColObjectAddress),
		ContainerID:  rec.Get(ColContainerID),
		WasteType:    classifyWasteType(wasteTypeText(rec)),
		IsCollective: isCollective,
		HasKey:       strings.TrimSpace(rec.Get(ColKeyNumber)) != "",
		Weight:       weight,
		EmptiedAt:    emptiedAt,
	}

	return row, true, nil
}

// wasteTypeText lê a coluna canônica CONTAINERSOORT, caindo para o
// alias legado FRACTIEID quando o arquivo usa o schema antigo.
func wasteTypeText(rec Record) string {
	if rec.Has(ColContainerSoort) {
		return rec.Get(ColContainerSoort)
	}
	return rec.Get(ColFractieID)
}

// classifyWasteType mapeia o texto livre da fonte para o enum.
// Desconhecido ou vazio vira residual.
func classifyWasteType(text string) entities.WasteType {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "gft") || strings.Contains(lower, "groen") {
		return entities.WasteTypeOrganic
	}
	return entities.WasteTypeResidual
}

func parseYesNo(value string) (bool, error) {
	switch strings.TrimSpace(value) {
	case "J":
		return true, nil
	case "N", "":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidFlag, value)
	}
}

func parseWeight(value string) (float64, error) {
	weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s value %q", ErrSourceFormat, ColWeightDivided, value)
	}
	if weight < 0 {
		return 0, fmt.Errorf("%w: negative %s value %q", ErrSourceFormat, ColWeightDivided, value)
	}
	return weight, nil
}

func parseEmptiedAt(value string) (time.Time, error) {
	for _, layout := range emptiedAtLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid %s value %q", ErrSourceFormat, ColEmptyingTimestamp, value)
}
