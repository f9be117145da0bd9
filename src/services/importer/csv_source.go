package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultChunkSize limita quantas linhas ficam em memória por vez.
// O chunking é só gestão de memória: qualquer tamanho produz o mesmo
// estado final.
const DefaultChunkSize = 50_000

// requiredColumns são validadas no header antes de qualquer escrita.
// A coluna de waste type é validada à parte (CONTAINERSOORT ou FRACTIEID).
var requiredColumns = []string{
	ColSubjectID,
	ColBSN,
	ColSubjectName,
	ColObjectID,
	ColObjectAddress,
	ColContainerID,
	ColKeyNumber,
	ColCollectiveFlag,
	ColEmptyingID,
	ColWeightUndivided,
	ColWeightDivided,
	ColEmptyingTimestamp,
}

// Record é uma linha crua com acesso por nome de coluna.
type Record struct {
	fields []string
	cols   map[string]int
}

func (r Record) Get(name string) string {
	idx, ok := r.cols[name]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return r.fields[idx]
}

func (r Record) Has(name string) bool {
	_, ok := r.cols[name]
	return ok
}

// RowSource é uma fonte de linhas que suporta releitura do início,
// exigida pelo import em dois passes.
type RowSource interface {
	// ReadChunk retorna até n registros; um slice vazio sinaliza o fim.
	ReadChunk(n int) ([]Record, error)
	// Reset volta a fonte para a primeira linha de dados.
	Reset() error
}

// CSVSource lê um arquivo `;`-separado de um io.ReadSeeker.
type CSVSource struct {
	seeker io.ReadSeeker
	reader *csv.Reader
	cols   map[string]int
}

func NewCSVSource(rs io.ReadSeeker) (*CSVSource, error) {
	src := &CSVSource{seeker: rs}
	if err := src.Reset(); err != nil {
		return nil, err
	}
	return src, nil
}

// OpenCSVFile abre um CSV local como RowSource. O chamador fecha com Close.
func OpenCSVFile(path string) (*CSVSource, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("CSVSource - failed to open %s: %w", path, err)
	}

	src, err := NewCSVSource(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	return src, f, nil
}

func (s *CSVSource) Reset() error {
	if _, err := s.seeker.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("CSVSource.Reset - failed to rewind source: %w", err)
	}

	s.reader = csv.NewReader(s.seeker)
	s.reader.Comma = ';'
	s.reader.ReuseRecord = false

	return s.readHeader()
}

func (s *CSVSource) readHeader() error {
	header, err := s.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty source, header row missing", ErrSourceFormat)
		}
		return fmt.Errorf("%w: failed to read header: %v", ErrSourceFormat, err)
	}

	// byte-order mark de exports Windows
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}

	_, hasCanonical := cols[ColContainerSoort]
	_, hasLegacy := cols[ColFractieID]
	if !hasCanonical && !hasLegacy {
		missing = append(missing, ColContainerSoort)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required columns: %s", ErrSourceFormat, strings.Join(missing, ", "))
	}

	s.cols = cols
	return nil
}

func (s *CSVSource) ReadChunk(n int) ([]Record, error) {
	records := make([]Record, 0, n)

	for len(records) < n {
		fields, err := s.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("%w: malformed row: %v", ErrSourceFormat, err)
		}
		records = append(records, Record{fields: fields, cols: s.cols})
	}

	return records, nil
}
