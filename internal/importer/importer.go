package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"crm-backoffice/internal/domain"
	"github.com/google/uuid"
)

// CustomerWriter is the slice of the customer repository the importer
// needs.
type CustomerWriter interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	ExistsByIntNr(ctx context.Context, intNr string) (bool, error)
}

// Result reports the outcome of an import run.
type Result struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// CSVImporter reads customer rows exported by the back office and inserts
// the ones whose intNr is not stored yet. The contactPersons and addresses
// cells hold JSON-encoded arrays.
type CSVImporter struct {
	reader *csv.Reader
	repo   CustomerWriter
}

func NewCSVImporter(r io.Reader, repo CustomerWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, repo: repo}
}

// Run parses CSV rows and creates a customer per unseen intNr. Rows whose
// intNr already exists are skipped and reported, not treated as errors.
func (i *CSVImporter) Run(ctx context.Context) (*Result, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	result := &Result{Skipped: []string{}}
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read row: %w", err)
		}
		line++

		c, err := parseRow(record, index)
		if err != nil {
			return result, fmt.Errorf("line %d: %w", line, err)
		}
		if c == nil {
			continue
		}

		exists, err := i.repo.ExistsByIntNr(ctx, c.IntNr)
		if err != nil {
			return result, fmt.Errorf("check intNr %q: %w", c.IntNr, err)
		}
		if exists {
			result.Skipped = append(result.Skipped, c.IntNr)
			continue
		}

		if _, err := i.repo.Create(ctx, *c); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				result.Skipped = append(result.Skipped, c.IntNr)
				continue
			}
			return result, fmt.Errorf("create customer %q: %w", c.IntNr, err)
		}
		result.Imported++
	}

	return result, nil
}

func parseRow(record []string, index map[string]int) (*domain.Customer, error) {
	intNr := pick(record, index, "intNr")
	typ := pick(record, index, "type")
	if intNr == "" && typ == "" {
		return nil, nil
	}
	if intNr == "" {
		return nil, errors.New("missing intNr")
	}
	if !domain.CustomerType(typ).Valid() {
		return nil, fmt.Errorf("invalid type %q for intNr %s", typ, intNr)
	}

	var addresses []domain.Address
	if raw := pick(record, index, "addresses"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &addresses); err != nil {
			return nil, fmt.Errorf("decode addresses for intNr %s: %w", intNr, err)
		}
	}
	var contacts []domain.ContactPerson
	if raw := pick(record, index, "contactPersons"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &contacts); err != nil {
			return nil, fmt.Errorf("decode contactPersons for intNr %s: %w", intNr, err)
		}
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("intNr %s has no addresses", intNr)
	}
	if len(contacts) == 0 {
		return nil, fmt.Errorf("intNr %s has no contact persons", intNr)
	}

	for i := range addresses {
		if addresses[i].ID == "" {
			addresses[i].ID = uuid.NewString()
		}
	}
	for i := range contacts {
		if contacts[i].ID == "" {
			contacts[i].ID = uuid.NewString()
		}
		if contacts[i].AddressID == "" {
			contacts[i].AddressID = addresses[0].ID
		}
	}

	return &domain.Customer{
		IntNr:          intNr,
		Type:           domain.CustomerType(typ),
		Addresses:      addresses,
		ContactPersons: contacts,
	}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
