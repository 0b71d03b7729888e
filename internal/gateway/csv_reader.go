package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"mini-ledger/internal/domain"
)

const scriptColumns = 6

// CSVScriptRepository implements the ScriptRepository interface for CSV files.
//
// Each record is "action,account,target,amount,type,holder" after a header line.
type CSVScriptRepository struct{}

// NewCSVScriptRepository creates a new repository instance.
func NewCSVScriptRepository() *CSVScriptRepository {
	return &CSVScriptRepository{}
}

// GetOperations reads and parses the operation script at path.
func (r *CSVScriptRepository) GetOperations(ctx context.Context, path string) ([]domain.Operation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script file %s: %w", path, err)
	}
	defer file.Close()

	return r.ReadOperations(ctx, file, path)
}

// ReadOperations parses a script from r; name is used in error messages.
func (r *CSVScriptRepository) ReadOperations(ctx context.Context, in io.Reader, name string) ([]domain.Operation, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = scriptColumns
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", name, err)
	}

	var operations []domain.Operation
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", name, err)
		}
		line, _ := reader.FieldPos(0)

		op, err := parseOperation(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		op.Line = line
		operations = append(operations, op)
	}
	return operations, nil
}

func parseOperation(record []string) (domain.Operation, error) {
	action, err := domain.ParseAction(record[0])
	if err != nil {
		return domain.Operation{}, err
	}

	// Signs are kept so the bank, not the reader, rejects non-positive amounts.
	amount, err := domain.ParseBalance(record[3])
	if err != nil {
		return domain.Operation{}, fmt.Errorf("could not parse amount '%s': %w", record[3], err)
	}

	op := domain.Operation{
		Action:  action,
		Account: strings.TrimSpace(record[1]),
		Target:  strings.TrimSpace(record[2]),
		Amount:  amount,
		Holder:  strings.TrimSpace(record[5]),
	}
	if action == domain.ActionCreate {
		accountType, err := domain.ParseAccountType(record[4])
		if err != nil {
			// Left for CreateAccount to reject, so the run reports it per operation.
			accountType = domain.AccountType(strings.TrimSpace(record[4]))
		}
		op.AccountType = accountType
	}
	return op, nil
}
