package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"kharcha/internal/core"
	applog "kharcha/internal/log"
)

// Export serializes the full record list (never the filtered view) to an
// indented JSON array and returns a timestamped download filename.
func (s *ExpenseService) Export(ctx context.Context) (string, []byte, error) {
	records := s.store.Records()
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("marshal records: %w", err)
	}
	filename := "expenses-" + s.now().UTC().Format("2006-01-02-15-04-05") + ".json"
	s.log.InfoContext(ctx, "Records exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldCount, len(records),
		"filename", filename)
	return filename, data, nil
}

// Import parses an externally supplied JSON document and replaces the
// whole store with its records. The top-level value must be an array;
// each element must carry a non-empty date and category and a numeric
// amount. An element without an id gets a fresh one. Any failure aborts
// the entire import with the store unchanged.
//
// The amount check is "is a number" only: zero and negative amounts pass
// through import even though create and edit reject them. That asymmetry
// is long-standing behavior and is kept as is.
func (s *ExpenseService) Import(ctx context.Context, data []byte) (int, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	arr, ok := doc.([]any)
	if !ok {
		return 0, ErrImportFormat
	}

	records := make([]core.Record, 0, len(arr))
	for i, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			return 0, &ImportShapeError{Index: i, Reason: "not an object"}
		}
		date, _ := obj["date"].(string)
		if date == "" {
			return 0, &ImportShapeError{Index: i, Reason: "missing date"}
		}
		category, _ := obj["category"].(string)
		if category == "" {
			return 0, &ImportShapeError{Index: i, Reason: "missing category"}
		}
		amount, ok := obj["amount"].(float64)
		if !ok {
			return 0, &ImportShapeError{Index: i, Reason: "amount is not a number"}
		}
		id, _ := obj["id"].(string)
		if id == "" {
			id = uuid.NewString()
		}
		note, _ := obj["note"].(string)

		records = append(records, core.Record{
			ID:       id,
			Date:     date,
			Category: core.Category(category),
			Amount:   core.MoneyFromFloat(amount),
			Note:     note,
		})
	}

	if err := s.store.ReplaceAll(ctx, records); err != nil {
		return 0, &PersistenceError{Op: applog.OpImport, Err: err}
	}
	s.log.InfoContext(ctx, "Records imported",
		applog.FieldOperation, applog.OpImport,
		applog.FieldCount, len(records))
	return len(records), nil
}
