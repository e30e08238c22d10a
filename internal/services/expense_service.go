// Package services implements the validated entry points for mutating
// the record store, plus the import/export serialization boundary.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"kharcha/internal/core"
	applog "kharcha/internal/log"
	"kharcha/internal/store"
)

// Input carries raw form field values for create and edit. Amount is the
// unparsed text exactly as typed.
type Input struct {
	Date     string
	Category string
	Amount   string
	Note     string
}

// ExpenseService validates input and applies mutations to the store.
type ExpenseService struct {
	store *store.Store
	log   *applog.Logger
	now   func() time.Time
}

func NewExpenseService(st *store.Store, logger *applog.Logger) *ExpenseService {
	return &ExpenseService{
		store: st,
		log:   logger.WithComponent(applog.ComponentExpense),
		now:   time.Now,
	}
}

// parse validates raw form fields into a record without an id. The note
// is trimmed before the length check, matching what gets stored.
func parse(in Input) (core.Record, error) {
	if strings.TrimSpace(in.Date) == "" {
		return core.Record{}, &ValidationError{Field: "date", Reason: "required"}
	}
	cat := core.Category(strings.TrimSpace(in.Category))
	if cat == "" {
		return core.Record{}, &ValidationError{Field: "category", Reason: "required"}
	}
	if !cat.Valid() {
		return core.Record{}, &ValidationError{Field: "category", Reason: "unknown category"}
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Record{}, &ValidationError{Field: "amount", Reason: "must be a number greater than zero"}
	}
	note := strings.TrimSpace(in.Note)
	if len(note) > core.MaxNoteLength {
		return core.Record{}, &ValidationError{Field: "note", Reason: "too long"}
	}
	return core.Record{
		Date:     strings.TrimSpace(in.Date),
		Category: cat,
		Amount:   amount,
		Note:     note,
	}, nil
}

// Create validates the input and appends a new record with a fresh id.
// On validation failure nothing is mutated.
func (s *ExpenseService) Create(ctx context.Context, in Input) (core.Record, error) {
	r, err := parse(in)
	if err != nil {
		return core.Record{}, err
	}
	r.ID = uuid.NewString()
	if err := s.store.Add(ctx, r); err != nil {
		s.log.ErrorContext(ctx, "Create persisted state diverged",
			applog.FieldRecordID, r.ID, applog.FieldError, err.Error())
		return r, &PersistenceError{Op: applog.OpCreate, Err: err}
	}
	s.log.InfoContext(ctx, "Record created",
		applog.FieldRecordID, r.ID,
		applog.FieldRecordDate, r.Date,
		applog.FieldCategory, string(r.Category),
		applog.FieldAmountCents, r.Amount.Cents)
	return r, nil
}

// Edit validates replacement field values for an existing record. The id
// never changes; an unknown id is a silent no-op per the store contract.
func (s *ExpenseService) Edit(ctx context.Context, id string, in Input) error {
	patch, err := parse(in)
	if err != nil {
		return err
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		return &PersistenceError{Op: applog.OpUpdate, Err: err}
	}
	s.log.InfoContext(ctx, "Record updated", applog.FieldRecordID, id)
	return nil
}

// Delete removes the record and returns it for the user-facing notice
// ("Deleted Food (₹240.00)"). ok is false for an unknown id.
func (s *ExpenseService) Delete(ctx context.Context, id string) (core.Record, bool, error) {
	removed, ok, err := s.store.Remove(ctx, id)
	if err != nil {
		return removed, ok, &PersistenceError{Op: applog.OpDelete, Err: err}
	}
	if ok {
		s.log.InfoContext(ctx, "Record deleted",
			applog.FieldRecordID, id,
			applog.FieldCategory, string(removed.Category),
			applog.FieldAmountCents, removed.Amount.Cents)
	}
	return removed, ok, nil
}
