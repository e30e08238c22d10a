package core

import (
	"errors"
	"html"
	"strings"
)

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Bills         Category = "Bills"
	Entertainment Category = "Entertainment"
	Healthcare    Category = "Healthcare"
	Education     Category = "Education"
	Other         Category = "Other"
)

// MaxNoteLength caps the free-text note on a record.
const MaxNoteLength = 80

type (
	Category string

	// Record is a single expense entry. Date is an opaque zero-padded
	// ISO token (YYYY-MM-DD); records sort by comparing it as a string.
	Record struct {
		ID       string   `json:"id"`
		Date     string   `json:"date"`
		Category Category `json:"category"`
		Amount   Money    `json:"amount"`
		Note     string   `json:"note,omitempty"`
	}
)

var (
	ErrEmptyDate       = errors.New("empty date")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNoteTooLong     = errors.New("note too long")
)

// Categories returns the fixed category enumeration in display order.
// The chart renders one bar per entry, in this order.
func Categories() []Category {
	return []Category{Food, Transport, Shopping, Bills, Entertainment, Healthcare, Education, Other}
}

func (c Category) Valid() bool {
	switch c {
	case Food, Transport, Shopping, Bills, Entertainment, Healthcare, Education, Other:
		return true
	}
	return false
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.Date) == "" {
		return ErrEmptyDate
	}
	if !r.Category.Valid() {
		return ErrInvalidCategory
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if len(r.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// SafeNote returns the note with HTML-unsafe characters neutralized.
// Notes are stored verbatim; escaping happens at display time only.
func (r Record) SafeNote() string {
	return html.EscapeString(r.Note)
}
