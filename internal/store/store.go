// Package store owns the authoritative in-memory record list and its
// persisted mirror. Every mutation persists synchronously; derived views
// are computed elsewhere from a snapshot of the list.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"kharcha/internal/core"
	applog "kharcha/internal/log"
)

// Storage keys. RecordsKey holds the whole record list as one JSON array;
// ThemeKey holds the UI theme preference string.
const (
	RecordsKey = "expense-tracker.v1"
	ThemeKey   = "expense-tracker.theme"
)

// DefaultTheme is used when no preference has been stored.
const DefaultTheme = "system"

// Blob is the persisted mirror of the store: a key-value surface with
// last-write-wins semantics.
type Blob interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Store holds the ordered record list. The list keeps insertion order;
// display order is always re-derived by sorting, never read directly.
type Store struct {
	mu       sync.RWMutex
	blob     Blob
	records  []core.Record
	revision uint64
	log      *applog.Logger
}

func New(blob Blob, logger *applog.Logger) *Store {
	return &Store{
		blob: blob,
		log:  logger.WithComponent(applog.ComponentStore),
	}
}

// Load initializes the store from the persisted blob. A missing,
// unreadable, or unparseable blob falls back to the demo seed; corruption
// is logged but never surfaced, so startup cannot fail on bad data.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.blob.Get(ctx, RecordsKey)
	if err == nil && ok {
		var records []core.Record
		if jsonErr := json.Unmarshal([]byte(raw), &records); jsonErr == nil {
			s.records = records
			s.log.InfoContext(ctx, "Records loaded",
				applog.FieldOperation, applog.OpLoad,
				applog.FieldCount, len(records))
			return
		}
		s.log.WarnContext(ctx, "Persisted records unparseable, falling back to demo seed",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldStorageKey, RecordsKey)
	} else if err != nil {
		s.log.WarnContext(ctx, "Record blob unreadable, falling back to demo seed",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldError, err.Error())
	}

	s.records = Seed(Now())
	if err := s.persistLocked(ctx); err != nil {
		s.log.WarnContext(ctx, "Failed to persist demo seed", applog.FieldError, err.Error())
	}
	s.log.InfoContext(ctx, "Store seeded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldCount, len(s.records))
}

// Records returns a copy of the record list in insertion order.
func (s *Store) Records() []core.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Revision returns a counter bumped on every completed mutation. Cache
// keys derived from it go stale the moment the list changes.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Add appends the record and persists. The caller supplies a record that
// already carries a fresh unique id.
func (s *Store) Add(ctx context.Context, r core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	s.revision++
	return s.persistLocked(ctx)
}

// Update mutates the record with the given id in place. Only date,
// category, amount, and note change; the id is immutable. An unknown id
// is a silent no-op.
func (s *Store) Update(ctx context.Context, id string, patch core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		s.records[i].Date = patch.Date
		s.records[i].Category = patch.Category
		s.records[i].Amount = patch.Amount
		s.records[i].Note = patch.Note
		s.revision++
		return s.persistLocked(ctx)
	}
	s.log.DebugContext(ctx, "Update for unknown id ignored", applog.FieldRecordID, id)
	return nil
}

// Remove deletes the record with the given id and returns it for user
// feedback. An unknown id is a silent no-op with ok=false.
func (s *Store) Remove(ctx context.Context, id string) (core.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		removed := s.records[i]
		s.records = append(s.records[:i], s.records[i+1:]...)
		s.revision++
		return removed, true, s.persistLocked(ctx)
	}
	return core.Record{}, false, nil
}

// ReplaceAll swaps the entire list atomically and persists. Shape
// validation happens at the serialization boundary before this is called.
func (s *Store) ReplaceAll(ctx context.Context, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]core.Record, len(records))
	copy(s.records, records)
	s.revision++
	return s.persistLocked(ctx)
}

// Theme returns the persisted theme preference, defaulting to "system"
// for missing, unreadable, or unrecognized values.
func (s *Store) Theme(ctx context.Context) string {
	v, ok, err := s.blob.Get(ctx, ThemeKey)
	if err != nil || !ok || !ValidTheme(v) {
		return DefaultTheme
	}
	return v
}

// SetTheme persists the theme preference.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	if !ValidTheme(theme) {
		theme = DefaultTheme
	}
	return s.blob.Put(ctx, ThemeKey, theme)
}

// ValidTheme reports whether v is one of the accepted theme values.
func ValidTheme(v string) bool {
	return v == "light" || v == "dark" || v == "system"
}

// Themes lists the accepted theme values in cycle order.
func Themes() []string {
	return []string{"dark", "light", "system"}
}

// persistLocked writes the current list to the blob. A failure propagates
// to the caller while the in-memory mutation stays applied: in-memory and
// persisted state may diverge until the next successful write.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return err
	}
	if err := s.blob.Put(ctx, RecordsKey, string(data)); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "Records persisted",
		applog.FieldOperation, applog.OpPersist,
		applog.FieldRevision, s.revision,
		applog.FieldCount, len(s.records))
	return nil
}
