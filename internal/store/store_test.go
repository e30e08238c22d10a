package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"kharcha/internal/core"
	applog "kharcha/internal/log"
)

// fakeBlob is an in-memory Blob whose writes can be made to fail.
type fakeBlob struct {
	data    map[string]string
	failPut error
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{data: make(map[string]string)}
}

func (b *fakeBlob) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *fakeBlob) Put(_ context.Context, key, value string) error {
	if b.failPut != nil {
		return b.failPut
	}
	b.data[key] = value
	return nil
}

func newTestStore(blob Blob) *Store {
	return New(blob, applog.New(applog.Config{}))
}

func TestMutationLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{
		Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	s := New(newFakeBlob(), logger)
	s.Load(context.Background())

	if out := buf.String(); !strings.Contains(out, applog.FieldOperation+"="+applog.OpLoad) {
		t.Errorf("load did not log its operation:\n%s", out)
	}

	buf.Reset()
	if err := s.Add(context.Background(), rec("x1", "2025-01-05", core.Food, 100, "")); err != nil {
		t.Fatalf("add: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, applog.FieldOperation+"="+applog.OpPersist) {
		t.Errorf("persist did not log its operation:\n%s", out)
	}
	if !strings.Contains(out, applog.FieldRevision+"=1") {
		t.Errorf("persist did not log the revision:\n%s", out)
	}
}

func rec(id, date string, cat core.Category, cents int64, note string) core.Record {
	return core.Record{ID: id, Date: date, Category: cat, Amount: core.Money{Cents: cents}, Note: note}
}

func TestLoadSeedsWhenEmpty(t *testing.T) {
	blob := newFakeBlob()
	s := newTestStore(blob)
	s.Load(context.Background())

	records := s.Records()
	if len(records) != 9 {
		t.Fatalf("seed has %d records, want 9", len(records))
	}
	seen := map[string]bool{}
	prefix := Now().Format("2006-01")
	for _, r := range records {
		if r.ID == "" || seen[r.ID] {
			t.Errorf("seed record has missing or duplicate id %q", r.ID)
		}
		seen[r.ID] = true
		if r.Date[:7] != prefix {
			t.Errorf("seed date %q not in current month %q", r.Date, prefix)
		}
		if err := r.Validate(); err != nil {
			t.Errorf("seed record %q invalid: %v", r.Note, err)
		}
	}
	if _, ok := blob.data[RecordsKey]; !ok {
		t.Error("seed was not persisted")
	}
}

func TestLoadSeedsOnCorruptBlob(t *testing.T) {
	blob := newFakeBlob()
	blob.data[RecordsKey] = `{"not":"an array`
	s := newTestStore(blob)
	s.Load(context.Background())

	if got := len(s.Records()); got != 9 {
		t.Fatalf("corrupt blob should fall back to seed, got %d records", got)
	}
}

func TestLoadReadsPersistedRecords(t *testing.T) {
	blob := newFakeBlob()
	persisted := []core.Record{rec("a", "2024-05-03", core.Food, 18050, "")}
	raw, _ := json.Marshal(persisted)
	blob.data[RecordsKey] = string(raw)

	s := newTestStore(blob)
	s.Load(context.Background())

	records := s.Records()
	if len(records) != 1 || records[0].ID != "a" || records[0].Amount.Cents != 18050 {
		t.Fatalf("loaded records = %+v", records)
	}
}

func TestAddPersistsAndBumpsRevision(t *testing.T) {
	blob := newFakeBlob()
	s := newTestStore(blob)
	ctx := context.Background()

	before := s.Revision()
	if err := s.Add(ctx, rec("a", "2024-05-03", core.Food, 18050, "Lunch")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if s.Revision() == before {
		t.Error("revision did not change on Add")
	}

	var persisted []core.Record
	if err := json.Unmarshal([]byte(blob.data[RecordsKey]), &persisted); err != nil {
		t.Fatalf("persisted blob unparseable: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != "a" {
		t.Fatalf("persisted = %+v", persisted)
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	blob := newFakeBlob()
	s := newTestStore(blob)
	ctx := context.Background()
	_ = s.Add(ctx, rec("a", "2024-05-03", core.Food, 18050, ""))
	before := s.Revision()

	if err := s.Update(ctx, "missing", rec("", "2024-06-01", core.Bills, 100, "")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if s.Revision() != before {
		t.Error("no-op update bumped revision")
	}
	records := s.Records()
	if records[0].Date != "2024-05-03" || records[0].Category != core.Food {
		t.Errorf("no-op update mutated store: %+v", records[0])
	}
}

func TestUpdateKeepsIDImmutable(t *testing.T) {
	blob := newFakeBlob()
	s := newTestStore(blob)
	ctx := context.Background()
	_ = s.Add(ctx, rec("a", "2024-05-03", core.Food, 18050, "old"))

	patch := rec("should-not-replace-id", "2024-06-01", core.Bills, 9900, "new")
	if err := s.Update(ctx, "a", patch); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := s.Records()[0]
	if got.ID != "a" {
		t.Errorf("id changed to %q", got.ID)
	}
	if got.Date != "2024-06-01" || got.Category != core.Bills || got.Amount.Cents != 9900 || got.Note != "new" {
		t.Errorf("patch not applied: %+v", got)
	}
}

func TestRemove(t *testing.T) {
	blob := newFakeBlob()
	s := newTestStore(blob)
	ctx := context.Background()
	_ = s.Add(ctx, rec("a", "2024-05-03", core.Food, 18050, ""))
	_ = s.Add(ctx, rec("b", "2024-05-04", core.Bills, 100, ""))

	removed, ok, err := s.Remove(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("Remove: ok=%v err=%v", ok, err)
	}
	if removed.Category != core.Food || removed.Amount.Cents != 18050 {
		t.Errorf("removed = %+v", removed)
	}
	if got := s.Records(); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("store after remove = %+v", got)
	}

	// Unknown id: store unchanged, no error, ok=false
	before := s.Revision()
	_, ok, err = s.Remove(ctx, "a")
	if err != nil || ok {
		t.Fatalf("second Remove: ok=%v err=%v", ok, err)
	}
	if s.Revision() != before || len(s.Records()) != 1 {
		t.Error("no-op remove mutated store")
	}
}

func TestReplaceAll(t *testing.T) {
	blob := newFakeBlob()
	s := newTestStore(blob)
	ctx := context.Background()
	_ = s.Add(ctx, rec("a", "2024-05-03", core.Food, 18050, ""))

	next := []core.Record{
		rec("x", "2024-06-01", core.Bills, 100, ""),
		rec("y", "2024-06-02", core.Other, 200, ""),
	}
	if err := s.ReplaceAll(ctx, next); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	got := s.Records()
	if len(got) != 2 || got[0].ID != "x" || got[1].ID != "y" {
		t.Fatalf("records after replace = %+v", got)
	}

	// The store owns its copy: mutating the input must not reach it.
	next[0].Note = "mutated"
	if s.Records()[0].Note == "mutated" {
		t.Error("ReplaceAll aliased caller slice")
	}
}

func TestPersistFailureLeavesMemoryMutated(t *testing.T) {
	blob := newFakeBlob()
	s := newTestStore(blob)
	ctx := context.Background()
	_ = s.Add(ctx, rec("a", "2024-05-03", core.Food, 18050, ""))

	blob.failPut = errors.New("disk full")
	err := s.Add(ctx, rec("b", "2024-05-04", core.Bills, 100, ""))
	if err == nil {
		t.Fatal("expected persist error")
	}
	// Documented limitation: the in-memory mutation stays applied.
	if got := len(s.Records()); got != 2 {
		t.Errorf("in-memory records = %d, want 2 (mutation kept despite persist failure)", got)
	}
	var persisted []core.Record
	_ = json.Unmarshal([]byte(blob.data[RecordsKey]), &persisted)
	if len(persisted) != 1 {
		t.Errorf("persisted records = %d, want 1 (write failed)", len(persisted))
	}
}

func TestTheme(t *testing.T) {
	blob := newFakeBlob()
	s := newTestStore(blob)
	ctx := context.Background()

	if got := s.Theme(ctx); got != DefaultTheme {
		t.Errorf("default theme = %q, want %q", got, DefaultTheme)
	}
	if err := s.SetTheme(ctx, "dark"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if got := s.Theme(ctx); got != "dark" {
		t.Errorf("theme = %q, want dark", got)
	}

	// Unrecognized persisted values fall back to system
	blob.data[ThemeKey] = "neon"
	if got := s.Theme(ctx); got != DefaultTheme {
		t.Errorf("theme for invalid stored value = %q, want %q", got, DefaultTheme)
	}
}

func TestSeedDeterministicShape(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	seed := Seed(now)
	if len(seed) != 9 {
		t.Fatalf("seed length = %d", len(seed))
	}
	if seed[0].Date != "2024-05-03" || seed[0].Amount.Cents != 18050 {
		t.Errorf("first seed row = %+v", seed[0])
	}
	if seed[4].Date != "2024-05-10" || seed[5].Date != "2024-05-10" {
		t.Error("seed should contain the same-date pair on day 10")
	}
}
