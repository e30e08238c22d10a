package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kharcha/internal/chart"
	"kharcha/internal/core"
	applog "kharcha/internal/log"
	"kharcha/internal/services"
	"kharcha/internal/store"
	"kharcha/internal/view"
)

// recordPayload carries the note twice: Note is the stored text verbatim
// (safe to render via textContent and the value the edit form round-trips),
// NoteHTML is the escaped form for consumers that interpolate into markup.
type recordPayload struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Category      string `json:"category"`
	Amount        string `json:"amount"`
	AmountDisplay string `json:"amountDisplay"`
	Note          string `json:"note"`
	NoteHTML      string `json:"noteHtml"`
}

type statsPayload struct {
	Count          int    `json:"count"`
	TotalDisplay   string `json:"totalDisplay"`
	AverageDisplay string `json:"averageDisplay"`
}

type recordsResponse struct {
	Rows     []recordPayload `json:"rows"`
	Stats    statsPayload    `json:"stats"`
	Revision uint64          `json:"revision"`
}

func toPayload(r core.Record) recordPayload {
	return recordPayload{
		ID:            r.ID,
		Date:          r.Date,
		Category:      string(r.Category),
		Amount:        strconv.FormatFloat(r.Amount.Float(), 'f', 2, 64),
		AmountDisplay: r.Amount.Rupees(),
		Note:          r.Note,
		NoteHTML:      r.SafeNote(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service layer errors onto HTTP statuses.
// Validation and import shape problems are the caller's fault (422);
// persistence failures are ours (500).
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	var se *services.ImportShapeError
	var pe *services.PersistenceError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusUnprocessableEntity, ve.Error())
	case errors.As(err, &se):
		writeError(w, http.StatusUnprocessableEntity, se.Error())
	case errors.Is(err, services.ErrImportFormat):
		writeError(w, http.StatusUnprocessableEntity, "Import failed: JSON must be an array of records.")
	case errors.As(err, &pe):
		s.log.ErrorContext(r.Context(), "Persistence failure",
			applog.FieldOperation, pe.Op, applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Saved in memory but could not be persisted.")
	default:
		s.log.ErrorContext(r.Context(), "Unhandled error", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Something went wrong.")
	}
}

type indexData struct {
	Categories   []core.Category
	Themes       []string
	Theme        string
	CurrentMonth string
	CurrentDate  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.templates == nil {
		http.Error(w, "templates unavailable", http.StatusInternalServerError)
		return
	}
	now := time.Now()
	data := indexData{
		Categories:   core.Categories(),
		Themes:       store.Themes(),
		Theme:        s.store.Theme(r.Context()),
		CurrentMonth: now.Format("2006-01"),
		CurrentDate:  now.Format("2006-01-02"),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.log.ErrorContext(r.Context(), "Template render failed", applog.FieldError, err.Error())
	}
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListRecords(w, r)
	case http.MethodPost:
		s.handleCreateRecord(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := view.Filter{
		Month:    q.Get("month"),
		Category: q.Get("category"),
		Search:   q.Get("q"),
	}

	rev := s.store.Revision()
	key := fmt.Sprintf("records|%d|%s|%s|%s", rev, f.Month, f.Category, f.Search)
	if cached, ok := s.viewCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(cached)
		return
	}

	res := view.View(s.store.Records(), f)
	resp := recordsResponse{
		Rows: make([]recordPayload, 0, len(res.Rows)),
		Stats: statsPayload{
			Count:          res.Stats.Count,
			TotalDisplay:   res.Stats.Total.Rupees(),
			AverageDisplay: res.Stats.Average.Rupees(),
		},
		Revision: rev,
	}
	for _, row := range res.Rows {
		resp.Rows = append(resp.Rows, toPayload(row))
	}

	body, err := json.Marshal(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}
	s.viewCache.Set(key, body)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func formInput(r *http.Request) services.Input {
	return services.Input{
		Date:     r.FormValue("date"),
		Category: r.FormValue("category"),
		Amount:   r.FormValue("amount"),
		Note:     r.FormValue("note"),
	}
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Create(r.Context(), formInput(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"record":  toPayload(rec),
		"message": "Added ✓",
	})
}

func (s *Server) handleRecordByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/records/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		if err := s.svc.Edit(r.Context(), id, formInput(r)); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Saved ✓"})
	case http.MethodDelete:
		removed, ok, err := s.svc.Delete(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		resp := map[string]any{"deleted": ok}
		if ok {
			resp["message"] = fmt.Sprintf("Deleted %s (%s)", removed.Category, removed.Amount.Rupees())
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

const (
	defaultChartWidth  = 800
	defaultChartHeight = 280
	minChartDimension  = 120
	maxChartDimension  = 4000
)

func chartDimension(raw string, fallback int) float64 {
	v, err := strconv.Atoi(raw)
	if err != nil || v < minChartDimension || v > maxChartDimension {
		return float64(fallback)
	}
	return float64(v)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	q := r.URL.Query()
	width := chartDimension(q.Get("w"), defaultChartWidth)
	height := chartDimension(q.Get("h"), defaultChartHeight)

	f := view.Filter{
		Month:    q.Get("month"),
		Category: q.Get("category"),
		Search:   q.Get("q"),
	}

	rev := s.store.Revision()
	key := fmt.Sprintf("chart|%d|%.0f|%.0f|%s|%s|%s", rev, width, height, f.Month, f.Category, f.Search)
	if cached, ok := s.viewCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(cached)
		return
	}

	res := view.View(s.store.Records(), f)
	c := chart.Build(res.Rows, width, height)

	body, err := json.Marshal(c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}
	s.viewCache.Set(key, body)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	filename, data, err := s.svc.Export(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxImportBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Import file is too large.")
			return
		}
		writeError(w, http.StatusBadRequest, "Could not read request body.")
		return
	}

	n, err := s.svc.Import(r.Context(), data)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"imported": n,
		"message":  "Imported ✓",
	})
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{"theme": s.store.Theme(r.Context())})
	case http.MethodPut:
		theme := r.FormValue("theme")
		if !store.ValidTheme(theme) {
			writeError(w, http.StatusUnprocessableEntity, "Unknown theme.")
			return
		}
		if err := s.store.SetTheme(r.Context(), theme); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
