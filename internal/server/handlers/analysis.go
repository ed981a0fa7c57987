// internal/server/handlers/analysis.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"datescout/internal/adapter/storage"
	"datescout/internal/domain/event"
	"datescout/internal/logger"
)

// AnalysisHandler handles analysis-related HTTP requests
type AnalysisHandler struct {
	analyzer      event.Analyzer
	analysisStore *storage.AnalysisStore
	eventStore    *storage.EventStore
}

// NewAnalysisHandler creates a new analysis handler. The stores may be nil
// when the service runs without persistence.
func NewAnalysisHandler(analyzer event.Analyzer, analysisStore *storage.AnalysisStore, eventStore *storage.EventStore) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer:      analyzer,
		analysisStore: analysisStore,
		eventStore:    eventStore,
	}
}

// analysisRequest is the wire shape of an analysis request; dates are
// plain calendar dates
type analysisRequest struct {
	City              string `json:"city"`
	Category          string `json:"category"`
	Subcategory       string `json:"subcategory,omitempty"`
	ExpectedAttendees int    `json:"expected_attendees"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	DateRangeStart    string `json:"date_range_start"`
	DateRangeEnd      string `json:"date_range_end"`
	Venue             string `json:"venue,omitempty"`
	AdvancedAnalysis  bool   `json:"advanced_analysis"`
}

// RunAnalysis runs a conflict analysis and returns the result
func (h *AnalysisHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	params, err := req.toParams()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), err)
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), params)
	if err != nil {
		if errors.Is(err, event.ErrInvalidParams) {
			respondWithError(w, http.StatusBadRequest, err.Error(), err)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Analysis failed", err)
		}
		return
	}

	if h.analysisStore != nil {
		if err := h.analysisStore.SaveResult(r.Context(), result); err != nil {
			logger.Warn("failed to persist analysis %s: %v", result.ID, err)
		}
	}
	if h.eventStore != nil && len(result.EventsAnalyzed) > 0 {
		if err := h.eventStore.SaveEvents(r.Context(), result.EventsAnalyzed); err != nil {
			logger.Warn("failed to cache events for analysis %s: %v", result.ID, err)
		}
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetAnalysis returns a stored analysis result by ID
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing analysis ID", nil)
		return
	}
	if h.analysisStore == nil {
		respondWithError(w, http.StatusNotFound, "Persistence is disabled", nil)
		return
	}

	result, err := h.analysisStore.GetResult(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Analysis not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to load analysis", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ListEvents returns cached events for a city within a date range
func (h *AnalysisHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		respondWithError(w, http.StatusBadRequest, "Missing city parameter", nil)
		return
	}
	if h.eventStore == nil {
		respondWithError(w, http.StatusNotFound, "Persistence is disabled", nil)
		return
	}

	from, err := parseDateParam(r.URL.Query().Get("from"), time.Now().UTC())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := parseDateParam(r.URL.Query().Get("to"), from.AddDate(0, 3, 0))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	events, err := h.eventStore.FindEvents(r.Context(), city, from, to)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load events", err)
		return
	}

	respondWithJSON(w, http.StatusOK, events)
}

func (r analysisRequest) toParams() (event.AnalysisParams, error) {
	parse := func(name, value string) (time.Time, error) {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return time.Time{}, errors.New("invalid " + name + ": expected YYYY-MM-DD")
		}
		return t, nil
	}

	startDate, err := parse("start_date", r.StartDate)
	if err != nil {
		return event.AnalysisParams{}, err
	}
	endDate, err := parse("end_date", r.EndDate)
	if err != nil {
		return event.AnalysisParams{}, err
	}
	rangeStart, err := parse("date_range_start", r.DateRangeStart)
	if err != nil {
		return event.AnalysisParams{}, err
	}
	rangeEnd, err := parse("date_range_end", r.DateRangeEnd)
	if err != nil {
		return event.AnalysisParams{}, err
	}

	return event.AnalysisParams{
		City:              r.City,
		Category:          r.Category,
		Subcategory:       r.Subcategory,
		ExpectedAttendees: r.ExpectedAttendees,
		StartDate:         startDate,
		EndDate:           endDate,
		DateRangeStart:    rangeStart,
		DateRangeEnd:      rangeEnd,
		Venue:             r.Venue,
		AdvancedAnalysis:  r.AdvancedAnalysis,
	}, nil
}

func parseDateParam(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", value)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		logger.Error("HTTP %d: %s: %v", code, message, err)
	}

	jsonResponse, _ := json.Marshal(map[string]string{"error": message})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
