package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/bookmood/internal/domain"
	"github.com/fjod/bookmood/internal/logger"
	"github.com/fjod/bookmood/internal/metrics"
	"github.com/fjod/bookmood/internal/mood"
)

const maxTrendDays = 366

type MoodHandler struct {
	store       *mood.Store
	recommender *mood.Recommender
	metrics     *metrics.Metrics
	log         *logger.Logger
	now         func() time.Time
}

func NewMoodHandler(store *mood.Store, rec *mood.Recommender, m *metrics.Metrics, log *logger.Logger) *MoodHandler {
	return &MoodHandler{
		store:       store,
		recommender: rec,
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

type RecordMoodRequestDTO struct {
	Mood int    `json:"mood"`
	Note string `json:"note"`
}

type MoodEntryDTO struct {
	domain.MoodEntry
	Label string `json:"label"`
}

type TrendDayDTO struct {
	domain.DayAverage
	Label string `json:"label,omitempty"`
}

// POST /api/v1/moods
func (h *MoodHandler) RecordMood(w http.ResponseWriter, r *http.Request) {
	var req RecordMoodRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	entry, err := h.store.Record(r.Context(), req.Mood, req.Note)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	h.metrics.MoodRecorded(entry.Mood)
	respondJSON(w, http.StatusCreated, MoodEntryDTO{MoodEntry: entry, Label: domain.MoodLabel(entry.Mood)})
}

// GET /api/v1/moods
func (h *MoodHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.store.History(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]MoodEntryDTO, len(history))
	for i, e := range history {
		out[i] = MoodEntryDTO{MoodEntry: e, Label: domain.MoodLabel(e.Mood)}
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /api/v1/moods/trend?days=7
func (h *MoodHandler) Trend(w http.ResponseWriter, r *http.Request) {
	days := mood.DefaultWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n > maxTrendDays {
			respondError(w, http.StatusBadRequest, "invalid_days", "days must be an integer up to 366")
			return
		}
		days = n
	}

	buckets, err := h.store.TrailingDailyAverages(r.Context(), days, h.now())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]TrendDayDTO, len(buckets))
	for i, b := range buckets {
		out[i] = TrendDayDTO{DayAverage: b}
		if b.HasData() {
			out[i].Label = domain.MoodLabel(domain.NearestMood(*b.Average))
		}
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /api/v1/recommendations
func (h *MoodHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.recommender.Recommend(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}
