package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lexiguard/lexiguard-backend/internal/domain"
)

// annotator runs the linguistic preprocessing pipeline.
type annotator interface {
	Analyze(ctx context.Context, text string) (*domain.Annotation, error)
}

// detector finds ambiguous words in annotated text.
type detector interface {
	Detect(ctx context.Context, ann domain.Annotation) ([]domain.AmbiguousWord, error)
}

// recommender builds disambiguation advice.
type recommender interface {
	Recommendations(words []domain.AmbiguousWord) []domain.Recommendation
}

// enricher optionally augments meanings with LLM-generated material.
type enricher interface {
	Enabled() bool
	Enrich(ctx context.Context, text string, words []domain.AmbiguousWord)
}

// AnalyzeHandler serves the text analysis endpoint.
type AnalyzeHandler struct {
	annotator   annotator
	detector    detector
	recommender recommender
	enricher    enricher
	log         *slog.Logger
}

// NewAnalyzeHandler creates an AnalyzeHandler.
func NewAnalyzeHandler(a annotator, d detector, r recommender, e enricher, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		annotator:   a,
		detector:    d,
		recommender: r,
		enricher:    e,
		log:         logger.With("handler", "analyze"),
	}
}

type analyzeRequest struct {
	Text    string `json:"text"`
	Options struct {
		Enrich bool `json:"enrich"`
	} `json:"options"`
}

type analyzeResponse struct {
	Text            string                  `json:"text"`
	Analysis        domain.Annotation       `json:"analysis"`
	AmbiguousWords  []domain.AmbiguousWord  `json:"ambiguous_words"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	ProcessingTime  float64                 `json:"processing_time"`
}

// Analyze handles POST /api/analyze: annotate the text, detect ambiguous
// words, and build recommendations. Enrichment runs only when requested and
// configured.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusUnprocessableEntity, "text must not be empty")
		return
	}

	ctx := r.Context()

	annotation, err := h.annotator.Analyze(ctx, req.Text)
	if err != nil {
		h.log.ErrorContext(ctx, "annotation failed", slog.String("error", err.Error()))
		if errors.Is(err, domain.ErrProviderUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "annotation service is unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to analyze text")
		return
	}

	words, err := h.detector.Detect(ctx, *annotation)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.log.ErrorContext(ctx, "detection failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to analyze text")
		return
	}

	recommendations := h.recommender.Recommendations(words)

	if req.Options.Enrich && h.enricher.Enabled() {
		h.enricher.Enrich(ctx, req.Text, words)
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Text:            req.Text,
		Analysis:        *annotation,
		AmbiguousWords:  words,
		Recommendations: recommendations,
		ProcessingTime:  time.Since(start).Seconds(),
	})
}

// Root handles GET /: a service banner.
func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "active",
		"message": "lexical ambiguity analysis API is running",
	})
}
