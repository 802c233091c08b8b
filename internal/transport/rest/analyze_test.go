package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lexiguard/lexiguard-backend/internal/domain"
)

type annotatorMock struct {
	AnalyzeFunc func(ctx context.Context, text string) (*domain.Annotation, error)
}

func (m *annotatorMock) Analyze(ctx context.Context, text string) (*domain.Annotation, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, text)
	}
	return &domain.Annotation{Tokens: strings.Fields(text)}, nil
}

type detectorMock struct {
	DetectFunc func(ctx context.Context, ann domain.Annotation) ([]domain.AmbiguousWord, error)
}

func (m *detectorMock) Detect(ctx context.Context, ann domain.Annotation) ([]domain.AmbiguousWord, error) {
	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, ann)
	}
	return []domain.AmbiguousWord{}, nil
}

type recommenderMock struct {
	RecommendationsFunc func(words []domain.AmbiguousWord) []domain.Recommendation
}

func (m *recommenderMock) Recommendations(words []domain.AmbiguousWord) []domain.Recommendation {
	if m.RecommendationsFunc != nil {
		return m.RecommendationsFunc(words)
	}
	return []domain.Recommendation{}
}

type enricherMock struct {
	enabled    bool
	EnrichFunc func(ctx context.Context, text string, words []domain.AmbiguousWord)
}

func (m *enricherMock) Enabled() bool { return m.enabled }

func (m *enricherMock) Enrich(ctx context.Context, text string, words []domain.AmbiguousWord) {
	if m.EnrichFunc != nil {
		m.EnrichFunc(ctx, text, words)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(a annotator, d detector, r recommender, e enricher) *AnalyzeHandler {
	if a == nil {
		a = &annotatorMock{}
	}
	if d == nil {
		d = &detectorMock{}
	}
	if r == nil {
		r = &recommenderMock{}
	}
	if e == nil {
		e = &enricherMock{}
	}
	return NewAnalyzeHandler(a, d, r, e, testLogger())
}

func postAnalyze(t *testing.T, h *AnalyzeHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	return rec
}

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()

	word := domain.AmbiguousWord{
		Word:     "bancă",
		Position: 0,
		PotentialMeanings: []domain.Meaning{
			{ID: "s1", Definition: "a financial institution", Confidence: 0.85},
			{ID: "s2", Definition: "a long seat", Confidence: 0.10},
		},
		AmbiguityScore: 0.75,
	}

	d := &detectorMock{
		DetectFunc: func(ctx context.Context, ann domain.Annotation) ([]domain.AmbiguousWord, error) {
			return []domain.AmbiguousWord{word}, nil
		},
	}
	r := &recommenderMock{
		RecommendationsFunc: func(words []domain.AmbiguousWord) []domain.Recommendation {
			return []domain.Recommendation{{Word: "bancă"}}
		},
	}

	rec := postAnalyze(t, newHandler(nil, d, r, nil), `{"text": "Banca a refuzat împrumutul"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Text != "Banca a refuzat împrumutul" {
		t.Errorf("Text = %q, want original text", resp.Text)
	}
	if len(resp.AmbiguousWords) != 1 || resp.AmbiguousWords[0].Word != "bancă" {
		t.Errorf("AmbiguousWords = %+v, want one entry for bancă", resp.AmbiguousWords)
	}
	if len(resp.Recommendations) != 1 {
		t.Errorf("len(Recommendations) = %d, want 1", len(resp.Recommendations))
	}
	if resp.ProcessingTime < 0 {
		t.Errorf("ProcessingTime = %v, want >= 0", resp.ProcessingTime)
	}
	if len(resp.Analysis.Tokens) == 0 {
		t.Error("expected analysis tokens in response")
	}
}

func TestAnalyze_EmptyText(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"text": ""}`, `{"text": "   "}`, `{}`} {
		rec := postAnalyze(t, newHandler(nil, nil, nil, nil), body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("body %s: expected status 422, got %d", body, rec.Code)
		}
	}
}

func TestAnalyze_InvalidJSON(t *testing.T) {
	t.Parallel()

	rec := postAnalyze(t, newHandler(nil, nil, nil, nil), `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAnalyze_AnnotationServiceDown(t *testing.T) {
	t.Parallel()

	a := &annotatorMock{
		AnalyzeFunc: func(ctx context.Context, text string) (*domain.Annotation, error) {
			return nil, domain.ErrProviderUnavailable
		},
	}

	rec := postAnalyze(t, newHandler(a, nil, nil, nil), `{"text": "ceva"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestAnalyze_EnrichmentOnlyWhenRequested(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		enabled    bool
		wantEnrich bool
	}{
		{"requested and enabled", `{"text": "x", "options": {"enrich": true}}`, true, true},
		{"requested but disabled", `{"text": "x", "options": {"enrich": true}}`, false, false},
		{"not requested", `{"text": "x"}`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			e := &enricherMock{
				enabled: tt.enabled,
				EnrichFunc: func(ctx context.Context, text string, words []domain.AmbiguousWord) {
					called = true
				},
			}

			rec := postAnalyze(t, newHandler(nil, nil, nil, e), tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			if called != tt.wantEnrich {
				t.Errorf("enrich called = %v, want %v", called, tt.wantEnrich)
			}
		})
	}
}

func TestRoot(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	Root(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "active" {
		t.Errorf("status = %q, want 'active'", resp["status"])
	}
}
