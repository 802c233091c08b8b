//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/lexiguard/lexiguard-backend/internal/adapter/postgres"
	"github.com/lexiguard/lexiguard-backend/internal/adapter/postgres/synset"
	"github.com/lexiguard/lexiguard-backend/internal/adapter/postgres/testhelper"
	"github.com/lexiguard/lexiguard-backend/internal/adapter/provider/annotate"
	"github.com/lexiguard/lexiguard-backend/internal/adapter/provider/embedding"
	"github.com/lexiguard/lexiguard-backend/internal/config"
	"github.com/lexiguard/lexiguard-backend/internal/domain"
	"github.com/lexiguard/lexiguard-backend/internal/service/ambiguity"
	"github.com/lexiguard/lexiguard-backend/internal/service/enrichment"
	"github.com/lexiguard/lexiguard-backend/internal/service/recommend"
	"github.com/lexiguard/lexiguard-backend/internal/transport/middleware"
	"github.com/lexiguard/lexiguard-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// Fake annotation service (Teprolin wire format).
// ---------------------------------------------------------------------------

// fakeToken mirrors the annotation service's token object.
type fakeToken struct {
	WordForm string `json:"_wordform"`
	Category string `json:"_ctg"`
	NER      string `json:"_ner"`
}

// startFakeAnnotation serves /process and /operations the way Teprolin does,
// returning the same token list regardless of exec operation.
func startFakeAnnotation(t *testing.T, tokens []fakeToken) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /operations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /process", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		resp := map[string]any{
			"teprolin-result": map[string]any{
				"tokenized": [][]fakeToken{tokens},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// ---------------------------------------------------------------------------
// Fake embedding service (OpenAI-compatible /embeddings).
// ---------------------------------------------------------------------------

// startFakeEmbedding returns a vector per input, chosen by substring match
// against the keys of vectorsByKeyword; unmatched inputs get contextVector.
func startFakeEmbedding(t *testing.T, vectorsByKeyword map[string][]float32, contextVector []float32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		data := make([]map[string]any, len(req.Input))
		for i, text := range req.Input {
			vec := contextVector
			for keyword, v := range vectorsByKeyword {
				if strings.Contains(text, keyword) {
					vec = v
					break
				}
			}
			data[i] = map[string]any{"embedding": vec, "index": i}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper) and fake external providers.
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T, tokens []fakeToken, vectorsByKeyword map[string][]float32) *testServer {
	t.Helper()

	// 1. Get pool from testcontainers-backed helper.
	pool := testhelper.SetupTestDB(t)

	// 2. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	// 3. Repositories.
	senseRepo := synset.New(pool, txm)

	// 4. External providers behind fakes.
	annotationSrv := startFakeAnnotation(t, tokens)
	embeddingSrv := startFakeEmbedding(t, vectorsByKeyword, []float32{1, 0, 0})

	annotateClient := annotate.NewClientWithURL(annotationSrv.URL, logger)
	embedClient := embedding.NewClient(config.EmbeddingConfig{
		BaseURL: embeddingSrv.URL,
		Model:   "test-model",
	}, logger)

	// 5. Services. Enrichment runs disabled (no API key).
	detectorCfg := config.DetectorConfig{
		SimilarityThreshold: 0.15,
		WeakFitMax:          0.6,
		WeakFitMinSenses:    2,
		ManySenses:          5,
		ManySensesSpread:    0.1,
		ContextWindow:       5,
		MaxParallelTokens:   4,
	}
	detector := ambiguity.NewService(logger, senseRepo, embedClient, detectorCfg)
	recommender := recommend.NewService(logger, embedClient)
	enricher := enrichment.NewService(logger, config.EnrichmentConfig{MaxMeanings: 3})

	// 6. Handlers + middleware chain.
	analyzeHandler := rest.NewAnalyzeHandler(annotateClient, detector, recommender, enricher, logger)
	healthHandler := rest.NewHealthHandler(senseRepo, annotateClient, "test-version")
	mux := rest.NewRouter(analyzeHandler, healthHandler)

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
			MaxAge:         86400,
		}),
	)(mux)

	// 7. httptest server.
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
	}
}

// seedSynsets writes fixtures through the repository layer.
func (ts *testServer) seedSynsets(t *testing.T, synsets []domain.Synset) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	txm := postgres.NewTxManager(ts.Pool)
	repo := synset.New(ts.Pool, txm)
	require.NoError(t, repo.BulkUpsert(ctx, synsets))
}

// postAnalyze sends an analyze request and returns status + decoded body.
func (ts *testServer) postAnalyze(t *testing.T, payload map[string]any) (int, map[string]any) {
	t.Helper()

	jsonBody, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := ts.Client.Post(ts.URL+"/api/analyze", "application/json", bytes.NewReader(jsonBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// cleanSynsets removes all fixture rows so tests do not leak into each other.
func (ts *testServer) cleanSynsets(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := ts.Pool.Exec(ctx, "DELETE FROM synsets")
	require.NoError(t, err)
}
