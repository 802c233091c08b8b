// Package embedding provides a client for an OpenAI-compatible embeddings
// endpoint serving the sentence-transformer model used for similarity scoring.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lexiguard/lexiguard-backend/internal/config"
	"github.com/lexiguard/lexiguard-backend/internal/domain"
)

const embeddingsEndpoint = "/embeddings"

// apiRequest is the request payload for the embeddings endpoint.
type apiRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// apiResponse is the response envelope from the embeddings endpoint.
type apiResponse struct {
	Data []embeddingData `json:"data"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// Client calls an OpenAI-compatible embeddings API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates an embeddings client from config. A zero timeout falls
// back to 30 seconds.
func NewClient(cfg config.EmbeddingConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "embedding"),
	}
}

// Embed returns the embedding vector for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one embedding vector per input text, in input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	body, err := json.Marshal(apiRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("embedding: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+embeddingsEndpoint,
		bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedding: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "embedding request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s",
				domain.ErrProviderUnavailable, resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("embedding: read response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrEmbeddingFailed, err)
	}

	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d inputs",
			domain.ErrEmbeddingFailed, len(parsed.Data), len(texts))
	}

	// The API guarantees index fields; order by them rather than
	// trusting array position.
	vectors := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("%w: vector index %d out of range", domain.ErrEmbeddingFailed, d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty vector at index %d", domain.ErrEmbeddingFailed, d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("%w: missing vector for input %d", domain.ErrEmbeddingFailed, i)
		}
	}

	c.log.DebugContext(ctx, "embedded batch",
		slog.Int("inputs", len(texts)),
		slog.Int("dim", len(vectors[0])),
	)

	return vectors, nil
}
