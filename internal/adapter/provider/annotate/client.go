// Package annotate provides a client for the Teprolin NLP service, which
// supplies tokenization, part-of-speech tagging, and named-entity
// recognition for Romanian text.
package annotate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lexiguard/lexiguard-backend/internal/config"
	"github.com/lexiguard/lexiguard-backend/internal/domain"
)

const (
	defaultBaseURL = "http://localhost:5000"
	defaultTimeout = 30 * time.Second
)

// Client calls the Teprolin /process endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from config. Zero values fall back to the
// default Teprolin URL and timeout.
func NewClient(cfg config.AnnotationConfig, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "teprolin"),
	}
}

// NewClientWithURL creates a Client with a custom base URL and the default
// timeout.
func NewClientWithURL(baseURL string, logger *slog.Logger) *Client {
	return NewClient(config.AnnotationConfig{BaseURL: baseURL}, logger)
}

// Status describes the outcome of a service availability probe.
type Status struct {
	Available bool    `json:"available"`
	URL       string  `json:"url"`
	LatencyMS float64 `json:"response_time_ms"`
	Error     string  `json:"error,omitempty"`
}

// Analyze runs the full annotation pipeline over the text: tokenization,
// POS tagging, and named-entity recognition. Teprolin exposes these as
// separate exec operations, so three requests are issued.
func (c *Client) Analyze(ctx context.Context, text string) (*domain.Annotation, error) {
	c.log.DebugContext(ctx, "teprolin analyze", slog.Int("text_len", len(text)))

	tokens, err := c.process(ctx, text, "tokenization")
	if err != nil {
		return nil, fmt.Errorf("teprolin: tokenization: %w", err)
	}

	tagged, err := c.process(ctx, text, "pos-tagging")
	if err != nil {
		return nil, fmt.Errorf("teprolin: pos-tagging: %w", err)
	}

	nerTokens, err := c.process(ctx, text, "named-entity-recognition")
	if err != nil {
		return nil, fmt.Errorf("teprolin: named-entity-recognition: %w", err)
	}

	ann := &domain.Annotation{
		Tokens:   make([]string, 0, len(tokens)),
		POSTags:  make([]domain.POSTag, 0, len(tagged)),
		Entities: []domain.EntitySpan{},
	}

	for _, tok := range tokens {
		if tok.WordForm != "" {
			ann.Tokens = append(ann.Tokens, tok.WordForm)
		}
	}
	for _, tok := range tagged {
		ann.POSTags = append(ann.POSTags, domain.POSTag{Word: tok.WordForm, Tag: tok.Category})
	}
	for _, tok := range nerTokens {
		// "O" marks tokens outside any entity span.
		if tok.NER != "" && tok.NER != "O" {
			ann.Entities = append(ann.Entities, domain.EntitySpan{Text: tok.WordForm, Label: tok.NER})
		}
	}

	c.log.DebugContext(ctx, "teprolin analyzed",
		slog.Int("tokens", len(ann.Tokens)),
		slog.Int("pos_tags", len(ann.POSTags)),
		slog.Int("entities", len(ann.Entities)),
	)

	return ann, nil
}

// process issues a single /process request for one exec operation and
// returns the flattened token stream.
func (c *Client) process(ctx context.Context, text, exec string) ([]apiToken, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("exec", exec)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.doWithRetry(ctx, req, exec, form)
	if err != nil {
		c.log.ErrorContext(ctx, "teprolin request failed",
			slog.String("exec", exec), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	var flat []apiToken
	for _, sentence := range parsed.Result.Tokenized {
		flat = append(flat, sentence...)
	}
	return flat, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
// The request body is rebuilt for the second attempt.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, exec string, form url.Values) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "teprolin retry", slog.String("exec", exec), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	retryReq, rErr := http.NewRequestWithContext(ctx, http.MethodPost, req.URL.String(),
		strings.NewReader(form.Encode()))
	if rErr != nil {
		return nil, rErr
	}
	retryReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.httpClient.Do(retryReq)
}

// CheckService probes the Teprolin /operations endpoint and reports
// availability and latency. Never returns an error: failures are captured
// in the Status so health checks can report them.
func (c *Client) CheckService(ctx context.Context) Status {
	status := Status{URL: c.baseURL}

	reqCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/operations", nil)
	if err != nil {
		status.Error = err.Error()
		return status
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	status.LatencyMS = float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		status.Error = fmt.Sprintf("connection error: %v", err)
		c.log.ErrorContext(ctx, "teprolin unreachable", slog.String("error", err.Error()))
		return status
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		status.Error = fmt.Sprintf("service returned status code %d", resp.StatusCode)
		c.log.WarnContext(ctx, "teprolin status check failed", slog.Int("status", resp.StatusCode))
		return status
	}

	status.Available = true
	return status
}
