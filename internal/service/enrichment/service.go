// Package enrichment adds LLM-generated explanations and usage examples to
// the top meanings of ambiguous words. Enrichment is optional: a missing API
// key disables it, and per-meaning failures degrade to placeholders rather
// than failing the request.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lexiguard/lexiguard-backend/internal/config"
	"github.com/lexiguard/lexiguard-backend/internal/domain"
)

const placeholderExplanation = "No explanation available"

// messenger is the subset of the Anthropic client the service calls.
type messenger interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Service enriches ambiguous word meanings via an LLM.
type Service struct {
	log      *slog.Logger
	messages messenger
	cfg      config.EnrichmentConfig
	enabled  bool
}

// NewService creates an enrichment service. When cfg.APIKey is empty the
// service is disabled and Enrich returns inputs unchanged.
func NewService(log *slog.Logger, cfg config.EnrichmentConfig) *Service {
	s := &Service{
		log:     log.With("service", "enrichment"),
		cfg:     cfg,
		enabled: cfg.APIKey != "",
	}
	if s.enabled {
		client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
		s.messages = &client.Messages
	}
	return s
}

// newServiceWithMessenger wires a custom messenger (used by tests).
func newServiceWithMessenger(log *slog.Logger, cfg config.EnrichmentConfig, m messenger) *Service {
	return &Service{
		log:      log.With("service", "enrichment"),
		messages: m,
		cfg:      cfg,
		enabled:  true,
	}
}

// Enabled reports whether enrichment is configured.
func (s *Service) Enabled() bool {
	return s.enabled
}

// Enrich attaches explanations and examples to the top meanings of each
// ambiguous word. Words are modified in place; an LLM failure for one
// meaning yields a placeholder enrichment for it.
func (s *Service) Enrich(ctx context.Context, text string, words []domain.AmbiguousWord) {
	if !s.enabled || len(words) == 0 {
		return
	}

	for i := range words {
		word := &words[i]
		if len(word.PotentialMeanings) == 0 {
			continue
		}

		for _, meaning := range s.topMeanings(word.PotentialMeanings) {
			enrichment, err := s.enrichMeaning(ctx, text, word.Word, meaning)
			if err != nil {
				s.log.WarnContext(ctx, "meaning enrichment failed",
					slog.String("word", word.Word),
					slog.String("sense_id", meaning.ID),
					slog.String("error", err.Error()),
				)
				enrichment = domain.Enrichment{Explanation: placeholderExplanation}
			}
			word.Enrichments = append(word.Enrichments, domain.MeaningEnrichment{
				SenseID:    meaning.ID,
				Enrichment: enrichment,
			})
		}
	}
}

// topMeanings returns up to cfg.MaxMeanings meanings ranked by confidence.
func (s *Service) topMeanings(meanings []domain.Meaning) []domain.Meaning {
	ranked := make([]domain.Meaning, len(meanings))
	copy(ranked, meanings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	if len(ranked) > s.cfg.MaxMeanings {
		ranked = ranked[:s.cfg.MaxMeanings]
	}
	return ranked
}

// llmEnrichment is the strict JSON schema the model is asked to return.
type llmEnrichment struct {
	Explanation string   `json:"explanation"`
	Examples    []string `json:"examples"`
}

func (s *Service) enrichMeaning(ctx context.Context, text, word string, meaning domain.Meaning) (domain.Enrichment, error) {
	prompt := buildPrompt(text, word, meaning)

	msg, err := s.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.cfg.Model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("llm call for %q: %w", word, err)
	}

	if len(msg.Content) == 0 {
		return domain.Enrichment{}, fmt.Errorf("empty response for %q", word)
	}

	jsonStr, err := extractJSON(msg.Content[0].Text)
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("extract json for %q: %w", word, err)
	}

	var parsed llmEnrichment
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return domain.Enrichment{}, fmt.Errorf("decode llm json for %q: %w", word, err)
	}
	if parsed.Explanation == "" {
		return domain.Enrichment{}, fmt.Errorf("llm response for %q has no explanation", word)
	}

	return domain.Enrichment{
		Explanation: parsed.Explanation,
		Examples:    parsed.Examples,
	}, nil
}

// buildPrompt creates the LLM prompt for one meaning of an ambiguous word.
func buildPrompt(text, word string, meaning domain.Meaning) string {
	return fmt.Sprintf(`You are a Romanian lexicographer helping readers disambiguate words.

The word "%s" appears in this text:
%s

One of its candidate meanings is:
Definition: %s
Synonyms: %v

Output ONLY a valid JSON object matching this exact schema:
{
  "explanation": "<one short paragraph, in Romanian, explaining when this meaning applies>",
  "examples": ["<Romanian example sentence 1>", "<Romanian example sentence 2>"]
}

Rules:
- Write the explanation for a general audience, not linguists
- Provide 1-3 natural example sentences using the word in this meaning
- Output ONLY the JSON, no markdown, no explanations`, word, text, meaning.Definition, meaning.Synonyms)
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
