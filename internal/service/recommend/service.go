// Package recommend turns detected ambiguous words into disambiguation
// advice: for each word, the top-ranked meanings with synonym suggestions.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lexiguard/lexiguard-backend/internal/domain"
	"github.com/lexiguard/lexiguard-backend/internal/similarity"
)

const (
	maxOptions         = 3
	noDefinitionText   = "No definition available"
	noSynonymsText     = "No direct synonyms available"
	recommendationText = "The word '%s' is ambiguous. Consider using a more specific synonym based on the intended meaning:"
)

type embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service builds disambiguation recommendations.
type Service struct {
	log      *slog.Logger
	embedder embedder
}

// NewService creates a new recommendation service.
func NewService(log *slog.Logger, embedder embedder) *Service {
	return &Service{
		log:      log.With("service", "recommend"),
		embedder: embedder,
	}
}

// Recommendations builds one recommendation per ambiguous word with at least
// two potential meanings, keeping the top three meanings by confidence.
func (s *Service) Recommendations(words []domain.AmbiguousWord) []domain.Recommendation {
	recommendations := []domain.Recommendation{}

	for _, word := range words {
		if len(word.PotentialMeanings) <= 1 {
			continue
		}

		ranked := make([]domain.Meaning, len(word.PotentialMeanings))
		copy(ranked, word.PotentialMeanings)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Confidence > ranked[j].Confidence
		})
		if len(ranked) > maxOptions {
			ranked = ranked[:maxOptions]
		}

		rec := domain.Recommendation{
			Word:           word.Word,
			PartOfSpeech:   word.PartOfSpeech,
			Recommendation: fmt.Sprintf(recommendationText, word.Word),
			Options:        make([]domain.RecommendationOption, 0, len(ranked)),
		}

		for _, meaning := range ranked {
			rec.Options = append(rec.Options, buildOption(word.Word, meaning))
		}

		recommendations = append(recommendations, rec)
	}

	s.log.Debug("built recommendations", slog.Int("count", len(recommendations)))

	return recommendations
}

// buildOption maps a meaning to an option, excluding the ambiguous word
// itself from the synonym suggestions.
func buildOption(word string, meaning domain.Meaning) domain.RecommendationOption {
	definition := meaning.Definition
	if definition == "" {
		definition = noDefinitionText
	}

	synonyms := make([]string, 0, len(meaning.Synonyms))
	for _, syn := range meaning.Synonyms {
		if !strings.EqualFold(syn, word) {
			synonyms = append(synonyms, syn)
		}
	}
	if len(synonyms) == 0 {
		synonyms = []string{noSynonymsText}
	}

	return domain.RecommendationOption{
		Meaning:  definition,
		Synonyms: synonyms,
	}
}

// SelectBestMeaning re-ranks a word's meanings against an arbitrary context
// string and returns the closest one. Falls back to the first meaning when
// no definition can be scored.
func (s *Service) SelectBestMeaning(ctx context.Context, word domain.AmbiguousWord, contextText string) (*domain.Meaning, error) {
	if len(word.PotentialMeanings) == 0 {
		return nil, fmt.Errorf("word %q: %w", word.Word, domain.ErrNotFound)
	}

	contextVec, err := s.embedder.Embed(ctx, contextText)
	if err != nil {
		return nil, err
	}

	bestSim := -1.0
	var best *domain.Meaning

	for i := range word.PotentialMeanings {
		meaning := &word.PotentialMeanings[i]

		text := meaning.Definition
		if text == "" {
			text = strings.Join(meaning.Synonyms, " ")
		}
		if text == "" {
			continue
		}

		defVec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return nil, err
		}

		sim, err := similarity.Cosine(contextVec, defVec)
		if err != nil {
			return nil, err
		}

		if sim > bestSim {
			bestSim = sim
			best = meaning
		}
	}

	if best == nil {
		best = &word.PotentialMeanings[0]
	}

	s.log.DebugContext(ctx, "selected best meaning",
		slog.String("word", word.Word),
		slog.String("meaning", best.ID),
		slog.Float64("similarity", bestSim),
	)

	return best, nil
}
