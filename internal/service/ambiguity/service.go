// Package ambiguity implements lexical ambiguity detection: for each content
// word in an annotated text, the similarity between the word's context and
// each candidate sense definition decides whether the word is ambiguous.
package ambiguity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/lexiguard/lexiguard-backend/internal/config"
	"github.com/lexiguard/lexiguard-backend/internal/domain"
	"github.com/lexiguard/lexiguard-backend/internal/similarity"
)

type senseInventory interface {
	CandidateSenseIDs(ctx context.Context, literal string) ([]string, error)
	SenseInfo(ctx context.Context, id string) (*domain.Synset, error)
}

type embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Service detects ambiguous words in annotated text.
type Service struct {
	log      *slog.Logger
	senses   senseInventory
	embedder embedder
	cfg      config.DetectorConfig
}

// NewService creates a new ambiguity detection service.
func NewService(log *slog.Logger, senses senseInventory, embedder embedder, cfg config.DetectorConfig) *Service {
	// errgroup.SetLimit(0) never admits a worker.
	if cfg.MaxParallelTokens <= 0 {
		cfg.MaxParallelTokens = 1
	}
	return &Service{
		log:      log.With("service", "ambiguity"),
		senses:   senses,
		embedder: embedder,
		cfg:      cfg,
	}
}

// Detect finds ambiguous words in the annotation. Tokens are scored
// independently and in parallel; a provider failure on one token skips that
// token only. Results preserve token order.
func (s *Service) Detect(ctx context.Context, ann domain.Annotation) ([]domain.AmbiguousWord, error) {
	if len(ann.Tokens) == 0 {
		return nil, domain.NewValidationError("text", "no tokens to analyze")
	}

	s.log.DebugContext(ctx, "detecting ambiguities", slog.Int("tokens", len(ann.Tokens)))

	posMap := buildPOSMap(ann.POSTags)
	entities := buildEntitySet(ann.Entities)

	results := make([]*domain.AmbiguousWord, len(ann.Tokens))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxParallelTokens)

	for i, token := range ann.Tokens {
		g.Go(func() error {
			word, err := s.analyzeToken(gCtx, ann.Tokens, i, token, posMap, entities)
			if err != nil {
				// One token's failure must not abort the rest.
				s.log.WarnContext(gCtx, "token analysis skipped",
					slog.String("token", token),
					slog.Int("position", i),
					slog.String("error", err.Error()),
				)
				return nil
			}
			results[i] = word
			return nil
		})
	}

	// Workers never return errors, so Wait only propagates ctx cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	words := []domain.AmbiguousWord{}
	for _, w := range results {
		if w != nil {
			words = append(words, *w)
		}
	}

	s.log.InfoContext(ctx, "ambiguity detection complete",
		slog.Int("tokens", len(ann.Tokens)),
		slog.Int("ambiguous", len(words)),
	)

	return words, nil
}

// analyzeToken scores a single token. Returns (nil, nil) when the token is
// skipped: named entities, non-content words, and words with fewer than two
// usable candidate senses.
func (s *Service) analyzeToken(
	ctx context.Context,
	tokens []string,
	index int,
	token string,
	posMap map[string]string,
	entities map[string]struct{},
) (*domain.AmbiguousWord, error) {
	if _, isEntity := entities[strings.ToLower(token)]; isEntity {
		return nil, nil
	}

	pos := lookupPOS(token, posMap)
	if !domain.IsContentWord(pos) {
		return nil, nil
	}

	candidateIDs, err := s.senses.CandidateSenseIDs(ctx, strings.ToLower(token))
	if err != nil {
		return nil, err
	}
	if len(candidateIDs) <= 1 {
		return nil, nil
	}

	// The decision rule counts every retrieved candidate, including ones
	// later dropped for missing definitions.
	senseCount := len(candidateIDs)

	synsets := make([]*domain.Synset, 0, len(candidateIDs))
	definitions := make([]string, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		synset, err := s.senses.SenseInfo(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		text := synset.DefinitionText()
		if text == "" {
			continue
		}
		synsets = append(synsets, synset)
		definitions = append(definitions, text)
	}
	if len(definitions) <= 1 {
		return nil, nil
	}

	definitionVecs, err := s.embedder.EmbedBatch(ctx, definitions)
	if err != nil {
		return nil, err
	}

	contextVec, err := s.embedder.Embed(ctx, contextWindow(tokens, index, s.cfg.ContextWindow))
	if err != nil {
		return nil, err
	}
	contextVec = similarity.Normalize(contextVec)

	sims, err := similarity.Similarities(contextVec, definitionVecs)
	if err != nil {
		return nil, err
	}

	stats := similarity.Statistics(sims)

	s.log.DebugContext(ctx, "token scored",
		slog.String("token", token),
		slog.Int("senses", senseCount),
		slog.Float64("max", stats.Max),
		slog.Float64("spread", stats.Spread),
		slog.Float64("dispersion", stats.Dispersion),
	)

	if !s.isAmbiguous(sims, senseCount, stats) {
		return nil, nil
	}

	meanings := make([]domain.Meaning, len(synsets))
	bestIdx := 0
	for i, synset := range synsets {
		meanings[i] = domain.Meaning{
			ID:           synset.ID,
			Definition:   synset.Definition,
			PartOfSpeech: synset.PartOfSpeech,
			Synonyms:     synset.Literals,
			Confidence:   sims[i],
		}
		if sims[i] > sims[bestIdx] {
			bestIdx = i
		}
	}

	best := meanings[bestIdx]

	return &domain.AmbiguousWord{
		Word:              token,
		PartOfSpeech:      pos,
		Position:          index,
		PotentialMeanings: meanings,
		BestMeaning:       &best,
		AmbiguityScore:    stats.Spread,
	}, nil
}

// isAmbiguous applies the decision rule over the similarity statistics.
func (s *Service) isAmbiguous(sims []float64, senseCount int, stats similarity.Stats) bool {
	if len(sims) <= 1 {
		return false
	}
	return stats.Spread > s.cfg.SimilarityThreshold ||
		stats.Dispersion > s.cfg.SimilarityThreshold ||
		(stats.Max < s.cfg.WeakFitMax && senseCount > s.cfg.WeakFitMinSenses) ||
		(senseCount > s.cfg.ManySenses && stats.Spread > s.cfg.ManySensesSpread)
}

// contextWindow joins the tokens around index into a context string.
func contextWindow(tokens []string, index, window int) string {
	start := max(0, index-window)
	end := min(len(tokens), index+window+1)
	return strings.Join(tokens[start:end], " ")
}

func buildPOSMap(tags []domain.POSTag) map[string]string {
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t.Word] = t.Tag
	}
	return m
}

func buildEntitySet(entities []domain.EntitySpan) map[string]struct{} {
	set := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		set[strings.ToLower(e.Text)] = struct{}{}
	}
	return set
}

// lookupPOS finds the POS tag for a token, tolerating case differences
// between the tokenizer and the tagger output.
func lookupPOS(token string, posMap map[string]string) string {
	if pos, ok := posMap[token]; ok {
		return pos
	}
	if pos, ok := posMap[strings.ToLower(token)]; ok {
		return pos
	}
	if pos, ok := posMap[capitalize(token)]; ok {
		return pos
	}
	return ""
}

// capitalize upper-cases the first rune and lower-cases the rest. Romanian
// tokens start with multi-byte runes ("î", "ș"), so byte slicing is not safe.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
