// Package rowordnet parses RoWordNet JSON exports into synset records.
// Pure function: file path in, domain structs out. No database dependencies.
//
// Expected file format (one object with a "synsets" array):
//
//	{"synsets": [{"id": "...", "pos": "n", "definition": "...",
//	              "nonlexicalized": false,
//	              "literals": [{"literal": "bancă", "sense": "1"}]}]}
package rowordnet

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lexiguard/lexiguard-backend/internal/domain"
)

// ParseResult holds parsed synsets and parser statistics.
type ParseResult struct {
	Synsets []domain.Synset
	Stats   Stats
}

// Stats holds parser statistics for logging.
type Stats struct {
	TotalSynsets   int
	TotalLiterals  int
	Nonlexicalized int
	EmptySynsets   int
	Duplicates     int
}

// JSON deserialization types.

type exportFile struct {
	Synsets []exportSynset `json:"synsets"`
}

type exportSynset struct {
	ID             string          `json:"id"`
	POS            string          `json:"pos"`
	Definition     string          `json:"definition"`
	Nonlexicalized bool            `json:"nonlexicalized"`
	Literals       []exportLiteral `json:"literals"`
}

type exportLiteral struct {
	Literal string `json:"literal"`
	Sense   string `json:"sense"`
}

// Parse reads a RoWordNet JSON export and extracts usable synsets.
// Nonlexicalized synsets and synsets without an id or any literal are
// counted and skipped; duplicate ids keep the first occurrence.
func Parse(path string) (ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("read export: %w", err)
	}

	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return ParseResult{}, fmt.Errorf("decode export: %w", err)
	}

	var result ParseResult
	seen := make(map[string]bool, len(export.Synsets))

	for _, raw := range export.Synsets {
		result.Stats.TotalSynsets++

		if raw.Nonlexicalized {
			result.Stats.Nonlexicalized++
			continue
		}
		if raw.ID == "" || len(raw.Literals) == 0 {
			result.Stats.EmptySynsets++
			continue
		}
		if seen[raw.ID] {
			result.Stats.Duplicates++
			continue
		}
		seen[raw.ID] = true

		literals := make([]string, 0, len(raw.Literals))
		for _, lit := range raw.Literals {
			text := strings.TrimSpace(lit.Literal)
			if text == "" {
				continue
			}
			literals = append(literals, strings.ToLower(text))
			result.Stats.TotalLiterals++
		}
		if len(literals) == 0 {
			result.Stats.EmptySynsets++
			continue
		}

		result.Synsets = append(result.Synsets, domain.Synset{
			ID:           raw.ID,
			PartOfSpeech: raw.POS,
			Definition:   strings.TrimSpace(raw.Definition),
			Literals:     literals,
		})
	}

	return result, nil
}
