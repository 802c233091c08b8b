package domain

import "strings"

// Synset is one sense record from the external sense inventory. The core
// treats it as immutable read-only data fetched per lookup.
type Synset struct {
	ID           string   `json:"id"`
	Definition   string   `json:"definition"`
	PartOfSpeech string   `json:"pos"`
	Literals     []string `json:"literals"`
}

// DefinitionText returns the text used to embed this sense: the definition,
// or the space-joined literals when the definition is empty. An empty string
// means the sense carries no embeddable text at all and must be dropped from
// scoring.
func (s Synset) DefinitionText() string {
	if s.Definition != "" {
		return s.Definition
	}
	return strings.Join(s.Literals, " ")
}
