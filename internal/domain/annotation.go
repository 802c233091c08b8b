package domain

import "strings"

// POSTag pairs a surface word-form with its coarse part-of-speech tag as
// returned by the annotation service. Pairs correspond to tokens by surface
// form, not by position.
type POSTag struct {
	Word string `json:"word"`
	Tag  string `json:"tag"`
}

// EntitySpan is a named-entity span recognized in the input text. Tokens
// matching a span's text (case-insensitively) are excluded from ambiguity
// analysis.
type EntitySpan struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Annotation holds the linguistic preprocessing output for one sentence:
// tokens in order, POS pairs, and named-entity spans.
type Annotation struct {
	Tokens   []string     `json:"tokens"`
	POSTags  []POSTag     `json:"pos_tags"`
	Entities []EntitySpan `json:"ner"`
}

// contentWordPrefixes are the POS categories eligible for ambiguity analysis.
var contentWordPrefixes = []string{"NOUN", "VERB", "ADJ", "ADV"}

// IsContentWord reports whether the given POS tag denotes a content word
// (noun, verb, adjective or adverb). Tags are matched by prefix so that
// fine-grained variants like "VERB:Fin" still qualify.
func IsContentWord(pos string) bool {
	for _, prefix := range contentWordPrefixes {
		if strings.HasPrefix(pos, prefix) {
			return true
		}
	}
	return false
}
