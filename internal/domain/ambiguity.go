package domain

// Meaning is a candidate sense of a token scored against its context.
// Confidence is the cosine similarity between the token's context embedding
// and this meaning's definition embedding.
type Meaning struct {
	ID           string   `json:"id"`
	Definition   string   `json:"definition"`
	PartOfSpeech string   `json:"pos"`
	Synonyms     []string `json:"synonyms"`
	Confidence   float64  `json:"confidence"`
}

// MeaningEnrichment carries LLM-generated explanation and examples for one
// meaning, keyed by its sense id.
type MeaningEnrichment struct {
	SenseID    string     `json:"id"`
	Enrichment Enrichment `json:"enrichment"`
}

// Enrichment is the generated human-facing material for a meaning.
type Enrichment struct {
	Explanation string   `json:"explanation"`
	Examples    []string `json:"examples"`
}

// AmbiguousWord is a token flagged as plausibly carrying more than one sense
// in context. PotentialMeanings has at least two elements by construction;
// BestMeaning is always one of them. AmbiguityScore is the spread
// (max − min confidence) across the meanings.
type AmbiguousWord struct {
	Word              string              `json:"word"`
	PartOfSpeech      string              `json:"pos"`
	Position          int                 `json:"position"`
	PotentialMeanings []Meaning           `json:"potential_meanings"`
	BestMeaning       *Meaning            `json:"best_meaning"`
	AmbiguityScore    float64             `json:"ambiguity_score"`
	Enrichments       []MeaningEnrichment `json:"meaning_enrichments,omitempty"`
}

// RecommendationOption is one disambiguation alternative: a meaning's
// definition text and the synonyms that could replace the ambiguous word.
type RecommendationOption struct {
	Meaning  string   `json:"meaning"`
	Synonyms []string `json:"synonyms"`
}

// Recommendation is the human-facing advisory for one ambiguous word, with
// at most three options ordered by descending meaning confidence.
type Recommendation struct {
	Word           string                 `json:"word"`
	PartOfSpeech   string                 `json:"pos"`
	Recommendation string                 `json:"recommendation"`
	Options        []RecommendationOption `json:"options"`
}
