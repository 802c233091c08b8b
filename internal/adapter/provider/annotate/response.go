package annotate

// apiResponse is the envelope returned by the Teprolin /process endpoint.
type apiResponse struct {
	Result apiResult `json:"teprolin-result"`
}

// apiResult holds the tokenized sentences. Tokens are grouped per sentence.
type apiResult struct {
	Tokenized [][]apiToken `json:"tokenized"`
}

// apiToken is a single annotated token. Which fields are populated depends
// on the exec operation requested (_ctg for pos-tagging, _ner for NER).
type apiToken struct {
	WordForm string `json:"_wordform"`
	Category string `json:"_ctg"`
	NER      string `json:"_ner"`
}
