package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Annotation.BaseURL == "" {
		return fmt.Errorf("annotation.base_url must not be empty")
	}
	if c.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url must not be empty")
	}
	if c.Enrichment.MaxMeanings <= 0 {
		return fmt.Errorf("enrichment.max_meanings must be > 0 (got %d)", c.Enrichment.MaxMeanings)
	}
	if err := c.Detector.validate(); err != nil {
		return fmt.Errorf("detector: %w", err)
	}
	return nil
}

func (d *DetectorConfig) validate() error {
	if d.SimilarityThreshold <= 0 || d.SimilarityThreshold >= 1 {
		return fmt.Errorf("similarity_threshold must be in (0, 1) (got %v)", d.SimilarityThreshold)
	}
	if d.WeakFitMax <= 0 || d.WeakFitMax > 1 {
		return fmt.Errorf("weak_fit_max must be in (0, 1] (got %v)", d.WeakFitMax)
	}
	if d.WeakFitMinSenses < 2 {
		return fmt.Errorf("weak_fit_min_senses must be >= 2 (got %d)", d.WeakFitMinSenses)
	}
	if d.ManySenses < 2 {
		return fmt.Errorf("many_senses must be >= 2 (got %d)", d.ManySenses)
	}
	if d.ManySensesSpread <= 0 {
		return fmt.Errorf("many_senses_spread must be > 0 (got %v)", d.ManySensesSpread)
	}
	if d.ContextWindow <= 0 {
		return fmt.Errorf("context_window must be > 0 (got %d)", d.ContextWindow)
	}
	if d.MaxParallelTokens <= 0 {
		return fmt.Errorf("max_parallel_tokens must be > 0 (got %d)", d.MaxParallelTokens)
	}
	return nil
}
