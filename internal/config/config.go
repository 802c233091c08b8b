package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Annotation AnnotationConfig `yaml:"annotation"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Detector   DetectorConfig   `yaml:"detector"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string        `yaml:"host"                  env:"SERVER_HOST"                  env-default:"0.0.0.0"`
	Port               int           `yaml:"port"                  env:"SERVER_PORT"                  env-default:"8080"`
	ReadTimeout        time.Duration `yaml:"read_timeout"          env:"SERVER_READ_TIMEOUT"          env-default:"10s"`
	WriteTimeout       time.Duration `yaml:"write_timeout"         env:"SERVER_WRITE_TIMEOUT"         env-default:"60s"`
	IdleTimeout        time.Duration `yaml:"idle_timeout"          env:"SERVER_IDLE_TIMEOUT"          env-default:"60s"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"      env:"SERVER_SHUTDOWN_TIMEOUT"      env-default:"10s"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings for the sense inventory.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AnnotationConfig holds settings for the remote linguistic annotation
// service (tokenization, POS tagging, NER).
type AnnotationConfig struct {
	BaseURL string        `yaml:"base_url" env:"ANNOTATION_URL"     env-default:"http://localhost:5000"`
	Timeout time.Duration `yaml:"timeout"  env:"ANNOTATION_TIMEOUT" env-default:"30s"`
}

// EmbeddingConfig holds settings for the embedding service.
type EmbeddingConfig struct {
	BaseURL string        `yaml:"base_url" env:"EMBEDDING_URL"     env-default:"http://localhost:8090/v1"`
	APIKey  string        `yaml:"api_key"  env:"EMBEDDING_API_KEY"`
	Model   string        `yaml:"model"    env:"EMBEDDING_MODEL"   env-default:"bert-base-romanian-uncased-v1"`
	Timeout time.Duration `yaml:"timeout"  env:"EMBEDDING_TIMEOUT" env-default:"30s"`
}

// EnrichmentConfig holds LLM enrichment settings. Enrichment is disabled
// when APIKey is empty.
type EnrichmentConfig struct {
	APIKey      string `yaml:"api_key"      env:"ENRICHMENT_API_KEY"`
	Model       string `yaml:"model"        env:"ENRICHMENT_MODEL"        env-default:"claude-sonnet-4-5"`
	MaxMeanings int    `yaml:"max_meanings" env:"ENRICHMENT_MAX_MEANINGS" env-default:"3"`
}

// DetectorConfig holds the tunable constants of the ambiguity decision rule.
// The defaults are empirically calibrated; change them only together with the
// dispersion definition in the similarity package.
type DetectorConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" env:"DETECTOR_SIMILARITY_THRESHOLD" env-default:"0.15"`
	WeakFitMax          float64 `yaml:"weak_fit_max"         env:"DETECTOR_WEAK_FIT_MAX"         env-default:"0.6"`
	WeakFitMinSenses    int     `yaml:"weak_fit_min_senses"  env:"DETECTOR_WEAK_FIT_MIN_SENSES"  env-default:"2"`
	ManySenses          int     `yaml:"many_senses"          env:"DETECTOR_MANY_SENSES"          env-default:"5"`
	ManySensesSpread    float64 `yaml:"many_senses_spread"   env:"DETECTOR_MANY_SENSES_SPREAD"   env-default:"0.1"`
	ContextWindow       int     `yaml:"context_window"       env:"DETECTOR_CONTEXT_WINDOW"       env-default:"5"`
	MaxParallelTokens   int     `yaml:"max_parallel_tokens"  env:"DETECTOR_MAX_PARALLEL_TOKENS"  env-default:"4"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
