// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig        `mapstructure:"app"`
	Camunda      CamundaConfig    `mapstructure:"camunda"`
	Redis        RedisConfig      `mapstructure:"redis"`
	Dictionary   DictionaryConfig `mapstructure:"dictionary"`
	Normalize    NormalizeConfig  `mapstructure:"normalize"`
	Embedding    EmbeddingConfig  `mapstructure:"embedding"`
	GenAI        GenAIConfig      `mapstructure:"genai"`
	Scoring      ScoringConfig    `mapstructure:"scoring"`
	Ranking      RankingConfig    `mapstructure:"ranking"`
	Logging      LoggingConfig    `mapstructure:"logging"`
	MetricsPort  int              `mapstructure:"metrics_port"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress string `mapstructure:"broker_address"`
	MaxJobsActive int    `mapstructure:"max_jobs_active"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

// DictionaryConfig points at the static canonical vocabulary files.
type DictionaryConfig struct {
	DegreesPath       string `mapstructure:"degrees_path"`
	EligibilitiesPath string `mapstructure:"eligibilities_path"`
}

// NormalizeConfig tunes the resolution cascade. The threshold defaults are
// empirical and environment-overridable; they are not algorithmic constants.
type NormalizeConfig struct {
	StrongSimilarity float64 `mapstructure:"strong_similarity"`
	SoftSimilarity   float64 `mapstructure:"soft_similarity"`
	ShortlistLimit   int     `mapstructure:"shortlist_limit"`
}

type EmbeddingConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type GenAIConfig struct {
	APIKey              string `mapstructure:"api_key"`
	ClassificationModel string `mapstructure:"classification_model"`
	ReasoningModel      string `mapstructure:"reasoning_model"`
	Timeout             int    `mapstructure:"timeout"` // milliseconds
}

// ScoringConfig carries the algorithm weights and ensemble parameters.
// Component weights of each algorithm must sum to 1.0; Load fails otherwise.
type ScoringConfig struct {
	WeightedSum     ComponentWeights `mapstructure:"weighted_sum"`
	SkillExperience ComponentWeights `mapstructure:"skill_experience"`
	Tiebreaker      ComponentWeights `mapstructure:"tiebreaker"`

	EnsembleThreshold     float64 `mapstructure:"ensemble_threshold"`
	EnsemblePrimaryWeight float64 `mapstructure:"ensemble_primary_weight"` // weight of weighted-sum in the average
}

type ComponentWeights struct {
	Education   float64 `mapstructure:"education"`
	Experience  float64 `mapstructure:"experience"`
	Skills      float64 `mapstructure:"skills"`
	Eligibility float64 `mapstructure:"eligibility"`
}

func (w ComponentWeights) Sum() float64 {
	return w.Education + w.Experience + w.Skills + w.Eligibility
}

type RankingConfig struct {
	BatchSize        int     `mapstructure:"batch_size"`
	BatchPause       int     `mapstructure:"batch_pause"` // milliseconds
	TieThreshold     float64 `mapstructure:"tie_threshold"`
	AdjustmentRange  float64 `mapstructure:"adjustment_range"`
	TopInsights      int     `mapstructure:"top_insights"`
}

func (r RankingConfig) BatchPauseDuration() time.Duration {
	return time.Duration(r.BatchPause) * time.Millisecond
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
