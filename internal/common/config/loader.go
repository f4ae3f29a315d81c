// internal/common/config/loader.go
package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like GENAI_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if cfg.GenAI.APIKey == "" {
		cfg.GenAI.APIKey = os.Getenv("GENAI_API_KEY")
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "applicant-ranker"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.MetricsPort == 0 {
		cfg.MetricsPort = 9102
	}
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 5
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 120000
	}
	if cfg.Dictionary.DegreesPath == "" {
		cfg.Dictionary.DegreesPath = "configs/vocabularies/degrees.yaml"
	}
	if cfg.Dictionary.EligibilitiesPath == "" {
		cfg.Dictionary.EligibilitiesPath = "configs/vocabularies/eligibilities.yaml"
	}

	if cfg.Normalize.StrongSimilarity == 0 {
		cfg.Normalize.StrongSimilarity = 0.85
	}
	if cfg.Normalize.SoftSimilarity == 0 {
		cfg.Normalize.SoftSimilarity = 0.70
	}
	if cfg.Normalize.ShortlistLimit == 0 {
		cfg.Normalize.ShortlistLimit = 20
	}

	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "nomic-embed-text"
	}
	if cfg.Embedding.Timeout == 0 {
		cfg.Embedding.Timeout = 10000
	}
	if cfg.GenAI.ClassificationModel == "" {
		cfg.GenAI.ClassificationModel = "gemini-2.5-flash"
	}
	if cfg.GenAI.ReasoningModel == "" {
		cfg.GenAI.ReasoningModel = "gemini-2.5-pro"
	}
	if cfg.GenAI.Timeout == 0 {
		cfg.GenAI.Timeout = 30000
	}

	if cfg.Scoring.WeightedSum.Sum() == 0 {
		cfg.Scoring.WeightedSum = ComponentWeights{
			Education: 0.30, Experience: 0.25, Skills: 0.30, Eligibility: 0.15,
		}
	}
	if cfg.Scoring.SkillExperience.Sum() == 0 {
		cfg.Scoring.SkillExperience = ComponentWeights{
			Education: 0.10, Experience: 0.35, Skills: 0.45, Eligibility: 0.10,
		}
	}
	if cfg.Scoring.Tiebreaker.Sum() == 0 {
		cfg.Scoring.Tiebreaker = ComponentWeights{
			Education: 0.35, Experience: 0.10, Skills: 0.05, Eligibility: 0.50,
		}
	}
	if cfg.Scoring.EnsembleThreshold == 0 {
		cfg.Scoring.EnsembleThreshold = 5.0
	}
	if cfg.Scoring.EnsemblePrimaryWeight == 0 {
		cfg.Scoring.EnsemblePrimaryWeight = 0.5
	}

	if cfg.Ranking.BatchSize == 0 {
		cfg.Ranking.BatchSize = 5
	}
	if cfg.Ranking.BatchPause == 0 {
		cfg.Ranking.BatchPause = 1000
	}
	if cfg.Ranking.TieThreshold == 0 {
		cfg.Ranking.TieThreshold = 0.01
	}
	if cfg.Ranking.AdjustmentRange == 0 {
		cfg.Ranking.AdjustmentRange = 0.5
	}
	if cfg.Ranking.TopInsights == 0 {
		cfg.Ranking.TopInsights = 5
	}
	if cfg.Redis.CacheTTL == 0 {
		cfg.Redis.CacheTTL = 3600
	}
}

// validateConfig rejects inconsistent configuration at process start so that
// no ranking run ever executes with broken weights or thresholds.
func validateConfig(cfg *Config) error {
	for name, w := range map[string]ComponentWeights{
		"weighted_sum":     cfg.Scoring.WeightedSum,
		"skill_experience": cfg.Scoring.SkillExperience,
		"tiebreaker":       cfg.Scoring.Tiebreaker,
	} {
		if math.Abs(w.Sum()-1.0) > 1e-9 {
			return fmt.Errorf("scoring.%s weights must sum to 1.0, got %.4f", name, w.Sum())
		}
		for comp, v := range map[string]float64{
			"education": w.Education, "experience": w.Experience,
			"skills": w.Skills, "eligibility": w.Eligibility,
		} {
			if v < 0 {
				return fmt.Errorf("scoring.%s.%s must not be negative", name, comp)
			}
		}
	}

	if cfg.Scoring.EnsemblePrimaryWeight <= 0 || cfg.Scoring.EnsemblePrimaryWeight >= 1 {
		return fmt.Errorf("scoring.ensemble_primary_weight must be in (0,1), got %.4f", cfg.Scoring.EnsemblePrimaryWeight)
	}
	if cfg.Scoring.EnsembleThreshold < 0 {
		return fmt.Errorf("scoring.ensemble_threshold must not be negative")
	}

	if cfg.Normalize.SoftSimilarity > cfg.Normalize.StrongSimilarity {
		return fmt.Errorf("normalize.soft_similarity (%.2f) must not exceed strong_similarity (%.2f)",
			cfg.Normalize.SoftSimilarity, cfg.Normalize.StrongSimilarity)
	}
	if cfg.Normalize.StrongSimilarity > 1 || cfg.Normalize.SoftSimilarity < 0 {
		return fmt.Errorf("normalize similarity thresholds must be within [0,1]")
	}

	if cfg.Ranking.AdjustmentRange <= 0 {
		return fmt.Errorf("ranking.adjustment_range must be positive")
	}
	if cfg.Ranking.TieThreshold <= 0 {
		return fmt.Errorf("ranking.tie_threshold must be positive")
	}
	if cfg.Ranking.BatchSize < 1 {
		return fmt.Errorf("ranking.batch_size must be at least 1")
	}

	return nil
}
