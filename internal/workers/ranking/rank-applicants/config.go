// internal/workers/ranking/rank-applicants/config.go
package rankapplicants

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 120 * time.Second,
	}
}
