// internal/workers/attrition/predict-attrition-risk/config.go
package predictattritionrisk

import (
	"time"

	"retention-service/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// LoadConfig reads the worker timeout from the workers section.
func LoadConfig(cfg *config.Config) *Config {
	timeout := 30 * time.Second
	if wcfg := config.GetWorkerConfig(cfg, TaskType); wcfg.Timeout > 0 {
		timeout = time.Duration(wcfg.Timeout) * time.Millisecond
	}
	return &Config{Timeout: timeout}
}
