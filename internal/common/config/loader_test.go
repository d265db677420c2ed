package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: retention-test\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "retention-test", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 15000, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "model.json", cfg.Artifacts.ModelPath)
	assert.Equal(t, "scaler.json", cfg.Artifacts.ScalerPath)
	assert.False(t, cfg.Camunda.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Observability.MetricsEnabled)

	worker := GetWorkerConfig(cfg, PredictWorkerName)
	assert.True(t, worker.Enabled)
	assert.Equal(t, 10, worker.MaxJobsActive)
	assert.Equal(t, 30000, worker.Timeout)
	assert.False(t, IsWorkerEnabled(cfg, PredictWorkerName), "camunda disabled disables every worker")
}

func TestLoadFromFile_ValuesAndEnvExpansion(t *testing.T) {
	t.Setenv("TEST_ARTIFACT_DIR", "/srv/artifacts")
	path := writeConfig(t, `
server:
  address: ":9000"
  read_timeout: 2500
artifacts:
  model_path: "${TEST_ARTIFACT_DIR}/model.json"
  scaler_path: "${TEST_ARTIFACT_DIR}/scaler.json"
camunda:
  enabled: true
  broker_address: "zeebe:26500"
workers:
  predict-attrition-risk:
    enabled: true
    max_jobs_active: 3
logging:
  level: debug
  format: console
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, 2500*time.Millisecond, GetDuration(cfg.Server.ReadTimeout))
	assert.Equal(t, "/srv/artifacts/model.json", cfg.Artifacts.ModelPath)
	assert.Equal(t, "/srv/artifacts/scaler.json", cfg.Artifacts.ScalerPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, IsWorkerEnabled(cfg, PredictWorkerName))
	assert.Equal(t, 3, GetWorkerConfig(cfg, PredictWorkerName).MaxJobsActive)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":7070")
	t.Setenv("MODEL_PATH", "/opt/model.json")
	t.Setenv("SCALER_PATH", "/opt/scaler.json")
	path := writeConfig(t, "server:\n  address: \":8081\"\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, "/opt/model.json", cfg.Artifacts.ModelPath)
	assert.Equal(t, "/opt/scaler.json", cfg.Artifacts.ScalerPath)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "camunda without broker",
			body:    "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "empty model path",
			body:    "artifacts:\n  model_path: \"\"\n",
			wantErr: "artifacts.model_path is required",
		},
		{
			name:    "negative timeout",
			body:    "server:\n  write_timeout: -1\n",
			wantErr: "server timeouts must be non-negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_ManifestSkipsPathValidation(t *testing.T) {
	path := writeConfig(t, `
artifacts:
  model_path: ""
  scaler_path: ""
  manifest_path: "/srv/artifacts/manifest.json"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Artifacts.UsesManifest())
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
