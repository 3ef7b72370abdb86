package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "predictkit.yaml", `
predict: hello-world
setup_timeout: 2s
predict_timeout: 250ms
log:
  level: debug
  format: console
  output: stdout
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", cfg.Predict)
	assert.Equal(t, 2*time.Second, cfg.SetupTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.PredictTimeout)
	assert.Equal(t, Log{Level: "debug", Format: "console", Output: "stdout"}, cfg.Log)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "predictkit.yaml", "log:\n  level: warn\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPredictor, cfg.Predict)
	assert.Equal(t, DefaultSetupTimeout, cfg.SetupTimeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "predictkit.yaml", "predict: from-file\nsetup_timeout: 1s\n")
	t.Setenv("PREDICTKIT_PREDICT", "from-env")
	t.Setenv("PREDICTKIT_SETUP_TIMEOUT", "1500")
	t.Setenv("PREDICTKIT_PREDICT_TIMEOUT", "3s")
	t.Setenv("PREDICTKIT_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Predict)
	assert.Equal(t, 1500*time.Millisecond, cfg.SetupTimeout)
	assert.Equal(t, 3*time.Second, cfg.PredictTimeout)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "bad yaml", content: "predict: [unclosed"},
		{name: "negative timeout", content: "predict_timeout: -1s"},
		{name: "bad level", content: "log:\n  level: chatty"},
		{name: "bad format", content: "log:\n  format: xml"},
		{name: "bad env duration", content: "", env: map[string]string{"PREDICTKIT_SETUP_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := Load(writeFile(t, "predictkit.yaml", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestValidateRejectsEmptyPredictor(t *testing.T) {
	cfg := Default()
	cfg.Predict = "  "
	assert.Error(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	const fresh = "PREDICTKIT_DOTENV_TEST_VALUE"
	require.Empty(t, os.Getenv(fresh))
	t.Cleanup(func() {
		_ = os.Unsetenv(fresh)
	})
	t.Setenv("PREDICTKIT_LOG_FORMAT", "json")

	path := writeFile(t, ".env", fresh+"=from-dotenv\nPREDICTKIT_LOG_FORMAT=console\n")
	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "from-dotenv", os.Getenv(fresh))
	assert.Equal(t, "json", os.Getenv("PREDICTKIT_LOG_FORMAT"))
}
