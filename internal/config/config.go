package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath         = "predictkit.yaml"
	DefaultPredictor    = "hello-world"
	DefaultSetupTimeout = 30 * time.Second

	envPrefix = "PREDICTKIT_"
)

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

type Config struct {
	Predict        string        `yaml:"predict"`
	SetupTimeout   time.Duration `yaml:"setup_timeout"`
	PredictTimeout time.Duration `yaml:"predict_timeout"`
	Log            Log           `yaml:"log"`
}

func Default() Config {
	return Config{
		Predict:      DefaultPredictor,
		SetupTimeout: DefaultSetupTimeout,
		Log: Log{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
	}
}

// Load reads path on top of the defaults and then applies PREDICTKIT_*
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %q: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from a .env file without overriding
// variables already set in the environment. A missing file is ignored.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Predict = envOr(envPrefix+"PREDICT", c.Predict)
	c.Log.Level = envOr(envPrefix+"LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr(envPrefix+"LOG_FORMAT", c.Log.Format)
	c.Log.Output = envOr(envPrefix+"LOG_OUTPUT", c.Log.Output)

	var err error
	if c.SetupTimeout, err = envDuration(envPrefix+"SETUP_TIMEOUT", c.SetupTimeout); err != nil {
		return err
	}
	if c.PredictTimeout, err = envDuration(envPrefix+"PREDICT_TIMEOUT", c.PredictTimeout); err != nil {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Predict) == "" {
		return errors.New("predict must name a registered predictor")
	}
	if c.SetupTimeout < 0 {
		return fmt.Errorf("setup_timeout must be >= 0, got %s", c.SetupTimeout)
	}
	if c.PredictTimeout < 0 {
		return fmt.Errorf("predict_timeout must be >= 0, got %s", c.PredictTimeout)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.Log.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "json", "", "console":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	return nil
}

func envOr(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

// envDuration accepts Go durations ("1.5s") or bare milliseconds ("1500").
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	if millis, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(millis) * time.Millisecond, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}
