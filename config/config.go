// Package config loads the pipeline configuration from defaults, an optional
// YAML or JSON file and HOUSEPRICE_* environment variables.
package config

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/houseprice/pkg/errors"
	"github.com/YuminosukeSato/houseprice/pkg/log"
)

// Environment variables consulted by LoadFromEnvironment.
const (
	EnvDataPath     = "HOUSEPRICE_DATA_PATH"
	EnvLearningRate = "HOUSEPRICE_LEARNING_RATE"
	EnvEpochs       = "HOUSEPRICE_EPOCHS"
	EnvLogLevel     = "HOUSEPRICE_LOG_LEVEL"
	EnvStorePath    = "HOUSEPRICE_STORE_PATH"
)

// Config is the complete pipeline configuration.
type Config struct {
	Data       DataConfig       `yaml:"data" json:"data"`
	Normalizer NormalizerConfig `yaml:"normalizer" json:"normalizer"`
	Training   TrainingConfig   `yaml:"training" json:"training"`
	Output     OutputConfig     `yaml:"output" json:"output"`
	Store      StoreConfig      `yaml:"store" json:"store"`
	LogLevel   string           `yaml:"log_level" json:"log_level"`
}

// DataConfig locates the input dataset.
type DataConfig struct {
	Path string `yaml:"path" json:"path"`
}

// NormalizerConfig holds filtering, scaling and split settings.
type NormalizerConfig struct {
	TrainRatio  float64 `yaml:"train_ratio" json:"train_ratio"`
	Epsilon     float64 `yaml:"epsilon" json:"epsilon"`
	StrictPrice bool    `yaml:"strict_price" json:"strict_price"`
}

// TrainingConfig holds gradient descent settings.
type TrainingConfig struct {
	LearningRate float64 `yaml:"learning_rate" json:"learning_rate"`
	Epochs       int     `yaml:"epochs" json:"epochs"`
}

// OutputConfig controls generated artifacts. Empty paths disable the
// corresponding artifact.
type OutputConfig struct {
	PlotPath    string `yaml:"plot_path" json:"plot_path"`
	PlotWidth   int    `yaml:"plot_width" json:"plot_width"`
	PlotHeight  int    `yaml:"plot_height" json:"plot_height"`
	WeightsPath string `yaml:"weights_path" json:"weights_path"`
}

// StoreConfig enables the run history database when Path is set.
type StoreConfig struct {
	Path string `yaml:"path" json:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{Path: "NY-House-Dataset.csv"},
		Normalizer: NormalizerConfig{
			TrainRatio: 0.8,
			Epsilon:    1e-8,
		},
		Training: TrainingConfig{
			LearningRate: 0.01,
			Epochs:       1000,
		},
		Output: OutputConfig{
			PlotPath:   "prediction_plot.png",
			PlotWidth:  1024,
			PlotHeight: 768,
		},
		LogLevel: "info",
	}
}

// Load builds a configuration with Read and validates it.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Read builds a configuration from the defaults, the file at path (if path
// is non-empty) and the environment without validating it, so callers can
// apply further overrides first.
func Read(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadFromEnvironment(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile overlays the YAML or JSON file at path. Keys absent from the
// file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return errors.Wrapf(err, "parse YAML config %s", path)
		}
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return errors.Wrapf(err, "parse JSON config %s", path)
		}
	default:
		return errors.Newf("unsupported config file format: %s", ext)
	}
	return nil
}

// LoadFromEnvironment applies the HOUSEPRICE_* variables that are set.
func (c *Config) LoadFromEnvironment() error {
	if v, ok := os.LookupEnv(EnvDataPath); ok && v != "" {
		c.Data.Path = v
	}
	if v, ok := os.LookupEnv(EnvLearningRate); ok && v != "" {
		lr, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvLearningRate)
		}
		c.Training.LearningRate = lr
	}
	if v, ok := os.LookupEnv(EnvEpochs); ok && v != "" {
		epochs, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvEpochs)
		}
		c.Training.Epochs = epochs
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvStorePath); ok && v != "" {
		c.Store.Path = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return errors.NewValidationError("data.path", "is required", c.Data.Path)
	}
	if r := c.Normalizer.TrainRatio; !(r > 0 && r < 1) {
		return errors.NewValidationError("normalizer.train_ratio", "must be within (0, 1)", r)
	}
	if e := c.Normalizer.Epsilon; !(e > 0) || math.IsInf(e, 0) {
		return errors.NewValidationError("normalizer.epsilon", "must be a finite positive number", e)
	}
	if lr := c.Training.LearningRate; lr < 0 || math.IsNaN(lr) || math.IsInf(lr, 0) {
		return errors.NewValidationError("training.learning_rate", "must be a finite non-negative number", lr)
	}
	if c.Training.Epochs < 0 {
		return errors.NewValidationError("training.epochs", "must be non-negative", c.Training.Epochs)
	}
	if c.Output.PlotPath != "" && (c.Output.PlotWidth <= 0 || c.Output.PlotHeight <= 0) {
		return errors.NewValidationError("output.plot_width/plot_height", "must be positive",
			[2]int{c.Output.PlotWidth, c.Output.PlotHeight})
	}
	if _, err := log.ToLogLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log_level", "must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
