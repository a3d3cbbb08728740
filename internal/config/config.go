// Package config loads and validates the bot configuration from YAML.
package config

import (
	"encoding/json"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/quantbeak/macross/pkg/errors"
)

// StrategyConfig names the strategy and carries its numeric parameters.
type StrategyConfig struct {
	// Name of the registered strategy, e.g. "simple_ma".
	Name string `yaml:"name" json:"name" validate:"required" jsonschema:"title=Strategy Name,description=Name of the registered strategy"`
	// ShortWindow is the short moving average period in bars.
	ShortWindow int `yaml:"short_window" json:"short_window" validate:"gt=0" jsonschema:"title=Short Window,minimum=1"`
	// LongWindow is the long moving average period in bars. It must be
	// strictly larger than the short window.
	LongWindow int `yaml:"long_window" json:"long_window" validate:"gt=0,gtfield=ShortWindow" jsonschema:"title=Long Window,minimum=2"`
}

// Config is the full bot configuration, shared by the backtest and the live
// trading entry points.
type Config struct {
	// Symbol is the trading pair, e.g. BTCUSDT.
	Symbol string `yaml:"symbol" json:"symbol" validate:"required" jsonschema:"title=Symbol"`
	// Interval is the bar interval, e.g. 1h.
	Interval string `yaml:"interval" json:"interval" validate:"required" jsonschema:"title=Bar Interval"`
	// TradeVolume is the quantity of each market order in live mode.
	TradeVolume float64 `yaml:"trade_volume" json:"trade_volume" validate:"gt=0" jsonschema:"title=Trade Volume,exclusiveMinimum=0"`
	// Lookback is how many recent bars a live cycle fetches for analysis.
	Lookback int `yaml:"lookback" json:"lookback" validate:"gt=0" jsonschema:"title=Lookback,minimum=1"`
	// CycleMinutes is the number of minutes between live trading cycles.
	CycleMinutes int `yaml:"cycle_minutes" json:"cycle_minutes" validate:"gt=0" jsonschema:"title=Cycle Minutes,minimum=1"`
	// Paper logs signals without placing orders when true.
	Paper bool `yaml:"paper" json:"paper" jsonschema:"title=Paper Mode"`
	// DataDir is where live cycles persist fetched bars. Empty disables
	// persistence.
	DataDir string `yaml:"data_dir" json:"data_dir" jsonschema:"title=Data Directory"`
	// Strategy selects and parameterizes the trading strategy.
	Strategy StrategyConfig `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy"`
}

// DefaultConfig returns the configuration the bot runs with when a field is
// not set in the YAML file.
func DefaultConfig() Config {
	return Config{
		Symbol:       "BTCUSDT",
		Interval:     "1h",
		TradeVolume:  0.001,
		Lookback:     200,
		CycleMinutes: 60,
		Paper:        false,
		DataDir:      "",
		Strategy: StrategyConfig{
			Name:        "simple_ma",
			ShortWindow: 20,
			LongWindow:  50,
		},
	}
}

// Load reads and validates a configuration file. Fields absent from the file
// keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Parse(data)
}

// Parse unmarshals and validates configuration YAML over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config YAML", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

// Params returns the strategy parameters in the merge-update form the
// strategy registry consumes.
func (c *Config) Params() map[string]float64 {
	return map[string]float64{
		"short_window": float64(c.Strategy.ShortWindow),
		"long_window":  float64(c.Strategy.LongWindow),
	}
}

// GenerateSchemaJSON generates a JSON schema describing the configuration.
func (c *Config) GenerateSchemaJSON() (string, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}

	schema := reflector.Reflect(c)
	schema.Title = "macross-config"
	schema.Description = "Configuration schema for the moving-average crossover bot"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal config schema", err)
	}

	return string(data), nil
}
