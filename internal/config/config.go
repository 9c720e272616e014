package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"storescan/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// PipelineConfig contains the settings consumed by the cleaning pipeline.
// Paths are taken as given; relative paths resolve against the working
// directory of the run.
type PipelineConfig struct {
	InputPath         string `yaml:"input_path" envconfig:"INPUT_PATH" validate:"required"`
	CleanedOutputPath string `yaml:"cleaned_output_path" envconfig:"CLEANED_OUTPUT_PATH" validate:"required"`
	SubsetOutputPath  string `yaml:"subset_output_path" envconfig:"SUBSET_OUTPUT_PATH" validate:"required"`
	TargetCountry     string `yaml:"target_country" envconfig:"TARGET_COUNTRY" validate:"required,len=2,alpha"`
	ChartsDir         string `yaml:"charts_dir" envconfig:"CHARTS_DIR"`
	TopN              int    `yaml:"top_n" envconfig:"TOP_N" validate:"min=1"`
	CanonicalBrand    string `yaml:"canonical_brand" envconfig:"CANONICAL_BRAND"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load reads configuration via Read and validates it. Callers that apply
// command-line overrides should use Read, then ApplyOverrides, then Validate,
// so an override can supply a setting the file leaves out.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads configuration from the optional YAML file at configPath and
// from STORESCAN_* environment variables, environment taking precedence.
// The result is not yet validated; required settings may still be missing.
func Read(configPath string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("STORESCAN", &cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	// Load from config file if it exists
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			fileConfig, err := loadFromFile(configPath)
			if err != nil {
				return nil, errors.NewConfigError("failed to load config from file", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		} else if !os.IsNotExist(err) {
			return nil, errors.NewConfigError("failed to stat config file", err)
		}
	}

	cfg.applyDefaults()
	cfg.normalize()

	return &cfg, nil
}

// ApplyOverrides applies command-line overrides on top of the loaded
// settings. Empty values leave the loaded setting in place. The country
// code is re-normalized so a lowercase override still renders uppercased.
func (c *Config) ApplyOverrides(inputPath, country string) {
	if inputPath != "" {
		c.Pipeline.InputPath = inputPath
	}
	if country != "" {
		c.Pipeline.TargetCountry = country
	}
	c.normalize()
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Pipeline.InputPath == "" {
		envConfig.Pipeline.InputPath = fileConfig.Pipeline.InputPath
	}
	if envConfig.Pipeline.CleanedOutputPath == "" {
		envConfig.Pipeline.CleanedOutputPath = fileConfig.Pipeline.CleanedOutputPath
	}
	if envConfig.Pipeline.SubsetOutputPath == "" {
		envConfig.Pipeline.SubsetOutputPath = fileConfig.Pipeline.SubsetOutputPath
	}
	if envConfig.Pipeline.TargetCountry == "" {
		envConfig.Pipeline.TargetCountry = fileConfig.Pipeline.TargetCountry
	}
	if envConfig.Pipeline.ChartsDir == "" {
		envConfig.Pipeline.ChartsDir = fileConfig.Pipeline.ChartsDir
	}
	if envConfig.Pipeline.TopN == 0 {
		envConfig.Pipeline.TopN = fileConfig.Pipeline.TopN
	}
	if envConfig.Pipeline.CanonicalBrand == "" {
		envConfig.Pipeline.CanonicalBrand = fileConfig.Pipeline.CanonicalBrand
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	return envConfig
}

func (c *Config) applyDefaults() {
	if c.Pipeline.TopN == 0 {
		c.Pipeline.TopN = 10
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/pipeline.log"
	}
}

// normalize canonicalizes values before validation so that a lowercase
// country code from the environment still passes len/alpha checks upstream.
func (c *Config) normalize() {
	c.Pipeline.TargetCountry = strings.ToUpper(strings.TrimSpace(c.Pipeline.TargetCountry))
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.Pipeline); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return errors.NewValidationError(
				fmt.Sprintf("invalid settings: %s", strings.Join(fields, ", ")))
		}
		return errors.NewConfigError("settings validation failed", err)
	}
	return nil
}
