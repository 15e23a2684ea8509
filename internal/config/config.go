package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"cardiostat/adapters/datareadiness/coercer"
	domainstats "cardiostat/domain/stats"
	"cardiostat/internal"
	"cardiostat/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Analysis AnalysisConfig
	Output   OutputConfig
	LogLevel string
}

// DataConfig holds input settings
type DataConfig struct {
	File       string
	Sheet      string
	GroupField string
	// SampleSize > 0 analyses a seeded random subset of rows
	SampleSize int
	Seed       int64
}

// AnalysisConfig holds statistical settings
type AnalysisConfig struct {
	Alpha      float64
	Correction domainstats.Correction
	Workers    int
	TopPairs   int
}

// OutputConfig holds report settings
type OutputConfig struct {
	Dir    string
	Charts bool
}

// Default returns the configuration used when no variables are set
func Default() *Config {
	return &Config{
		Data: DataConfig{
			GroupField: string(coercer.FieldHeartDiseaseStatus),
			Seed:       42,
		},
		Analysis: AnalysisConfig{
			Alpha:      domainstats.DefaultAlpha,
			Correction: domainstats.CorrectionNone,
			Workers:    runtime.NumCPU(),
			TopPairs:   5,
		},
		Output: OutputConfig{
			Dir:    "report",
			Charts: true,
		},
		LogLevel: "INFO",
	}
}

// Load reads configuration from environment variables and validates it.
// Malformed numbers are reported instead of silently replaced by defaults.
func Load() (*Config, error) {
	config := Default()
	var err error

	config.Data.File = getEnvOrDefault("DATA_FILE", config.Data.File)
	config.Data.Sheet = getEnvOrDefault("DATA_SHEET", config.Data.Sheet)
	config.Data.GroupField = getEnvOrDefault("GROUP_FIELD", config.Data.GroupField)
	if config.Data.SampleSize, err = getEnvInt("SAMPLE_SIZE", config.Data.SampleSize); err != nil {
		return nil, err
	}
	seed, err := getEnvInt("SEED", int(config.Data.Seed))
	if err != nil {
		return nil, err
	}
	config.Data.Seed = int64(seed)

	if config.Analysis.Alpha, err = getEnvFloat("ALPHA", config.Analysis.Alpha); err != nil {
		return nil, err
	}
	correction, ok := domainstats.ParseCorrection(strings.ToLower(getEnvOrDefault("CORRECTION", "")))
	if !ok {
		return nil, errors.ConfigInvalid("CORRECTION must be one of none, holm, bonferroni")
	}
	config.Analysis.Correction = correction
	if config.Analysis.Workers, err = getEnvInt("WORKERS", config.Analysis.Workers); err != nil {
		return nil, err
	}
	if config.Analysis.TopPairs, err = getEnvInt("TOP_PAIRS", config.Analysis.TopPairs); err != nil {
		return nil, err
	}

	config.Output.Dir = getEnvOrDefault("OUTPUT_DIR", config.Output.Dir)
	if config.Output.Charts, err = getEnvBool("CHARTS", config.Output.Charts); err != nil {
		return nil, err
	}
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", config.LogLevel)

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// LoadDotEnv loads variables from .env style files without overriding the
// process environment. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return errors.WithCode(errors.CodeConfigInvalid, err)
		}
	}
	return nil
}

// Validate checks value ranges. An empty data file is allowed; callers
// that need one check it themselves.
func (c *Config) Validate() error {
	if c.Data.GroupField == "" {
		return errors.ConfigInvalid("GROUP_FIELD is required")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("ALPHA must be in (0, 1)")
	}
	if _, ok := domainstats.ParseCorrection(string(c.Analysis.Correction)); !ok {
		return errors.ConfigInvalid("CORRECTION must be one of none, holm, bonferroni")
	}
	if c.Analysis.Workers < 1 {
		return errors.ConfigInvalid("WORKERS must be at least 1")
	}
	if c.Analysis.TopPairs < 0 {
		return errors.ConfigInvalid("TOP_PAIRS must not be negative")
	}
	if c.Data.SampleSize < 0 {
		return errors.ConfigInvalid("SAMPLE_SIZE must not be negative")
	}
	if c.Output.Dir == "" {
		return errors.ConfigInvalid("OUTPUT_DIR is required")
	}
	if _, ok := internal.ParseLogLevel(c.LogLevel); !ok {
		return errors.ConfigInvalid("LOG_LEVEL must be one of ERROR, WARN, INFO, DEBUG, TRACE")
	}
	return nil
}

// Logger builds the leveled logger named by LogLevel
func (c *Config) Logger() *internal.Logger {
	level, _ := internal.ParseLogLevel(c.LogLevel)
	return internal.NewLogger(level)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer, got " + strconv.Quote(value))
	}
	return intValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a number, got " + strconv.Quote(value))
	}
	return floatValue, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(key + " must be true or false, got " + strconv.Quote(value))
	}
	return boolValue, nil
}
