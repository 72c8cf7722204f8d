package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config is the complete jurisflow configuration.
// Field tags serve both viper (mapstructure) and `config show` (yaml).
type Config struct {
	Engine      EngineConfig      `yaml:"engine" mapstructure:"engine"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// EngineConfig controls resolution and classification
type EngineConfig struct {
	// Tolerance is the inclusive distance, in reais, within which an
	// amount counts as the minimum wage of its period.
	Tolerance string `yaml:"tolerance" mapstructure:"tolerance"`

	// DefaultCorrectionIndex fills indice_correcao when no source names one
	DefaultCorrectionIndex string `yaml:"default_correction_index" mapstructure:"default_correction_index"`

	// Eligibility is the candidate filter: "all" or "condemnation"
	Eligibility string `yaml:"eligibility" mapstructure:"eligibility"`

	// CheckRange compares RMI against the wage floor and INSS ceiling
	CheckRange bool `yaml:"check_range" mapstructure:"check_range"`

	// TablesPath replaces the built-in reference tables (YAML)
	TablesPath string `yaml:"tables_path,omitempty" mapstructure:"tables_path"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers            int     `yaml:"workers" mapstructure:"workers"`
	DocumentsPerSecond float64 `yaml:"documents_per_second" mapstructure:"documents_per_second"`
	Burst              int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig controls record memoization
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// LLMConfig configures the optional LLM candidate extractor
type LLMConfig struct {
	Provider         string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model            string `yaml:"model" mapstructure:"model"`
	APIKey           string `yaml:"-" mapstructure:"api_key"`
	BaseURL          string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout          int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	StrictCandidates bool   `yaml:"strict_candidates" mapstructure:"strict_candidates"`
	MaxTokens        int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	Pretty  bool `yaml:"pretty" mapstructure:"pretty"`
	Report  bool `yaml:"report" mapstructure:"report"` // Wrap the record with observations and run metadata
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json, console
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "jurisflow-cache")
	if dir, err := os.UserCacheDir(); err == nil {
		cacheDir = filepath.Join(dir, "jurisflow")
	}

	return &Config{
		Engine: EngineConfig{
			Tolerance:              "10.00",
			DefaultCorrectionIndex: "SELIC", // STF Tema 810 / EC 113/2021
			Eligibility:            "all",
			CheckRange:             true,
		},
		Concurrency: ConcurrencyConfig{
			Workers:            runtime.NumCPU(),
			DocumentsPerSecond: 50,
			Burst:              10,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskDir:   cacheDir,
			DiskTTL:   7 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:         "",
			Model:            "gpt-4o-mini",
			Timeout:          60,
			StrictCandidates: true,
			MaxTokens:        2000,
		},
		Output: OutputConfig{
			Pretty: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
