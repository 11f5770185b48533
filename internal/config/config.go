package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the scout configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the scout configuration directory
const ConfigDirName = ".scout"

// Config holds all scout configuration
type Config struct {
	Scan   ScanConfig   `yaml:"scan"`
	Budget BudgetConfig `yaml:"budget"`
	Watch  WatchConfig  `yaml:"watch"`
	Output OutputConfig `yaml:"output"`
}

// ScanConfig holds configuration for file discovery
type ScanConfig struct {
	Exclude       []string `yaml:"exclude"`
	MaxFileSizeKB int64    `yaml:"max_file_size_kb"`
	NoGitignore   bool     `yaml:"no_gitignore"`
}

// MaxFileSizeBytes converts the configured limit to bytes. Zero means
// no limit.
func (s ScanConfig) MaxFileSizeBytes() int64 {
	return s.MaxFileSizeKB * 1024
}

// BudgetConfig holds the default sizing for context requests. The
// per-level token budgets themselves are fixed; this only selects
// which level applies when a request doesn't say.
type BudgetConfig struct {
	Completeness string `yaml:"completeness"`
	MaxTokens    int    `yaml:"max_tokens"`
}

// WatchConfig holds configuration for the polling file watcher
type WatchConfig struct {
	PollIntervalMS int `yaml:"poll_interval_ms"`
	DebounceMS     int `yaml:"debounce_ms"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	Format string `yaml:"format"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .scout/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		// No config dir found, return defaults
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Merge with defaults
	merged := Merge(loaded, DefaultConfig())

	// Validate the merged config
	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .scout directory by walking up from startDir.
// Returns the path to the .scout directory if found.
func FindConfigDir(startDir string) (string, error) {
	// Get absolute path
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		// Move to parent directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root, config not found
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .scout directory if it doesn't exist.
// Returns the path to the .scout directory.
func EnsureConfigDir(workDir string) (string, error) {
	// Get absolute path
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	// Check if it already exists
	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	// Create the directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	// Validate completeness level
	if !IsValidCompleteness(cfg.Budget.Completeness) {
		return fmt.Errorf("%w: completeness must be one of %v, got %q",
			ErrInvalidConfig, ValidCompleteness, cfg.Budget.Completeness)
	}

	// Validate max_tokens (zero means "use the completeness preset")
	if cfg.Budget.MaxTokens < 0 {
		return fmt.Errorf("%w: max_tokens must be non-negative, got %d",
			ErrInvalidConfig, cfg.Budget.MaxTokens)
	}

	// Validate file size limit (zero means unlimited)
	if cfg.Scan.MaxFileSizeKB < 0 {
		return fmt.Errorf("%w: max_file_size_kb must be non-negative, got %d",
			ErrInvalidConfig, cfg.Scan.MaxFileSizeKB)
	}

	// Validate watcher timings
	if cfg.Watch.PollIntervalMS <= 0 {
		return fmt.Errorf("%w: poll_interval_ms must be positive, got %d",
			ErrInvalidConfig, cfg.Watch.PollIntervalMS)
	}

	if cfg.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: debounce_ms must be non-negative, got %d",
			ErrInvalidConfig, cfg.Watch.DebounceMS)
	}

	// Validate output format
	if !IsValidFormat(cfg.Output.Format) {
		return fmt.Errorf("%w: format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.Format)
	}

	return nil
}

// SaveDefault writes the default configuration to .scout/config.yaml in workDir.
// Creates the .scout directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	// Add header comment
	header := "# scout configuration\n# See https://github.com/codescout/scout for documentation\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
