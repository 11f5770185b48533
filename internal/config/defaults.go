package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Exclude: []string{
				"**/*.min.js",
				"**/*.bundle.js",
				"**/migrations/**",
			},
			MaxFileSizeKB: 1024,
			NoGitignore:   false,
		},
		Budget: BudgetConfig{
			Completeness: "balanced",
			MaxTokens:    0,
		},
		Watch: WatchConfig{
			PollIntervalMS: 2000,
			DebounceMS:     300,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	// Merge Scan config
	result.Scan = mergeScanConfig(loaded.Scan, defaults.Scan)

	// Merge Budget config
	result.Budget = mergeBudgetConfig(loaded.Budget, defaults.Budget)

	// Merge Watch config
	result.Watch = mergeWatchConfig(loaded.Watch, defaults.Watch)

	// Merge Output config
	result.Output = mergeOutputConfig(loaded.Output, defaults.Output)

	return result
}

func mergeScanConfig(loaded, defaults ScanConfig) ScanConfig {
	result := ScanConfig{}

	// Use loaded exclude patterns if provided, otherwise defaults
	if len(loaded.Exclude) > 0 {
		result.Exclude = loaded.Exclude
	} else {
		result.Exclude = defaults.Exclude
	}

	// MaxFileSizeKB: use loaded if non-zero
	if loaded.MaxFileSizeKB != 0 {
		result.MaxFileSizeKB = loaded.MaxFileSizeKB
	} else {
		result.MaxFileSizeKB = defaults.MaxFileSizeKB
	}

	// NoGitignore defaults to false, so the loaded value passes through
	result.NoGitignore = loaded.NoGitignore

	return result
}

func mergeBudgetConfig(loaded, defaults BudgetConfig) BudgetConfig {
	result := BudgetConfig{}

	// Completeness: use loaded if non-empty
	if loaded.Completeness != "" {
		result.Completeness = loaded.Completeness
	} else {
		result.Completeness = defaults.Completeness
	}

	// MaxTokens: zero means "use the completeness preset", which is
	// also the default, so the loaded value passes through
	result.MaxTokens = loaded.MaxTokens

	return result
}

func mergeWatchConfig(loaded, defaults WatchConfig) WatchConfig {
	result := WatchConfig{}

	// PollIntervalMS: use loaded if non-zero
	if loaded.PollIntervalMS != 0 {
		result.PollIntervalMS = loaded.PollIntervalMS
	} else {
		result.PollIntervalMS = defaults.PollIntervalMS
	}

	// DebounceMS: use loaded if non-zero
	if loaded.DebounceMS != 0 {
		result.DebounceMS = loaded.DebounceMS
	} else {
		result.DebounceMS = defaults.DebounceMS
	}

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := OutputConfig{}

	// Format: use loaded if non-empty
	if loaded.Format != "" {
		result.Format = loaded.Format
	} else {
		result.Format = defaults.Format
	}

	return result
}

// ValidCompleteness lists the valid values for the completeness level
var ValidCompleteness = []string{"minimal", "balanced", "thorough"}

// IsValidCompleteness checks if the given completeness value is valid
func IsValidCompleteness(level string) bool {
	for _, valid := range ValidCompleteness {
		if level == valid {
			return true
		}
	}
	return false
}

// ValidFormats lists the valid values for output format
var ValidFormats = []string{"text", "yaml", "json"}

// IsValidFormat checks if the given format value is valid
func IsValidFormat(format string) bool {
	for _, valid := range ValidFormats {
		if format == valid {
			return true
		}
	}
	return false
}
