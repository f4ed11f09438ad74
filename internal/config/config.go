package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultGlob is the file pattern used when no glob argument is given.
const DefaultGlob = "**/*.{cjs,js,jsx,mjs,ts,tsx}"

// DefaultIgnoreFile is the conventional ignore-pattern file read from the
// working directory.
const DefaultIgnoreFile = ".gitignore"

// Config represents the esquery configuration
type Config struct {
	Glob       string         `json:"glob" mapstructure:"glob"`
	IgnoreFile string         `json:"ignoreFile" mapstructure:"ignoreFile"`
	Dialects   DialectsConfig `json:"dialects" mapstructure:"dialects"`
	Logging    LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// DialectsConfig toggles the syntax extensions handed to the parser
type DialectsConfig struct {
	JSX        bool `json:"jsx" mapstructure:"jsx"`
	TypeScript bool `json:"typescript" mapstructure:"typescript"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Glob:       DefaultGlob,
		IgnoreFile: DefaultIgnoreFile,
		Dialects: DialectsConfig{
			JSX:        true,
			TypeScript: true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .esquery/config.json in the working
// directory. A missing config file is not an error; defaults apply.
func LoadConfig(workDir string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("glob", defaults.Glob)
	v.SetDefault("ignoreFile", defaults.IgnoreFile)
	v.SetDefault("dialects.jsx", defaults.Dialects.JSX)
	v.SetDefault("dialects.typescript", defaults.Dialects.TypeScript)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(workDir, ".esquery"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
