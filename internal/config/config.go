// Package config provides centralized configuration management for csvmap.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Codec   CodecConfig
	AutoMap AutoMapConfig
	Input   InputConfig
	Logging LoggingConfig
}

// CodecConfig holds CSV dialect settings for reading and writing.
type CodecConfig struct {
	// Delimiter is the field separator; empty sniffs it from the input (default: sniff)
	Delimiter string `env:"CSVMAP_DELIMITER"`

	// Quote is the quote character (default: ")
	Quote string `env:"CSVMAP_QUOTE" default:"\""`

	// Escape escapes quotes inside quoted fields; equal to Quote means doubling (default: ")
	Escape string `env:"CSVMAP_ESCAPE" default:"\""`

	// Newline is the record terminator written to output: lf or crlf (default: lf)
	Newline string `env:"CSVMAP_NEWLINE" default:"lf"`

	// SampleLines caps how many lines delimiter sniffing reads (default: 10)
	SampleLines int `env:"CSVMAP_SAMPLE_LINES" default:"10"`

	// Header controls whether output starts with a header row (default: true)
	Header bool `env:"CSVMAP_HEADER" default:"true"`
}

// AutoMapConfig holds header matching settings.
type AutoMapConfig struct {
	// Threshold is the minimum similarity for a suggestion, in (0, 1] (default: 0.8)
	Threshold float64 `env:"AUTOMAP_THRESHOLD" default:"0.8"`

	// Mode is the matching direction: source or target (default: source)
	Mode string `env:"AUTOMAP_MODE" default:"source"`
}

// InputConfig holds limits applied to a single run.
type InputConfig struct {
	// MaxFileSize is the maximum accepted input size in bytes (default: 100MB)
	MaxFileSize int64 `env:"CSVMAP_MAX_FILE_SIZE" default:"104857600"`

	// Timeout bounds a single transform; 0 disables it (default: 10m)
	Timeout time.Duration `env:"CSVMAP_TIMEOUT" default:"10m"`

	// SchemaFiles are schema files registered at startup, comma-separated
	SchemaFiles []string `env:"CSVMAP_SCHEMA_FILES"`

	// Templates is the default import templates file
	Templates string `env:"CSVMAP_TEMPLATES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// NewlineString returns the record terminator Newline names.
func (c *CodecConfig) NewlineString() string {
	if c.Newline == "crlf" {
		return "\r\n"
	}
	return "\n"
}
