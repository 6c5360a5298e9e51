package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid number: %w", err)
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Split comma-separated values, trim whitespace
			parts := strings.Split(value, ",")
			result := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
			field.Set(reflect.ValueOf(result))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Codec validation
	for _, f := range []struct {
		env, value string
	}{
		{"CSVMAP_DELIMITER", c.Codec.Delimiter},
		{"CSVMAP_QUOTE", c.Codec.Quote},
		{"CSVMAP_ESCAPE", c.Codec.Escape},
	} {
		if utf8.RuneCountInString(f.value) > 1 {
			errs = append(errs, fmt.Sprintf("%s (%q) must be a single character", f.env, f.value))
		}
	}
	if c.Codec.Delimiter == "\n" || c.Codec.Delimiter == "\r" || c.Codec.Delimiter == "\"" {
		errs = append(errs, fmt.Sprintf("CSVMAP_DELIMITER (%q) is not a valid separator", c.Codec.Delimiter))
	}
	validNewlines := map[string]bool{"lf": true, "crlf": true}
	if !validNewlines[strings.ToLower(c.Codec.Newline)] {
		errs = append(errs, fmt.Sprintf("CSVMAP_NEWLINE (%q) must be one of: lf, crlf", c.Codec.Newline))
	}
	if c.Codec.SampleLines <= 0 {
		errs = append(errs, "CSVMAP_SAMPLE_LINES must be positive")
	}

	// Auto-map validation
	if c.AutoMap.Threshold <= 0 || c.AutoMap.Threshold > 1 {
		errs = append(errs, fmt.Sprintf("AUTOMAP_THRESHOLD (%g) must be in (0, 1]", c.AutoMap.Threshold))
	}
	validModes := map[string]bool{"source": true, "target": true}
	if !validModes[strings.ToLower(c.AutoMap.Mode)] {
		errs = append(errs, fmt.Sprintf("AUTOMAP_MODE (%q) must be one of: source, target", c.AutoMap.Mode))
	}

	// Input validation
	if c.Input.MaxFileSize <= 0 {
		errs = append(errs, "CSVMAP_MAX_FILE_SIZE must be positive")
	}
	if c.Input.Timeout < 0 {
		errs = append(errs, "CSVMAP_TIMEOUT must be non-negative")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Codec: {Delimiter: %q, Quote: %q, Newline: %q, Header: %v}, ",
		c.Codec.Delimiter, c.Codec.Quote, c.Codec.Newline, c.Codec.Header))
	b.WriteString(fmt.Sprintf("AutoMap: {Threshold: %g, Mode: %q}, ", c.AutoMap.Threshold, c.AutoMap.Mode))
	b.WriteString(fmt.Sprintf("Input: {MaxFileSize: %d, Timeout: %s, SchemaFiles: %d}, ",
		c.Input.MaxFileSize, c.Input.Timeout, len(c.Input.SchemaFiles)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
