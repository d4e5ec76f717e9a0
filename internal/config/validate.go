package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if len(cfg.Inputs) == 0 {
		errs = append(errs, ValidationError{Field: "input", Message: "at least one -input is required"})
	}
	if len(cfg.Outputs) == 0 && !cfg.PrintCmd {
		errs = append(errs, ValidationError{Field: "output", Message: "at least one -output is required"})
	}

	for _, o := range cfg.GlobalOpts {
		if o == "" {
			errs = append(errs, ValidationError{Field: "opt", Message: "must not be empty"})
			continue
		}
		if o[0] != '-' {
			errs = append(errs, ValidationError{Field: "opt", Message: fmt.Sprintf("must start with '-' (got %q)", o)})
		}
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.LogFormat] {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("must be 'json' or 'text' (got %q)", cfg.LogFormat),
		})
	}

	if cfg.Timeout < 0 {
		errs = append(errs, ValidationError{Field: "timeout", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ApplyCheckMode modifies config for --check mode: it forces verbose
// logging so the caller can see the validated job before deciding
// whether to run it for real.
func ApplyCheckMode(cfg *Config) {
	cfg.Verbose = true
}
