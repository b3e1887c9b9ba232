package config

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrInvalidSetting marks every validation failure.
var ErrInvalidSetting = errors.New("invalid setting")

var allowed = map[string][]string{
	"strategy":   {"direct", "expand"},
	"language":   {"en", "ja"},
	"output":     {"text", "json"},
	"log_level":  {"debug", "info", "warn", "error"},
	"log_format": {"text", "json"},
}

// Validate checks cfg and returns every problem found.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.Wrap(ErrInvalidSetting, "config is nil")}
	}
	var errs []error
	for key, value := range map[string]string{
		"strategy":   cfg.Strategy,
		"language":   cfg.Language,
		"output":     cfg.Output,
		"log_level":  cfg.LogLevel,
		"log_format": cfg.LogFormat,
	} {
		if !slices.Contains(allowed[key], value) {
			errs = append(errs, errors.Wrapf(ErrInvalidSetting, "%s: %q is not one of %v", key, value, allowed[key]))
		}
	}
	if cfg.MaxVariants < 0 {
		errs = append(errs, errors.Wrapf(ErrInvalidSetting, "max_variants: must be >= 0, got %d", cfg.MaxVariants))
	}
	slices.SortFunc(errs, func(a, b error) int {
		switch {
		case a.Error() < b.Error():
			return -1
		case a.Error() > b.Error():
			return 1
		}
		return 0
	})
	return errs
}
