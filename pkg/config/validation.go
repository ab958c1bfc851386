package config

import (
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// This function uses go-playground/validator for declarative validation
// via struct tags, with additional custom validation for rules that span
// several roots. Every violated custom rule is reported, not just the first.
//
// Note: Log level normalization and "~" expansion are handled in
// ApplyDefaults, not here.
func Validate(cfg *Config) error {
	// Run struct tag validation
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	// Custom validation rules that can't be expressed in tags
	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	var result *multierror.Error

	tags := make(map[string]int, len(cfg.Roots))
	paths := make(map[string]int, len(cfg.Roots))

	for i, root := range cfg.Roots {
		// Tags are unique
		if j, dup := tags[root.Tag]; dup {
			result = multierror.Append(result, fmt.Errorf("roots[%d]: duplicate tag %q (also roots[%d])", i, root.Tag, j))
		} else {
			tags[root.Tag] = i
		}

		// Paths are absolute
		if !filepath.IsAbs(root.Path) {
			result = multierror.Append(result, fmt.Errorf("roots[%d]: path %q must be absolute", i, root.Path))
			continue
		}

		// No two roots share a base directory
		clean := filepath.Clean(root.Path)
		if j, dup := paths[clean]; dup {
			result = multierror.Append(result, fmt.Errorf("roots[%d]: path %q already used by roots[%d]", i, root.Path, j))
		} else {
			paths[clean] = i
		}
	}

	return result.ErrorOrNil()
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		// Return the first validation error with context
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
