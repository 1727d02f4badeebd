package config

import (
	"fmt"
	"strings"

	composeerrors "github.com/serverless/compose/pkg/errors"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("%d problems: %s", len(ve), strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, format string, args ...any) {
	*ve = append(*ve, ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// Validate checks that doc is a composition document: it must declare
// services and must not be a single-service framework configuration, which is
// recognised by a provider.name field.
func Validate(doc map[string]any) error {
	services, ok := doc["services"]
	if !ok {
		return composeerrors.New(composeerrors.ErrCodeInvalidConfigurationShape,
			`the serverless-compose.yml file does not declare any "services"`)
	}
	if _, ok := asMapping(services); !ok {
		return composeerrors.New(composeerrors.ErrCodeInvalidConfigurationShape,
			`"services" in serverless-compose.yml must be a mapping of component names to definitions`)
	}

	if provider, ok := asMapping(doc["provider"]); ok {
		if _, ok := provider["name"]; ok {
			return composeerrors.New(composeerrors.ErrCodeInvalidConfigurationShape,
				"serverless-compose.yml looks like a single service configuration (it contains provider.name), "+
					"rename it to serverless.yml or describe components under \"services\"")
		}
	}
	return nil
}

// asMapping normalises the two mapping shapes a YAML decoder may produce.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
