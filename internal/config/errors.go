package config

import (
	"fmt"
	"strings"
)

// ConfigurationError describes one problem with the loaded configuration.
type ConfigurationError struct {
	FilePath    string   `json:"filePath"`
	Field       string   `json:"field"`
	ErrorType   string   `json:"errorType"` // parse, io or validation
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// Error implements the error interface
func (ce ConfigurationError) Error() string {
	if ce.Field != "" {
		return fmt.Sprintf("config %s: %s", ce.Field, ce.Message)
	}
	if ce.FilePath != "" {
		return fmt.Sprintf("config %s: %s", ce.FilePath, ce.Message)
	}
	return "config: " + ce.Message
}

// DetailedError returns a detailed error message with all context
func (ce ConfigurationError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Configuration Error (%s): %s", ce.ErrorType, ce.Message))
	if ce.FilePath != "" {
		parts = append(parts, fmt.Sprintf("  File: %s", ce.FilePath))
	}
	if ce.Field != "" {
		parts = append(parts, fmt.Sprintf("  Field: %s", ce.Field))
	}

	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}

	return strings.Join(parts, "\n")
}

// ConfigurationErrorCollection holds multiple configuration errors
type ConfigurationErrorCollection struct {
	Errors []ConfigurationError `json:"errors"`
}

// Error implements the error interface for the collection
func (cec ConfigurationErrorCollection) Error() string {
	if len(cec.Errors) == 0 {
		return "no configuration errors"
	}

	if len(cec.Errors) == 1 {
		return cec.Errors[0].Error()
	}

	return fmt.Sprintf("%d configuration errors: %s (and %d more)",
		len(cec.Errors), cec.Errors[0].Error(), len(cec.Errors)-1)
}

// HasErrors returns true if there are any errors in the collection
func (cec *ConfigurationErrorCollection) HasErrors() bool {
	return len(cec.Errors) > 0
}

// Add adds a new error to the collection
func (cec *ConfigurationErrorCollection) Add(err ConfigurationError) {
	cec.Errors = append(cec.Errors, err)
}

// AddValidation records an invalid field.
func (cec *ConfigurationErrorCollection) AddValidation(field, message string, suggestions ...string) {
	cec.Add(ConfigurationError{
		Field:       field,
		ErrorType:   "validation",
		Message:     message,
		Suggestions: suggestions,
	})
}

// DetailedError returns the detailed form of every error, one block each.
func (cec ConfigurationErrorCollection) DetailedError() string {
	blocks := make([]string, 0, len(cec.Errors))
	for _, err := range cec.Errors {
		blocks = append(blocks, err.DetailedError())
	}
	return strings.Join(blocks, "\n\n")
}
