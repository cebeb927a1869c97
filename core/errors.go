package core

import (
	"errors"
	"fmt"
)

// Standard error categories for predictor operations
const (
	ErrCategoryArtifact   = "artifact"
	ErrCategoryEncoding   = "encoding"
	ErrCategoryValidation = "validation"
	ErrCategoryInference  = "inference"
	ErrCategoryStorage    = "storage"
	ErrCategoryConfig     = "config"
)

// Sentinel errors for common conditions
var (
	ErrDataNotFound        = errors.New("data not found")
	ErrArtifactUnavailable = errors.New("model artifact unavailable")
	ErrUnknownLabel        = errors.New("unknown label")
	ErrInvalidRecord       = errors.New("invalid shipment record")
)

// NewError creates a standardized error with a category prefix
func NewError(category, message string, err error) error {
	if err != nil {
		return fmt.Errorf("%s error: %s: %w", category, message, err)
	}
	return fmt.Errorf("%s error: %s", category, message)
}

// ArtifactError creates a standardized artifact error. The result always
// matches ErrArtifactUnavailable.
func ArtifactError(message string, err error) error {
	if err != nil {
		return fmt.Errorf("%s error: %s: %w: %w", ErrCategoryArtifact, message, ErrArtifactUnavailable, err)
	}
	return NewError(ErrCategoryArtifact, message, ErrArtifactUnavailable)
}

// EncodingError creates a standardized encoding error
func EncodingError(message string, err error) error {
	return NewError(ErrCategoryEncoding, message, err)
}

// InferenceError creates a standardized inference error
func InferenceError(message string, err error) error {
	return NewError(ErrCategoryInference, message, err)
}

// StorageError creates a standardized storage error
func StorageError(message string, err error) error {
	return NewError(ErrCategoryStorage, message, err)
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, err error) error {
	return NewError(ErrCategoryConfig, message, err)
}

// IsErrNotFound checks if an error is a "not found" error
func IsErrNotFound(err error) bool {
	return errors.Is(err, ErrDataNotFound)
}

// IsErrArtifact checks if an error is caused by a missing or unusable model artifact
func IsErrArtifact(err error) bool {
	return errors.Is(err, ErrArtifactUnavailable)
}

// IsErrInvalidInput checks if an error was caused by the submitted values
func IsErrInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidRecord) || errors.Is(err, ErrUnknownLabel)
}

// NotFoundError creates a standardized "not found" error
func NotFoundError(category, item string) error {
	return NewError(category, fmt.Sprintf("%s not found", item), ErrDataNotFound)
}

// FieldError describes one rejected form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every rejected field of a submission
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation error"
	}
	msg := fmt.Sprintf("%s error: %s: %s", ErrCategoryValidation, v[0].Field, v[0].Message)
	if len(v) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(v)-1)
	}
	return msg
}

// Unwrap lets errors.Is match ErrInvalidRecord
func (v ValidationErrors) Unwrap() error {
	return ErrInvalidRecord
}

// Field returns the message for a field, or "" if it was accepted
func (v ValidationErrors) Field(name string) string {
	for _, fe := range v {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}
