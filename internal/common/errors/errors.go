// Package errors provides standardized error handling for the ranking engine.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeVocabularyLoadFailed    ErrorCode = "VOCABULARY_LOAD_FAILED"
	ErrCodeNormalizationUnresolved ErrorCode = "NORMALIZATION_UNRESOLVED"

	ErrCodeEmbeddingFailed  ErrorCode = "EMBEDDING_FAILED"
	ErrCodeEmbeddingTimeout ErrorCode = "EMBEDDING_TIMEOUT"

	ErrCodeClassificationFailed  ErrorCode = "CLASSIFICATION_FAILED"
	ErrCodeClassificationTimeout ErrorCode = "CLASSIFICATION_TIMEOUT"

	ErrCodeReasoningFailed      ErrorCode = "REASONING_FAILED"
	ErrCodeReasoningTimeout     ErrorCode = "REASONING_TIMEOUT"
	ErrCodeReasoningParseFailed ErrorCode = "REASONING_PARSE_FAILED"

	ErrCodeInvalidScoringConfig ErrorCode = "INVALID_SCORING_CONFIG"
	ErrCodeRankingFailed        ErrorCode = "RANKING_FAILED"
	ErrCodeApplicantNotMatched  ErrorCode = "APPLICANT_NOT_MATCHED"

	ErrCodeRequestValidationFailed ErrorCode = "REQUEST_VALIDATION_FAILED"
	ErrCodeCacheUnavailable        ErrorCode = "CACHE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewVocabularyLoadFailedError creates a non-retryable vocabulary load error.
// Loading failures are isolated per vocabulary; callers keep serving the
// vocabularies that did load.
func NewVocabularyLoadFailedError(vocabulary string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeVocabularyLoadFailed,
		Message:   "Failed to load canonical vocabulary",
		Details:   fmt.Sprintf("vocabulary: %s, error: %s", vocabulary, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingFailedError creates a retryable embedding service error.
func NewEmbeddingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingFailed,
		Message:   "Embedding service call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingTimeoutError creates a retryable embedding timeout error.
func NewEmbeddingTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingTimeout,
		Message:   "Embedding service timeout",
		Details:   "call exceeded configured timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassificationFailedError creates a retryable classification error.
func NewClassificationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassificationFailed,
		Message:   "LLM classification call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReasoningFailedError creates a retryable reasoning service error.
func NewReasoningFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReasoningFailed,
		Message:   "Reasoning service call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReasoningParseFailedError creates a non-retryable parse error; the
// caller is expected to fall back to the deterministic tie-break scheme.
func NewReasoningParseFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReasoningParseFailed,
		Message:   "Reasoning service reply could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidScoringConfigError creates a non-retryable configuration error.
// Configuration problems fail at process start, never per request.
func NewInvalidScoringConfigError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidScoringConfig,
		Message:   "Scoring configuration is inconsistent",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRankingFailedError creates a non-retryable ranking error.
func NewRankingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRankingFailed,
		Message:   "Ranking run failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicantNotMatchedError marks a reasoning reply naming an applicant
// outside the current batch. The adjustment is dropped, never misapplied.
func NewApplicantNotMatchedError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicantNotMatched,
		Message:   "Reasoning reply named an unknown applicant",
		Details:   fmt.Sprintf("candidateName: %s", name),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestValidationFailedError creates a non-retryable input error.
func NewRequestValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestValidationFailed,
		Message:   "Ranking request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeEmbeddingFailed,
		ErrCodeClassificationFailed,
		ErrCodeReasoningFailed:
		return 3

	case ErrCodeEmbeddingTimeout,
		ErrCodeClassificationTimeout,
		ErrCodeReasoningTimeout:
		return 1

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VOCABULARY") || strings.Contains(codeStr, "NORMALIZATION"):
		return "NORMALIZATION"
	case strings.Contains(codeStr, "EMBEDDING"):
		return "EMBEDDING"
	case strings.Contains(codeStr, "CLASSIFICATION") || strings.Contains(codeStr, "REASONING"):
		return "AI"
	case strings.Contains(codeStr, "CONFIG") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "RANKING") || strings.Contains(codeStr, "APPLICANT"):
		return "RANKING"
	default:
		return "OTHER"
	}
}
