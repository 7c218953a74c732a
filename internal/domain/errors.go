package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Embedding / retrieval errors
	CodeEmptyInput        ErrorCode = "EMPTY_INPUT"
	CodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"
	CodeRetrievalFailure  ErrorCode = "RETRIEVAL_FAILURE"

	// Generation errors
	CodeGenerationFailure       ErrorCode = "GENERATION_FAILURE"
	CodeSchemaValidationFailure ErrorCode = "SCHEMA_VALIDATION_FAILURE"
	CodeBankGenerationFailed    ErrorCode = "BANK_GENERATION_FAILED"

	// Diagnostic session errors
	CodeSessionNotFound  ErrorCode = "SESSION_NOT_FOUND"
	CodeSessionComplete  ErrorCode = "SESSION_COMPLETE"
	CodeQuestionNotFound ErrorCode = "QUESTION_NOT_FOUND"

	// Guard errors
	CodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeUnauthenticated   ErrorCode = "UNAUTHENTICATED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewEmptyInputError(message string) *DomainError {
	return NewError(CodeEmptyInput, message, nil)
}

func NewDimensionMismatchError(want, got int) *DomainError {
	return NewError(CodeDimensionMismatch,
		fmt.Sprintf("embedding dimension mismatch: want %d, got %d", want, got), nil)
}

func NewRetrievalFailureError(cause error) *DomainError {
	return NewError(CodeRetrievalFailure, "similarity search failed", cause)
}

func NewGenerationFailureError(cause error) *DomainError {
	return NewError(CodeGenerationFailure, "LLM generation failed", cause)
}

func NewSchemaValidationError(message string, cause error) *DomainError {
	return NewError(CodeSchemaValidationFailure, message, cause)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound,
		fmt.Sprintf("diagnostic session not found: %s", sessionID), nil)
}

func NewSessionCompleteError(sessionID string) *DomainError {
	return NewError(CodeSessionComplete,
		fmt.Sprintf("diagnostic session already complete: %s", sessionID), nil)
}

func NewQuestionNotFoundError(questionID string) *DomainError {
	return NewError(CodeQuestionNotFound,
		fmt.Sprintf("question not found in session: %s", questionID), nil)
}

func NewUnauthenticatedError() *DomainError {
	return NewError(CodeUnauthenticated, "no authenticated user for this request", nil)
}

// NewRateLimitExceededError carries the caller-usable retry delay in Context.
func NewRateLimitExceededError(namespace string, retryAfter time.Duration) *DomainError {
	return &DomainError{
		Code:    CodeRateLimitExceeded,
		Message: fmt.Sprintf("rate limit exceeded for %s", namespace),
		Context: map[string]interface{}{
			"retryAfterMs": retryAfter.Milliseconds(),
		},
	}
}
