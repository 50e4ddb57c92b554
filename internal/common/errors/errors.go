// Package errors provides the standard error shape shared by the dialog hook,
// the suggestion worker and the workflow drain trigger.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeQueueUnavailable          ErrorCode = "QUEUE_UNAVAILABLE"
	ErrCodeHistoryUnavailable        ErrorCode = "HISTORY_UNAVAILABLE"
	ErrCodeSearchQueryFailed         ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeCatalogLookupFailed       ErrorCode = "CATALOG_LOOKUP_FAILED"
	ErrCodeNotificationSendFailed    ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInvalidFulfillmentRequest ErrorCode = "INVALID_FULFILLMENT_REQUEST"
	ErrCodeInvalidDialogEvent        ErrorCode = "INVALID_DIALOG_EVENT"
	ErrCodeInternal                  ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the error value every component returns for classified
// failures.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// BPMNError is the shape thrown back to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message string, err error, details string) *StandardError {
	if details == "" && err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewQueueUnavailableError(op string, err error) *StandardError {
	return newError(ErrCodeQueueUnavailable, "Fulfillment queue unavailable", err,
		fmt.Sprintf("op: %s, error: %v", op, err))
}

func NewHistoryUnavailableError(op string, err error) *StandardError {
	return newError(ErrCodeHistoryUnavailable, "User history store unavailable", err,
		fmt.Sprintf("op: %s, error: %v", op, err))
}

func NewSearchQueryFailedError(cuisine string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Search index query failed", err,
		fmt.Sprintf("cuisine: %s, error: %v", cuisine, err))
}

func NewCatalogLookupFailedError(businessID string, err error) *StandardError {
	return newError(ErrCodeCatalogLookupFailed, "Restaurant catalog lookup failed", err,
		fmt.Sprintf("businessId: %s, error: %v", businessID, err))
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed", err,
		fmt.Sprintf("channel: %s, error: %v", channel, err))
}

func NewInvalidFulfillmentRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidFulfillmentRequest, "Fulfillment request failed validation", nil, details)
}

func NewInvalidDialogEventError(details string) *StandardError {
	return newError(ErrCodeInvalidDialogEvent, "Malformed dialog event", nil, details)
}

// AsStandardError unwraps err to a *StandardError, or wraps it as an internal
// error when it carries no classification.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", err, "")
}

// HasCode reports whether err is a *StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeQueueUnavailable:          "QUEUE_UNAVAILABLE",
	ErrCodeHistoryUnavailable:        "HISTORY_UNAVAILABLE",
	ErrCodeSearchQueryFailed:         "SEARCH_QUERY_FAILED",
	ErrCodeCatalogLookupFailed:       "CATALOG_LOOKUP_FAILED",
	ErrCodeNotificationSendFailed:    "NOTIFICATION_SEND_FAILED",
	ErrCodeInvalidFulfillmentRequest: "INVALID_FULFILLMENT_REQUEST",
	ErrCodeInvalidDialogEvent:        "INVALID_DIALOG_EVENT",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeQueueUnavailable,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeHistoryUnavailable,
		ErrCodeCatalogLookupFailed:
		return 2

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "QUEUE"):
		return "QUEUE"
	case strings.Contains(codeStr, "HISTORY") || strings.Contains(codeStr, "CATALOG"):
		return "STORAGE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
