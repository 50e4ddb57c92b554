package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsStandardError(t *testing.T) {
	cause := errors.New("connection refused")

	t.Run("unwraps wrapped standard error", func(t *testing.T) {
		wrapped := fmt.Errorf("receive: %w", NewQueueUnavailableError("receive", cause))

		stdErr := AsStandardError(wrapped)
		assert.Equal(t, ErrCodeQueueUnavailable, stdErr.Code)
		assert.True(t, stdErr.Retryable)
		assert.ErrorIs(t, stdErr, cause)
		assert.True(t, HasCode(wrapped, ErrCodeQueueUnavailable))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		stdErr := AsStandardError(cause)
		assert.Equal(t, ErrCodeInternal, stdErr.Code)
		assert.False(t, stdErr.Retryable)
		assert.Equal(t, "connection refused", stdErr.Details)
		assert.False(t, HasCode(cause, ErrCodeInternal))
	})
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{
			name:        "search failure retries",
			err:         NewSearchQueryFailedError("Italian", errors.New("timeout")),
			wantCode:    "SEARCH_QUERY_FAILED",
			wantRetries: 3,
		},
		{
			name:        "catalog failure retries less",
			err:         NewCatalogLookupFailedError("b1", errors.New("boom")),
			wantCode:    "CATALOG_LOOKUP_FAILED",
			wantRetries: 2,
		},
		{
			name:        "invalid request is not retried",
			err:         NewInvalidFulfillmentRequestError("cuisine is required"),
			wantCode:    "INVALID_FULFILLMENT_REQUEST",
			wantRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)

			vars := bpmn.ToErrorVariables()
			require.Contains(t, vars, "originalErrorCode")
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "QUEUE", GetErrorCategory(ErrCodeQueueUnavailable))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeHistoryUnavailable))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeCatalogLookupFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidDialogEvent))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestRetryableFollowsRetryCount(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name      string
		err       *StandardError
		retryable bool
	}{
		{name: "queue", err: NewQueueUnavailableError("send", cause), retryable: true},
		{name: "history", err: NewHistoryUnavailableError("get", cause), retryable: true},
		{name: "search", err: NewSearchQueryFailedError("Thai", cause), retryable: true},
		{name: "catalog", err: NewCatalogLookupFailedError("b1", cause), retryable: true},
		{name: "notification", err: NewNotificationSendFailedError("ses", cause), retryable: true},
		{name: "invalid request", err: NewInvalidFulfillmentRequestError("cuisine: required"), retryable: false},
		{name: "invalid event", err: NewInvalidDialogEventError("no intent"), retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.Equal(t, tt.retryable, IsRetryableErrorCode(tt.err.Code))
		})
	}
}
