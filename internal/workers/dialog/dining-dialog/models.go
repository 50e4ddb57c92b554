package diningdialog

import (
	"context"
	"time"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
)

// FulfillmentQueue receives completed requests.
type FulfillmentQueue interface {
	Enqueue(ctx context.Context, req *models.FulfillmentRequest) error
}

// HistoryStore holds each user's last completed search. Get returns nil, nil
// when there is no record.
type HistoryStore interface {
	Get(ctx context.Context, email string) (*models.HistoryRecord, error)
	Put(ctx context.Context, record *models.HistoryRecord) error
}

type HandlerDependencies struct {
	Queue   FulfillmentQueue
	History HistoryStore
	Logger  logger.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// ErrorResponse is the body returned for a malformed code-hook event.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
