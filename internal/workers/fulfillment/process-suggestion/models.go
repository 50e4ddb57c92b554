package processsuggestion

import (
	"context"
	"math/rand"
	"time"

	"dining-concierge/internal/adapter/queue"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
)

// Outcome is the result of one ProcessOne call.
type Outcome string

const (
	OutcomeNoWork    Outcome = "NoWork"
	OutcomeNotFound  Outcome = "NotFound"
	OutcomeDelivered Outcome = "Delivered"
	// OutcomeRejected means the message body failed validation and was dropped.
	OutcomeRejected Outcome = "Rejected"
)

type Queue interface {
	ReceiveOne(ctx context.Context, wait time.Duration) (*queue.Message, error)
	Acknowledge(ctx context.Context, handle string) error
}

type SearchIndex interface {
	SearchByCuisine(ctx context.Context, cuisine string, limit int) ([]string, error)
}

// Catalog resolves a business id. Unknown ids return models.ErrRestaurantNotFound.
type Catalog interface {
	GetByID(ctx context.Context, businessID string) (*models.Restaurant, error)
}

type Notifier interface {
	Send(ctx context.Context, destination, subject, body string) error
}

type HandlerDependencies struct {
	Queue    Queue
	Search   SearchIndex
	Catalog  Catalog
	Notifier Notifier
	// Rand drives sampling; seed it for reproducible picks.
	Rand   *rand.Rand
	Logger logger.Logger
}

// suggestionRequest is the queued message body after defaults are applied.
type suggestionRequest struct {
	RequestID      string `json:"requestId"`
	Location       string `json:"location"`
	Cuisine        string `json:"cuisine"`
	DiningTime     string `json:"diningTime"`
	NumberOfPeople string `json:"numberOfPeople"`
	Email          string `json:"email"`
}

// DrainOutput is the variable set written back when a drain job completes.
type DrainOutput struct {
	Processed int            `json:"processed"`
	Outcomes  map[string]int `json:"outcomes"`
	Drained   bool           `json:"drained"`
}
