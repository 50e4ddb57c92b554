package diningdialog

import (
	"context"
	"strconv"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/models"

	"github.com/google/uuid"
)

const (
	TaskType = "dining-dialog"

	sourceNewSearch = "new_search"
	sourceRepeat    = "returning_user"
)

type Handler struct {
	config  *Config
	queue   FulfillmentQueue
	history HistoryStore
	clock   func() time.Time
	logger  logger.Logger
}

func NewHandler(config *Config, deps HandlerDependencies) *Handler {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Handler{
		config:  config,
		queue:   deps.Queue,
		history: deps.History,
		clock:   clock,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Decide returns the next dialog action for one user turn. Collaborator
// failures become apology messages; only a malformed event is an error.
func (h *Handler) Decide(ctx context.Context, req *models.IntentRequest) (*models.IntentResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	intent := req.Intent()
	log := h.logger.WithFields(map[string]interface{}{
		"intent":    intent.String(),
		"phase":     string(req.InvocationSource),
		"sessionId": req.SessionID,
	})

	var resp *models.IntentResponse
	switch intent {
	case models.IntentGreeting:
		resp = closeIntent(req, msgGreeting)
	case models.IntentThankYou:
		resp = closeIntent(req, msgThankYou)
	case models.IntentDiningSuggestions:
		resp = h.diningSuggestions(ctx, req, log)
	case models.IntentReturningUser:
		resp = h.returningUser(ctx, req, log)
	case models.IntentUnknown:
		resp = closeIntent(req, msgUnknownIntent)
	default:
		resp = closeIntent(req, msgUnknownIntent)
	}

	metrics.DialogActions.WithLabelValues(intent.String(), string(resp.Action())).Inc()
	log.Debug("dialog action decided", map[string]interface{}{"action": string(resp.Action())})
	return resp, nil
}

func validateRequest(req *models.IntentRequest) error {
	if req == nil {
		return apperrors.NewInvalidDialogEventError("event is empty")
	}
	if req.SessionState.Intent.Name == "" {
		return apperrors.NewInvalidDialogEventError("sessionState.intent.name is required")
	}
	if !req.InvocationSource.Valid() {
		return apperrors.NewInvalidDialogEventError("invocationSource must be DialogCodeHook or FulfillmentCodeHook")
	}
	return nil
}

func (h *Handler) diningSuggestions(ctx context.Context, req *models.IntentRequest, log logger.Logger) *models.IntentResponse {
	slots := req.Slots()
	location := slots.Get(models.SlotLocation)

	if location != "" && !isSupportedLocation(location) {
		attempts := locationAttempts(req) + 1
		log.Info("location rejected", map[string]interface{}{
			"location": location,
			"attempts": attempts,
		})
		if h.config.MaxLocationAttempts > 0 && attempts >= h.config.MaxLocationAttempts {
			return resetLocationAttempts(closeIntent(req, msgAreaUnsupported))
		}
		resp := elicitSlot(req, models.SlotLocation, msgLocationRejected)
		resp.SessionState.SessionAttributes[locationAttemptsKey] = strconv.Itoa(attempts)
		return resp
	}

	if req.InvocationSource != models.FulfillmentCodeHook {
		resp := delegate(req)
		if location != "" {
			resetLocationAttempts(resp)
		}
		return resp
	}

	fr := &models.FulfillmentRequest{
		RequestID:      uuid.NewString(),
		Location:       location,
		Cuisine:        slots.Get(models.SlotCuisine),
		DiningTime:     slots.Get(models.SlotDiningTime),
		NumberOfPeople: slots.Get(models.SlotNumberOfPeople),
		Email:          slots.Get(models.SlotEmail),
		Timestamp:      h.clock().UTC(),
	}
	if !fr.Complete() {
		resp := delegate(req)
		if location != "" {
			resetLocationAttempts(resp)
		}
		return resp
	}

	log = log.WithFields(map[string]interface{}{"requestId": fr.RequestID})

	if err := h.queue.Enqueue(ctx, fr); err != nil {
		log.Error("failed to enqueue fulfillment request", map[string]interface{}{"error": err})
		return resetLocationAttempts(closeIntent(req, msgTryLater))
	}
	metrics.DialogRequestsEnqueued.WithLabelValues(sourceNewSearch).Inc()

	// the request is already queued, so a failed history write only costs the shortcut next time
	if err := h.history.Put(ctx, models.HistoryFromRequest(fr, fr.Timestamp)); err != nil {
		log.Warn("failed to save search history", map[string]interface{}{"error": err})
	}

	log.Info("fulfillment request enqueued", map[string]interface{}{"cuisine": fr.Cuisine})

	return resetLocationAttempts(
		closeIntent(req, confirmationMessage(fr.Cuisine, fr.DiningTime, fr.NumberOfPeople, fr.Email)))
}

func (h *Handler) returningUser(ctx context.Context, req *models.IntentRequest, log logger.Logger) *models.IntentResponse {
	slots := req.Slots()
	email := slots.Get(models.SlotEmail)
	if email == "" {
		return delegate(req)
	}

	answer := slots.Get(models.SlotConfirmSuggestion)
	if answer == "" {
		record, err := h.history.Get(ctx, email)
		if err != nil {
			log.Error("history lookup failed", map[string]interface{}{"error": err})
			return closeIntent(req, msgTryLater)
		}
		if record == nil {
			return closeIntent(req, msgNoHistory)
		}
		return elicitSlot(req, models.SlotConfirmSuggestion,
			lastSearchSummary(record.Cuisine, record.Location, record.DiningTime, record.NumberOfPeople))
	}

	if !isAffirmative(answer) {
		return closeIntent(req, msgStartNewSearch)
	}

	record, err := h.history.Get(ctx, email)
	if err != nil {
		log.Error("history lookup failed", map[string]interface{}{"error": err})
		return closeIntent(req, msgTryLater)
	}
	if record == nil {
		return closeIntent(req, msgNoHistory)
	}

	fr := &models.FulfillmentRequest{
		RequestID:      uuid.NewString(),
		Location:       record.Location,
		Cuisine:        record.Cuisine,
		DiningTime:     record.DiningTime,
		NumberOfPeople: record.NumberOfPeople,
		Email:          record.Email,
		Timestamp:      h.clock().UTC(),
	}
	if fr.Email == "" {
		fr.Email = models.NormalizeEmail(email)
	}

	if err := h.queue.Enqueue(ctx, fr); err != nil {
		log.Error("failed to enqueue repeat request", map[string]interface{}{
			"error":     err,
			"requestId": fr.RequestID,
		})
		return closeIntent(req, msgTryLater)
	}
	metrics.DialogRequestsEnqueued.WithLabelValues(sourceRepeat).Inc()

	log.Info("repeat request enqueued", map[string]interface{}{"requestId": fr.RequestID})
	return closeIntent(req, sendingNowMessage(fr.Cuisine, fr.Email))
}

func locationAttempts(req *models.IntentRequest) int {
	n, err := strconv.Atoi(req.SessionState.SessionAttributes[locationAttemptsKey])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// resetLocationAttempts drops the rejection counter once a location is accepted
// or the search closes.
func resetLocationAttempts(resp *models.IntentResponse) *models.IntentResponse {
	delete(resp.SessionState.SessionAttributes, locationAttemptsKey)
	return resp
}

func sessionAttributes(req *models.IntentRequest) map[string]string {
	attrs := make(map[string]string, len(req.SessionState.SessionAttributes)+1)
	for k, v := range req.SessionState.SessionAttributes {
		attrs[k] = v
	}
	return attrs
}

func plainText(content string) []models.Message {
	return []models.Message{{ContentType: "PlainText", Content: content}}
}

func closeIntent(req *models.IntentRequest, message string) *models.IntentResponse {
	return &models.IntentResponse{
		SessionState: models.SessionState{
			DialogAction: &models.DialogAction{Type: models.DialogActionClose},
			Intent: models.IntentPayload{
				Name:  req.SessionState.Intent.Name,
				Slots: req.Slots().Clone(),
				State: models.IntentStateFulfilled,
			},
			SessionAttributes: sessionAttributes(req),
		},
		Messages: plainText(message),
	}
}

func elicitSlot(req *models.IntentRequest, slot, message string) *models.IntentResponse {
	return &models.IntentResponse{
		SessionState: models.SessionState{
			DialogAction: &models.DialogAction{Type: models.DialogActionElicitSlot, SlotToElicit: slot},
			Intent: models.IntentPayload{
				Name:  req.SessionState.Intent.Name,
				Slots: req.Slots().Clone(),
				State: req.SessionState.Intent.State,
			},
			SessionAttributes: sessionAttributes(req),
		},
		Messages: plainText(message),
	}
}

func delegate(req *models.IntentRequest) *models.IntentResponse {
	return &models.IntentResponse{
		SessionState: models.SessionState{
			DialogAction: &models.DialogAction{Type: models.DialogActionDelegate},
			Intent: models.IntentPayload{
				Name:  req.SessionState.Intent.Name,
				Slots: req.Slots().Clone(),
				State: req.SessionState.Intent.State,
			},
			SessionAttributes: sessionAttributes(req),
		},
	}
}
