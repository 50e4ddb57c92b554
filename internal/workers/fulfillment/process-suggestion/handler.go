package processsuggestion

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
)

const TaskType = "process-suggestion"

type Handler struct {
	config   *Config
	queue    Queue
	search   SearchIndex
	catalog  Catalog
	notifier Notifier
	logger   logger.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

func NewHandler(config *Config, deps HandlerDependencies) *Handler {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	rnd := deps.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Handler{
		config:   config,
		queue:    deps.Queue,
		search:   deps.Search,
		catalog:  deps.Catalog,
		notifier: deps.Notifier,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
		rand:     rnd,
	}
}

// ProcessOne consumes at most one queued request. Receive and search failures
// leave the message for redelivery; every other path acknowledges it.
func (h *Handler) ProcessOne(ctx context.Context) (Outcome, error) {
	msg, err := h.queue.ReceiveOne(ctx, h.config.PollWait)
	if err != nil {
		return "", err
	}
	if msg == nil {
		return OutcomeNoWork, nil
	}

	log := h.logger.WithFields(map[string]interface{}{"messageId": msg.ID})

	req, err := parseRequest(msg.Body)
	if err != nil {
		log.Warn("dropping invalid fulfillment request", map[string]interface{}{"error": err})
		return OutcomeRejected, h.acknowledge(ctx, msg.Handle, log)
	}
	if req.RequestID != "" {
		log = log.WithFields(map[string]interface{}{"requestId": req.RequestID})
	}

	ids, err := h.search.SearchByCuisine(ctx, req.Cuisine, h.config.MaxCandidates)
	if err != nil {
		log.Error("search failed, leaving message for redelivery", map[string]interface{}{
			"error":   err,
			"cuisine": req.Cuisine,
		})
		return "", err
	}

	pool := dedupe(ids)
	if len(pool) == 0 {
		log.Info("no restaurants found for cuisine", map[string]interface{}{"cuisine": req.Cuisine})
		return OutcomeNotFound, h.acknowledge(ctx, msg.Handle, log)
	}

	picked := h.sample(pool, h.config.SampleSize)
	restaurants := h.resolve(ctx, picked, log)

	if len(restaurants) > 0 && req.Email != "" {
		subject := formatSubject(req.Cuisine)
		body := formatBody(req, restaurants)
		if err := h.notifier.Send(ctx, req.Email, subject, body); err != nil {
			log.Error("failed to send suggestions", map[string]interface{}{"error": err})
		} else {
			log.Info("suggestions sent", map[string]interface{}{
				"cuisine":     req.Cuisine,
				"restaurants": len(restaurants),
			})
		}
	}

	return OutcomeDelivered, h.acknowledge(ctx, msg.Handle, log)
}

func (h *Handler) acknowledge(ctx context.Context, handle string, log logger.Logger) error {
	if err := h.queue.Acknowledge(ctx, handle); err != nil {
		log.Error("failed to acknowledge message", map[string]interface{}{"error": err})
		return err
	}
	return nil
}

func (h *Handler) resolve(ctx context.Context, ids []string, log logger.Logger) []*models.Restaurant {
	restaurants := make([]*models.Restaurant, 0, len(ids))
	for _, id := range ids {
		r, err := h.catalog.GetByID(ctx, id)
		if err != nil {
			if !errors.Is(err, models.ErrRestaurantNotFound) {
				log.Warn("catalog lookup failed, skipping", map[string]interface{}{
					"businessId": id,
					"error":      err,
				})
			}
			continue
		}
		restaurants = append(restaurants, r)
	}
	return restaurants
}

// sample draws up to n ids without replacement using a partial Fisher-Yates
// shuffle over a copy of pool.
func (h *Handler) sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}

	picked := make([]string, len(pool))
	copy(picked, pool)

	h.randMu.Lock()
	defer h.randMu.Unlock()
	for i := 0; i < n; i++ {
		j := i + h.rand.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:n]
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
