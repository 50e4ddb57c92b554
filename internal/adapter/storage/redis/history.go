// Package redis stores each user's most recent completed search, keyed by the
// normalized email address.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"

	goredis "github.com/redis/go-redis/v9"
)

type HistoryStore struct {
	client    goredis.Cmdable
	keyPrefix string
	logger    logger.Logger
}

func NewHistoryStore(client goredis.Cmdable, keyPrefix string, log logger.Logger) *HistoryStore {
	return &HistoryStore{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    log.WithFields(map[string]interface{}{"component": "history-store"}),
	}
}

func (s *HistoryStore) key(email string) string {
	return s.keyPrefix + models.NormalizeEmail(email)
}

// Get returns the stored record, or nil when the email has no history.
func (s *HistoryStore) Get(ctx context.Context, email string) (*models.HistoryRecord, error) {
	raw, err := s.client.Get(ctx, s.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, apperrors.NewHistoryUnavailableError("get", err)
	}

	var record models.HistoryRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		// a corrupt entry is treated as no history; the next Put overwrites it
		s.logger.Warn("discarding unreadable history record", map[string]interface{}{
			"key":   s.key(email),
			"error": err,
		})
		return nil, nil
	}
	return &record, nil
}

// Put replaces the record for its email. Records do not expire.
func (s *HistoryStore) Put(ctx context.Context, record *models.HistoryRecord) error {
	if record == nil || models.NormalizeEmail(record.Email) == "" {
		return fmt.Errorf("history record requires an email")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}

	if err := s.client.Set(ctx, s.key(record.Email), payload, 0).Err(); err != nil {
		return apperrors.NewHistoryUnavailableError("put", err)
	}
	return nil
}
