// Package search finds candidate restaurant ids for a cuisine.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sony/gobreaker"
)

// BreakerSettings tunes the circuit breaker guarding the index.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

var DefaultBreakerSettings = BreakerSettings{
	MaxRequests:      3,
	Interval:         time.Minute,
	Timeout:          30 * time.Second,
	MinRequests:      3,
	FailureThreshold: 0.6,
}

type ElasticsearchIndex struct {
	client  *elasticsearch.Client
	index   string
	breaker *gobreaker.CircuitBreaker
	logger  logger.Logger
}

func NewElasticsearchIndex(client *elasticsearch.Client, index string, settings BreakerSettings, log logger.Logger) *ElasticsearchIndex {
	log = log.WithFields(map[string]interface{}{"component": "search-index", "index": index})

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "search-" + index,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= settings.MinRequests && failureRatio >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", map[string]interface{}{
				"from": from.String(),
				"to":   to.String(),
			})
		},
	})

	return &ElasticsearchIndex{
		client:  client,
		index:   index,
		breaker: breaker,
		logger:  log,
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string `json:"_id"`
			Source struct {
				RestaurantID string `json:"RestaurantID"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchByCuisine returns up to limit restaurant ids whose cuisine matches.
// Ids may repeat; callers de-duplicate.
func (s *ElasticsearchIndex) SearchByCuisine(ctx context.Context, cuisine string, limit int) ([]string, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.search(ctx, cuisine, limit)
	})
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(cuisine, err)
	}
	return result.([]string), nil
}

func (s *ElasticsearchIndex) search(ctx context.Context, cuisine string, limit int) ([]string, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"Cuisine": cuisine,
			},
		},
		"size":    limit,
		"_source": []string{"RestaurantID"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id := hit.Source.RestaurantID
		if id == "" {
			id = hit.ID
		}
		if id != "" {
			ids = append(ids, id)
		}
	}

	s.logger.Debug("search completed", map[string]interface{}{
		"cuisine": cuisine,
		"hits":    len(ids),
	})
	return ids, nil
}
