package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, rt roundTripFunc) *elasticsearch.Client {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Transport: rt,
	})
	require.NoError(t, err)
	return client
}

func jsonResponse(status int, body string) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestElasticsearchIndex_SearchByCuisine(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/restaurants/_search", req.URL.Path)

		var query map[string]interface{}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&query))
		assert.Equal(t, float64(50), query["size"])
		match := query["query"].(map[string]interface{})["match"].(map[string]interface{})
		assert.Equal(t, "Italian", match["Cuisine"])

		return jsonResponse(http.StatusOK, `{"hits":{"hits":[
			{"_id":"doc1","_source":{"RestaurantID":"b1"}},
			{"_id":"doc2","_source":{"RestaurantID":"b2"}},
			{"_id":"b3","_source":{}}
		]}}`), nil
	})

	index := NewElasticsearchIndex(client, "restaurants", DefaultBreakerSettings, logger.NewTestLogger(t))
	ids, err := index.SearchByCuisine(context.Background(), "Italian", 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2", "b3"}, ids)
}

func TestElasticsearchIndex_NoHits(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"hits":{"hits":[]}}`), nil
	})

	index := NewElasticsearchIndex(client, "restaurants", DefaultBreakerSettings, logger.NewTestLogger(t))
	ids, err := index.SearchByCuisine(context.Background(), "Martian", 50)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestElasticsearchIndex_ErrorResponse(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"error":{"type":"index_not_found_exception"}}`), nil
	})

	index := NewElasticsearchIndex(client, "restaurants", DefaultBreakerSettings, logger.NewTestLogger(t))
	ids, err := index.SearchByCuisine(context.Background(), "Italian", 50)
	assert.Nil(t, ids)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSearchQueryFailed))
}

func TestElasticsearchIndex_BreakerOpens(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return jsonResponse(http.StatusInternalServerError, `{}`), nil
	})

	settings := BreakerSettings{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}
	index := NewElasticsearchIndex(client, "restaurants", settings, logger.NewTestLogger(t))

	for i := 0; i < 2; i++ {
		_, err := index.SearchByCuisine(context.Background(), "Italian", 50)
		require.Error(t, err)
	}
	callsBeforeOpen := atomic.LoadInt32(&calls)

	_, err := index.SearchByCuisine(context.Background(), "Italian", 50)
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSearchQueryFailed))
	assert.Equal(t, callsBeforeOpen, atomic.LoadInt32(&calls))
}
