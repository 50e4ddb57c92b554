package diningdialog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dining-concierge/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandleEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantAction models.DialogActionType
	}{
		{
			name:       "greeting",
			body:       `{"invocationSource":"DialogCodeHook","sessionState":{"intent":{"name":"GreetingIntent","state":"InProgress"}}}`,
			wantStatus: http.StatusOK,
			wantAction: models.DialogActionClose,
		},
		{
			name:       "dining suggestions still eliciting",
			body:       `{"invocationSource":"DialogCodeHook","sessionState":{"intent":{"name":"DiningSuggestionsIntent","slots":{"Location":{"value":{"interpretedValue":"Manhattan"}},"Cuisine":null}}}}`,
			wantStatus: http.StatusOK,
			wantAction: models.DialogActionDelegate,
		},
		{
			name:       "malformed json",
			body:       `{"invocationSource":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DIALOG_EVENT",
		},
		{
			name:       "invalid phase",
			body:       `{"invocationSource":"Nope","sessionState":{"intent":{"name":"GreetingIntent"}}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DIALOG_EVENT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			h := newTestHandler(t, createTestConfig(), &MockQueue{}, &MockHistory{})
			h.RegisterRoutes(e)

			req := httptest.NewRequest(http.MethodPost, "/dialog", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantCode != "" {
				var errResp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Equal(t, tt.wantCode, errResp.Code)
				return
			}

			var resp models.IntentResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantAction, resp.Action())
		})
	}
}

func TestRateLimiter(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	t.Run("disabled", func(t *testing.T) {
		e := echo.New()
		mw := RateLimiter(0, 0)
		for i := 0; i < 10; i++ {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/dialog", nil), rec)
			require.NoError(t, mw(ok)(c))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("limits after burst", func(t *testing.T) {
		e := echo.New()
		mw := RateLimiter(0.001, 2)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/dialog", nil), rec)
			require.NoError(t, mw(ok)(c))
			codes = append(codes, rec.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})
}

func TestHandleEvent_BodyLimit(t *testing.T) {
	q := &MockQueue{}
	oversized := `{"invocationSource":"DialogCodeHook","padding":"` + strings.Repeat("x", 70*1024) + `"}`

	t.Run("declared length over limit", func(t *testing.T) {
		e := echo.New()
		h := newTestHandler(t, createTestConfig(), q, &MockHistory{})
		h.RegisterRoutes(e)

		req := httptest.NewRequest(http.MethodPost, "/dialog", strings.NewReader(oversized))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("unknown length over limit", func(t *testing.T) {
		e := echo.New()
		h := newTestHandler(t, createTestConfig(), q, &MockHistory{})
		h.RegisterRoutes(e)

		req := httptest.NewRequest(http.MethodPost, "/dialog", strings.NewReader(oversized))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.ContentLength = -1
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		assert.Equal(t, "INVALID_DIALOG_EVENT", errResp.Code)
	})

	q.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}
