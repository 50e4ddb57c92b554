package diningdialog

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// MaxEventBytes caps the size of a code-hook event body.
const MaxEventBytes = "64K"

// RegisterRoutes mounts the code-hook endpoint behind the body limit.
func (h *Handler) RegisterRoutes(e *echo.Echo, middleware ...echo.MiddlewareFunc) {
	mw := append([]echo.MiddlewareFunc{echoMiddleware.BodyLimit(MaxEventBytes)}, middleware...)
	e.POST("/dialog", h.HandleEvent, mw...)
}

// HandleEvent decodes a code-hook event, decides, and writes the response.
func (h *Handler) HandleEvent(c echo.Context) error {
	var req models.IntentRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    string(apperrors.ErrCodeInvalidDialogEvent),
			Message: "Malformed dialog event",
			Details: err.Error(),
		})
	}

	ctx := c.Request().Context()
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	resp, err := h.Decide(ctx, &req)
	if err != nil {
		stdErr := apperrors.AsStandardError(err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    string(stdErr.Code),
			Message: stdErr.Message,
			Details: stdErr.Details,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// RateLimiter applies a shared token bucket to the code hook. A non-positive
// limit disables it.
func RateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	if burst <= 0 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	var mu sync.Mutex

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			mu.Lock()
			allowed := limiter.AllowN(time.Now(), 1)
			mu.Unlock()

			if !allowed {
				return c.JSON(http.StatusTooManyRequests, ErrorResponse{
					Code:    "RATE_LIMITED",
					Message: "dialog rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}
