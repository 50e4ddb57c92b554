package processsuggestion

import (
	"encoding/json"
	"strings"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/validation"
)

const defaultPartySize = "2"

const requestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["cuisine"],
	"properties": {
		"requestId":      {"type": "string"},
		"location":       {"type": "string"},
		"cuisine":        {"type": "string", "minLength": 1},
		"diningTime":     {"type": "string"},
		"numberOfPeople": {"type": "string"},
		"email":          {"type": "string"},
		"timestamp":      {"type": "string"}
	}
}`

var schema = validation.MustCompile(requestSchema)

// parseRequest validates a queued body and applies field defaults.
func parseRequest(body []byte) (*suggestionRequest, error) {
	result := schema.ValidateBytes(body)
	if !result.Valid {
		return nil, apperrors.NewInvalidFulfillmentRequestError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var req suggestionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperrors.NewInvalidFulfillmentRequestError(err.Error())
	}

	req.Cuisine = strings.TrimSpace(req.Cuisine)
	if req.Cuisine == "" {
		return nil, apperrors.NewInvalidFulfillmentRequestError("cuisine: must not be blank")
	}
	req.NumberOfPeople = strings.TrimSpace(req.NumberOfPeople)
	if req.NumberOfPeople == "" {
		req.NumberOfPeople = defaultPartySize
	}
	req.DiningTime = strings.TrimSpace(req.DiningTime)
	req.Email = strings.TrimSpace(req.Email)
	return &req, nil
}
