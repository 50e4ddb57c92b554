// internal/models/suggestion.go
package models

import (
	"errors"
	"strings"
	"time"
)

// FulfillmentRequest is the queued record of a completed dining-suggestion ask.
type FulfillmentRequest struct {
	RequestID      string    `json:"requestId,omitempty"`
	Location       string    `json:"location"`
	Cuisine        string    `json:"cuisine"`
	DiningTime     string    `json:"diningTime"`
	NumberOfPeople string    `json:"numberOfPeople"`
	Email          string    `json:"email"`
	Timestamp      time.Time `json:"timestamp"`
}

// Complete reports whether every user-supplied field is present.
func (r *FulfillmentRequest) Complete() bool {
	return r.Location != "" && r.Cuisine != "" && r.DiningTime != "" &&
		r.NumberOfPeople != "" && r.Email != ""
}

// HistoryRecord is a user's most recent completed search, keyed by email.
type HistoryRecord struct {
	Email          string    `json:"email"`
	Location       string    `json:"location"`
	Cuisine        string    `json:"cuisine"`
	DiningTime     string    `json:"diningTime"`
	NumberOfPeople string    `json:"numberOfPeople"`
	SavedAt        time.Time `json:"savedAt"`
}

// HistoryFromRequest projects a fulfillment request onto a history record.
func HistoryFromRequest(req *FulfillmentRequest, savedAt time.Time) *HistoryRecord {
	return &HistoryRecord{
		Email:          NormalizeEmail(req.Email),
		Location:       req.Location,
		Cuisine:        req.Cuisine,
		DiningTime:     req.DiningTime,
		NumberOfPeople: req.NumberOfPeople,
		SavedAt:        savedAt,
	}
}

// NormalizeEmail trims and lower-cases an address for use as a history key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ErrRestaurantNotFound is returned by catalog backends for an unknown id.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// Restaurant is a catalog record, owned by the ingestion pipeline.
type Restaurant struct {
	BusinessID  string      `json:"businessId" db:"business_id" dynamodbav:"BusinessID"`
	Name        string      `json:"name" db:"name" dynamodbav:"Name"`
	Address     string      `json:"address" db:"address" dynamodbav:"Address"`
	Coordinates Coordinates `json:"coordinates" dynamodbav:"Coordinates"`
	ReviewCount int         `json:"reviewCount" db:"review_count" dynamodbav:"NumberOfReviews"`
	Rating      float64     `json:"rating" db:"rating" dynamodbav:"Rating"`
	ZipCode     string      `json:"zipCode" db:"zip_code" dynamodbav:"ZipCode"`
	Cuisine     string      `json:"cuisine" db:"cuisine" dynamodbav:"Cuisine"`
	InsertedAt  string      `json:"insertedAt" db:"inserted_at" dynamodbav:"insertedAtTimestamp"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude" dynamodbav:"Latitude"`
	Longitude float64 `json:"longitude" dynamodbav:"Longitude"`
}
