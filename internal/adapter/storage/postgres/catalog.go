// Package postgres reads restaurant records from the catalog table.
package postgres

import (
	"context"
	"database/sql"
	"errors"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"
)

var ErrNotFound = models.ErrRestaurantNotFound

const selectRestaurantByID = `SELECT business_id, name, address, latitude, longitude, review_count, rating, zip_code, cuisine, inserted_at
FROM restaurants WHERE business_id = $1`

type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetByID(ctx context.Context, businessID string) (*models.Restaurant, error) {
	var (
		rest       models.Restaurant
		address    sql.NullString
		zipCode    sql.NullString
		cuisine    sql.NullString
		insertedAt sql.NullString
		lat, lng   sql.NullFloat64
		reviews    sql.NullInt64
		rating     sql.NullFloat64
	)

	err := r.db.QueryRowContext(ctx, selectRestaurantByID, businessID).Scan(
		&rest.BusinessID,
		&rest.Name,
		&address,
		&lat,
		&lng,
		&reviews,
		&rating,
		&zipCode,
		&cuisine,
		&insertedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, apperrors.NewCatalogLookupFailedError(businessID, err)
	}

	rest.Address = address.String
	rest.Coordinates = models.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	rest.ReviewCount = int(reviews.Int64)
	rest.Rating = rating.Float64
	rest.ZipCode = zipCode.String
	rest.Cuisine = cuisine.String
	rest.InsertedAt = insertedAt.String

	return &rest, nil
}
