package dynamodb

import (
	"context"
	"errors"
	"testing"

	apperrors "dining-concierge/internal/common/errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockDynamoDBService struct {
	GetItemFunc func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

func (m *MockDynamoDBService) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return m.GetItemFunc(ctx, params, optFns...)
}

func scrapedItem() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"BusinessID": &types.AttributeValueMemberS{Value: "b1"},
		"Name":       &types.AttributeValueMemberS{Value: "Trattoria Uno"},
		"Address":    &types.AttributeValueMemberS{Value: "1 Main St"},
		"Coordinates": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"Latitude":  &types.AttributeValueMemberN{Value: "40.7"},
			"Longitude": &types.AttributeValueMemberN{Value: "-73.9"},
		}},
		"NumberOfReviews":     &types.AttributeValueMemberN{Value: "120"},
		"Rating":              &types.AttributeValueMemberN{Value: "4.5"},
		"ZipCode":             &types.AttributeValueMemberS{Value: "10001"},
		"Cuisine":             &types.AttributeValueMemberS{Value: "Italian"},
		"insertedAtTimestamp": &types.AttributeValueMemberS{Value: "2026-09-01 10:00:00"},
	}
}

func TestCatalogTable_GetByID(t *testing.T) {
	mock := &MockDynamoDBService{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			assert.Equal(t, "yelp-restaurants", *params.TableName)
			key, ok := params.Key["BusinessID"].(*types.AttributeValueMemberS)
			require.True(t, ok)
			assert.Equal(t, "b1", key.Value)
			return &dynamodb.GetItemOutput{Item: scrapedItem()}, nil
		},
	}

	rest, err := NewCatalogTable(mock, "yelp-restaurants").GetByID(context.Background(), "b1")
	require.NoError(t, err)

	assert.Equal(t, "b1", rest.BusinessID)
	assert.Equal(t, "Trattoria Uno", rest.Name)
	assert.Equal(t, "1 Main St", rest.Address)
	assert.Equal(t, 40.7, rest.Coordinates.Latitude)
	assert.Equal(t, -73.9, rest.Coordinates.Longitude)
	assert.Equal(t, 120, rest.ReviewCount)
	assert.Equal(t, 4.5, rest.Rating)
	assert.Equal(t, "2026-09-01 10:00:00", rest.InsertedAt)
}

func TestCatalogTable_GetByID_Absent(t *testing.T) {
	mock := &MockDynamoDBService{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{}, nil
		},
	}

	rest, err := NewCatalogTable(mock, "yelp-restaurants").GetByID(context.Background(), "missing")
	assert.Nil(t, rest)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogTable_GetByID_Failure(t *testing.T) {
	mock := &MockDynamoDBService{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return nil, errors.New("ProvisionedThroughputExceededException")
		},
	}

	rest, err := NewCatalogTable(mock, "yelp-restaurants").GetByID(context.Background(), "b1")
	assert.Nil(t, rest)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCatalogLookupFailed))
}
