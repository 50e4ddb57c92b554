// Package dynamodb reads restaurant records from the DynamoDB catalog table
// written by the ingestion pipeline.
package dynamodb

import (
	"context"
	"fmt"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var ErrNotFound = models.ErrRestaurantNotFound

// DynamoDBAPI is the subset of *dynamodb.Client the catalog uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type CatalogTable struct {
	client    DynamoDBAPI
	tableName string
}

func NewCatalogTable(client DynamoDBAPI, tableName string) *CatalogTable {
	return &CatalogTable{client: client, tableName: tableName}
}

func (c *CatalogTable) GetByID(ctx context.Context, businessID string) (*models.Restaurant, error) {
	out, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"BusinessID": &types.AttributeValueMemberS{Value: businessID},
		},
	})
	if err != nil {
		return nil, apperrors.NewCatalogLookupFailedError(businessID, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var rest models.Restaurant
	if err := attributevalue.UnmarshalMap(out.Item, &rest); err != nil {
		return nil, apperrors.NewCatalogLookupFailedError(businessID, fmt.Errorf("decode item: %w", err))
	}
	return &rest, nil
}
