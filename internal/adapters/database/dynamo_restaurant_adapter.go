package database

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/repositories"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoRestaurantAdapter.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoRestaurantAdapter implements the restaurant document store in DynamoDB.
// Items are keyed by business_id.
type DynamoRestaurantAdapter struct {
	client  DynamoDBAPI
	table   string
	metrics *observability.Metrics
}

// NewDynamoRestaurantAdapter creates a new DynamoDB restaurant adapter. metrics may be nil.
func NewDynamoRestaurantAdapter(client DynamoDBAPI, table string, metrics *observability.Metrics) *DynamoRestaurantAdapter {
	return &DynamoRestaurantAdapter{client: client, table: table, metrics: metrics}
}

var _ repositories.RestaurantRepository = (*DynamoRestaurantAdapter)(nil)

// Upsert writes the item, replacing any item with the same business_id.
func (a *DynamoRestaurantAdapter) Upsert(ctx context.Context, restaurant *entities.Restaurant) error {
	if restaurant == nil {
		return apperrors.NewInternalError("restaurant is nil", fmt.Errorf("restaurant is nil"))
	}
	start := time.Now()
	defer func() {
		observability.RecordStoreMetric(ctx, a.metrics, "dynamodb", "upsert", time.Since(start))
	}()

	item, err := marshalRestaurant(restaurant)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal restaurant item", err)
	}

	_, err = a.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(a.table),
		Item:      item,
	})
	if err != nil {
		return apperrors.NewExternalError("failed to put restaurant item", err)
	}
	return nil
}

// GetByID retrieves a restaurant by business ID
func (a *DynamoRestaurantAdapter) GetByID(ctx context.Context, businessID string) (*entities.Restaurant, error) {
	start := time.Now()
	defer func() {
		observability.RecordStoreMetric(ctx, a.metrics, "dynamodb", "get", time.Since(start))
	}()

	out, err := a.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(a.table),
		Key: map[string]types.AttributeValue{
			"business_id": &types.AttributeValueMemberS{Value: businessID},
		},
	})
	if err != nil {
		return nil, apperrors.NewExternalError("failed to get restaurant item", err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("restaurant with id %s not found", businessID))
	}

	restaurant, err := unmarshalRestaurant(out.Item)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("malformed restaurant item %s", businessID), err)
	}
	return restaurant, nil
}

// restaurantItem is the DynamoDB item layout of a restaurant record
type restaurantItem struct {
	BusinessID  string          `dynamodbav:"business_id"`
	Name        string          `dynamodbav:"name"`
	Address     string          `dynamodbav:"address"`
	Coordinates coordinatesItem `dynamodbav:"coordinates"`
	ReviewCount int             `dynamodbav:"num_of_reviews"`
	Rating      dynamoDecimal   `dynamodbav:"rating"`
	ZipCode     string          `dynamodbav:"zip_code"`
	Cuisines    []string        `dynamodbav:"cuisine"`
	InsertedAt  string          `dynamodbav:"inserted_at_timestamp"`
}

type coordinatesItem struct {
	Latitude  dynamoDecimal `dynamodbav:"latitude"`
	Longitude dynamoDecimal `dynamodbav:"longitude"`
}

// dynamoDecimal stores a decimal as an N attribute without float conversion
type dynamoDecimal struct {
	decimal.Decimal
}

var (
	_ attributevalue.Marshaler   = dynamoDecimal{}
	_ attributevalue.Unmarshaler = (*dynamoDecimal)(nil)
)

func (d dynamoDecimal) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: d.String()}, nil
}

func (d *dynamoDecimal) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		// items written by earlier loaders kept coordinates as strings
		raw = v.Value
	case *types.AttributeValueMemberNULL:
		d.Decimal = decimal.Zero
		return nil
	default:
		return fmt.Errorf("unsupported attribute type %T for decimal", av)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return err
	}
	d.Decimal = value
	return nil
}

func marshalRestaurant(r *entities.Restaurant) (map[string]types.AttributeValue, error) {
	cuisines := r.Cuisines
	if cuisines == nil {
		cuisines = []string{}
	}
	return attributevalue.MarshalMap(restaurantItem{
		BusinessID: r.BusinessID,
		Name:       r.Name,
		Address:    r.Address,
		Coordinates: coordinatesItem{
			Latitude:  dynamoDecimal{r.Coordinates.Latitude},
			Longitude: dynamoDecimal{r.Coordinates.Longitude},
		},
		ReviewCount: r.ReviewCount,
		Rating:      dynamoDecimal{r.Rating},
		ZipCode:     r.ZipCode,
		Cuisines:    cuisines,
		InsertedAt:  r.InsertedAt.Format(entities.InsertedAtLayout),
	})
}

func unmarshalRestaurant(av map[string]types.AttributeValue) (*entities.Restaurant, error) {
	var item restaurantItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, err
	}

	r := &entities.Restaurant{
		BusinessID: item.BusinessID,
		Name:       item.Name,
		Address:    item.Address,
		Coordinates: entities.Coordinates{
			Latitude:  item.Coordinates.Latitude.Decimal,
			Longitude: item.Coordinates.Longitude.Decimal,
		},
		ReviewCount: item.ReviewCount,
		Rating:      item.Rating.Decimal,
		ZipCode:     item.ZipCode,
		Cuisines:    item.Cuisines,
	}
	if item.InsertedAt != "" {
		insertedAt, err := time.Parse(entities.InsertedAtLayout, item.InsertedAt)
		if err != nil {
			return nil, fmt.Errorf("inserted_at_timestamp: %w", err)
		}
		r.InsertedAt = insertedAt
	}
	return r, nil
}
