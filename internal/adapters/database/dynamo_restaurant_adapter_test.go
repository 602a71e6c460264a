package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/diningconcierge/internal/adapters/database"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

// MockDynamoDB is a mock implementation of database.DynamoDBAPI
type MockDynamoDB struct {
	mock.Mock
	items map[string]map[string]types.AttributeValue
}

func (m *MockDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	id := params.Item["business_id"].(*types.AttributeValueMemberS).Value
	m.items[id] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *MockDynamoDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	id := params.Key["business_id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: m.items[id]}, nil
}

func TestDynamoRestaurantAdapter_RoundTrip(t *testing.T) {
	// Arrange
	client := &MockDynamoDB{items: map[string]map[string]types.AttributeValue{}}
	client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return *in.TableName == "yelp-restaurants"
	})).Return(nil)
	adapter := database.NewDynamoRestaurantAdapter(client, "yelp-restaurants", nil)
	restaurant := sampleRestaurant()

	// Act
	require.NoError(t, adapter.Upsert(context.Background(), restaurant))
	got, err := adapter.GetByID(context.Background(), "abc")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, restaurant.Name, got.Name)
	assert.Equal(t, restaurant.Address, got.Address)
	assert.Equal(t, restaurant.ReviewCount, got.ReviewCount)
	assert.Equal(t, restaurant.Cuisines, got.Cuisines)
	assert.Equal(t, restaurant.InsertedAt, got.InsertedAt)
	assert.True(t, restaurant.Rating.Equal(got.Rating))
	assert.True(t, restaurant.Coordinates.Latitude.Equal(got.Coordinates.Latitude))

	assert.True(t, restaurant.Coordinates.Longitude.Equal(got.Coordinates.Longitude))

	stored := client.items["abc"]
	require.IsType(t, &types.AttributeValueMemberN{}, stored["rating"])
	assert.Equal(t, "4.5", stored["rating"].(*types.AttributeValueMemberN).Value)
	require.IsType(t, &types.AttributeValueMemberN{}, stored["num_of_reviews"])
	assert.Equal(t, "120", stored["num_of_reviews"].(*types.AttributeValueMemberN).Value)
	assert.Equal(t, "2024-03-01 12:00:00", stored["inserted_at_timestamp"].(*types.AttributeValueMemberS).Value)
	assert.IsType(t, &types.AttributeValueMemberL{}, stored["cuisine"])

	require.IsType(t, &types.AttributeValueMemberM{}, stored["coordinates"])
	coords := stored["coordinates"].(*types.AttributeValueMemberM).Value
	require.IsType(t, &types.AttributeValueMemberN{}, coords["latitude"])
	require.IsType(t, &types.AttributeValueMemberN{}, coords["longitude"])
	assert.Equal(t, "40.7", coords["latitude"].(*types.AttributeValueMemberN).Value)
	assert.Equal(t, "-73.9", coords["longitude"].(*types.AttributeValueMemberN).Value)
	client.AssertExpectations(t)
}

func TestDynamoRestaurantAdapter_GetByID_StringCoordinates(t *testing.T) {
	client := &MockDynamoDB{items: map[string]map[string]types.AttributeValue{
		"old": {
			"business_id": &types.AttributeValueMemberS{Value: "old"},
			"name":        &types.AttributeValueMemberS{Value: "Osteria"},
			"coordinates": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"latitude":  &types.AttributeValueMemberS{Value: "40.71"},
				"longitude": &types.AttributeValueMemberS{Value: "-74.01"},
			}},
			"rating": &types.AttributeValueMemberN{Value: "4"},
		},
	}}
	adapter := database.NewDynamoRestaurantAdapter(client, "yelp-restaurants", nil)

	got, err := adapter.GetByID(context.Background(), "old")

	require.NoError(t, err)
	assert.Equal(t, "Osteria", got.Name)
	assert.Equal(t, "40.71", got.Coordinates.Latitude.String())
	assert.Equal(t, "-74.01", got.Coordinates.Longitude.String())
	assert.Equal(t, "4", got.Rating.String())
	assert.True(t, got.InsertedAt.IsZero())
}

func TestDynamoRestaurantAdapter_GetByID_Malformed(t *testing.T) {
	client := &MockDynamoDB{items: map[string]map[string]types.AttributeValue{
		"bad": {
			"business_id": &types.AttributeValueMemberS{Value: "bad"},
			"rating":      &types.AttributeValueMemberN{Value: "four"},
		},
	}}
	adapter := database.NewDynamoRestaurantAdapter(client, "yelp-restaurants", nil)

	got, err := adapter.GetByID(context.Background(), "bad")

	assert.Nil(t, got)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestDynamoRestaurantAdapter_GetByID_NotFound(t *testing.T) {
	client := &MockDynamoDB{items: map[string]map[string]types.AttributeValue{}}
	adapter := database.NewDynamoRestaurantAdapter(client, "yelp-restaurants", nil)

	got, err := adapter.GetByID(context.Background(), "missing")

	assert.Nil(t, got)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestDynamoRestaurantAdapter_Upsert_Error(t *testing.T) {
	client := &MockDynamoDB{items: map[string]map[string]types.AttributeValue{}}
	client.On("PutItem", mock.Anything, mock.Anything).Return(errors.New("throughput exceeded"))
	adapter := database.NewDynamoRestaurantAdapter(client, "yelp-restaurants", nil)

	err := adapter.Upsert(context.Background(), sampleRestaurant())

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}
