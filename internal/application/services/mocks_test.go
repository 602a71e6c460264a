package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

// MockMessageQueue is a mock implementation of providers.MessageQueue
type MockMessageQueue struct {
	mock.Mock
}

func (m *MockMessageQueue) Send(ctx context.Context, body string, attributes map[string]string) (string, error) {
	args := m.Called(ctx, body, attributes)
	return args.String(0), args.Error(1)
}

func (m *MockMessageQueue) Receive(ctx context.Context, opts providers.ReceiveOptions) ([]entities.QueueMessage, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.QueueMessage), args.Error(1)
}

func (m *MockMessageQueue) Delete(ctx context.Context, receiptHandle string) error {
	args := m.Called(ctx, receiptHandle)
	return args.Error(0)
}

// MockIntentEngine is a mock implementation of providers.IntentEngine
type MockIntentEngine struct {
	mock.Mock
}

func (m *MockIntentEngine) PostText(ctx context.Context, sessionID, text string) (string, error) {
	args := m.Called(ctx, sessionID, text)
	return args.String(0), args.Error(1)
}

// MockDirectoryProvider is a mock implementation of providers.DirectoryProvider
type MockDirectoryProvider struct {
	mock.Mock
}

func (m *MockDirectoryProvider) Search(ctx context.Context, query providers.DirectoryQuery) ([]*entities.Business, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Business), args.Error(1)
}

// MockEmailSender is a mock implementation of providers.EmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, email providers.Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

// MockRestaurantRepository is a mock implementation of repositories.RestaurantRepository
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) Upsert(ctx context.Context, restaurant *entities.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, businessID string) (*entities.Restaurant, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Restaurant), args.Error(1)
}

// MockRestaurantSearchRepository is a mock implementation of repositories.RestaurantSearchRepository
type MockRestaurantSearchRepository struct {
	mock.Mock
}

func (m *MockRestaurantSearchRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRestaurantSearchRepository) Index(ctx context.Context, doc *entities.SearchDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRestaurantSearchRepository) SearchByCuisine(ctx context.Context, cuisine string, size int) ([]entities.SearchDocument, error) {
	args := m.Called(ctx, cuisine, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.SearchDocument), args.Error(1)
}

// MockSnapshotRepository is a mock implementation of repositories.SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Save(ctx context.Context, businesses map[string]*entities.Business) error {
	args := m.Called(ctx, businesses)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Load(ctx context.Context) (map[string]*entities.Business, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entities.Business), args.Error(1)
}

// memoryStore is an in-memory RestaurantRepository keyed by business ID
type memoryStore map[string]*entities.Restaurant

func (s memoryStore) Upsert(_ context.Context, r *entities.Restaurant) error {
	s[r.BusinessID] = r
	return nil
}

func (s memoryStore) GetByID(_ context.Context, id string) (*entities.Restaurant, error) {
	if r, ok := s[id]; ok {
		return r, nil
	}
	return nil, apperrors.NewNotFoundError("restaurant " + id + " not found")
}

// recordingSender is an EmailSender that keeps every email it is given
type recordingSender struct {
	sent []providers.Email
}

func (s *recordingSender) Send(_ context.Context, email providers.Email) (string, error) {
	s.sent = append(s.sent, email)
	return "email-1", nil
}

func strPtr(s string) *string {
	return &s
}
