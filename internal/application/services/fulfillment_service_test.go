package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/diningconcierge/internal/application/services"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

func diningEvent(source entities.InvocationSource, slots entities.Slots) *entities.DialogEvent {
	return &entities.DialogEvent{
		MessageVersion:    "1.0",
		InvocationSource:  source,
		UserID:            "user-1",
		SessionAttributes: map[string]string{"k": "v"},
		CurrentIntent: entities.DialogIntent{
			Name:  entities.IntentDiningSuggestions,
			Slots: slots,
		},
	}
}

func TestFulfillmentService_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("greeting closes the dialog", func(t *testing.T) {
		// Arrange
		queue := new(MockMessageQueue)
		svc := services.NewFulfillmentService(newTestValidator(t), queue, nil)
		event := &entities.DialogEvent{
			InvocationSource: entities.InvocationFulfillmentCodeHook,
			CurrentIntent:    entities.DialogIntent{Name: entities.IntentGreeting},
		}

		// Act
		resp, err := svc.Handle(ctx, event)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, entities.DialogActionClose, resp.DialogAction.Type)
		assert.Equal(t, entities.FulfillmentStateFulfilled, resp.DialogAction.FulfillmentState)
		assert.Equal(t, "Hi, what can I assist you today?", resp.DialogAction.Message.Content)
		assert.NotNil(t, resp.SessionAttributes)
		queue.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("thank you closes the dialog", func(t *testing.T) {
		svc := services.NewFulfillmentService(newTestValidator(t), new(MockMessageQueue), nil)
		event := &entities.DialogEvent{
			InvocationSource:  entities.InvocationDialogCodeHook,
			SessionAttributes: map[string]string{"a": "b"},
			CurrentIntent:     entities.DialogIntent{Name: entities.IntentThankYou},
		}

		resp, err := svc.Handle(ctx, event)

		require.NoError(t, err)
		assert.Equal(t, entities.DialogActionClose, resp.DialogAction.Type)
		assert.Equal(t, "You’re welcome. Have a good day!", resp.DialogAction.Message.Content)
		assert.Equal(t, map[string]string{"a": "b"}, resp.SessionAttributes)
	})

	t.Run("unknown intent is unsupported", func(t *testing.T) {
		svc := services.NewFulfillmentService(newTestValidator(t), new(MockMessageQueue), nil)
		event := &entities.DialogEvent{
			InvocationSource: entities.InvocationDialogCodeHook,
			CurrentIntent:    entities.DialogIntent{Name: "OrderPizzaIntent"},
		}

		resp, err := svc.Handle(ctx, event)

		assert.Nil(t, resp)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnsupported))
		assert.Contains(t, err.Error(), "OrderPizzaIntent")
	})

	t.Run("valid partial slots delegate", func(t *testing.T) {
		svc := services.NewFulfillmentService(newTestValidator(t), new(MockMessageQueue), nil)
		slots := entities.Slots{
			entities.SlotLocation: strPtr("Manhattan"),
			entities.SlotCuisine:  nil,
		}

		resp, err := svc.Handle(ctx, diningEvent(entities.InvocationDialogCodeHook, slots))

		require.NoError(t, err)
		assert.Equal(t, entities.DialogActionDelegate, resp.DialogAction.Type)
		assert.Equal(t, slots, resp.DialogAction.Slots)
		assert.Nil(t, resp.DialogAction.Message)
	})

	t.Run("invalid slot is cleared and elicited", func(t *testing.T) {
		svc := services.NewFulfillmentService(newTestValidator(t), new(MockMessageQueue), nil)
		slots := validSlots()
		slots[entities.SlotTime] = strPtr("03:00")

		resp, err := svc.Handle(ctx, diningEvent(entities.InvocationDialogCodeHook, slots))

		require.NoError(t, err)
		action := resp.DialogAction
		assert.Equal(t, entities.DialogActionElicitSlot, action.Type)
		assert.Equal(t, entities.IntentDiningSuggestions, action.IntentName)
		assert.Equal(t, entities.SlotTime, action.SlotToElicit)
		assert.Nil(t, action.Slots[entities.SlotTime])
		assert.Equal(t, "Italian", *action.Slots[entities.SlotCuisine])
		assert.Equal(t, entities.ContentTypePlainText, action.Message.ContentType)
		assert.Equal(t, "Please enter a time between the open hours from 7:00 to 24:00.", action.Message.Content)
		assert.Equal(t, "03:00", *slots[entities.SlotTime], "incoming slots are not mutated")
	})

	t.Run("fulfillment enqueues the request and confirms", func(t *testing.T) {
		// Arrange
		queue := new(MockMessageQueue)
		queue.On("Send", mock.Anything, entities.DiningRequestBody, map[string]string{
			entities.SlotLocation:       "Manhattan",
			entities.SlotCuisine:        "Italian",
			entities.SlotNumberOfPeople: "2",
			entities.SlotDate:           "2099-01-01",
			entities.SlotTime:           "19:00",
			entities.SlotEmail:          "a@b.com",
		}).Return("msg-1", nil)
		svc := services.NewFulfillmentService(newTestValidator(t), queue, nil)

		// Act
		resp, err := svc.Handle(ctx, diningEvent(entities.InvocationFulfillmentCodeHook, validSlots()))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, entities.DialogActionClose, resp.DialogAction.Type)
		assert.Equal(t, "Thank you, and you're all set. Expect my suggestions shortly!", resp.DialogAction.Message.Content)
		queue.AssertExpectations(t)
	})

	t.Run("queue failure is returned", func(t *testing.T) {
		queue := new(MockMessageQueue)
		queue.On("Send", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("queue down"))
		svc := services.NewFulfillmentService(newTestValidator(t), queue, nil)

		resp, err := svc.Handle(ctx, diningEvent(entities.InvocationFulfillmentCodeHook, validSlots()))

		assert.Nil(t, resp)
		assert.EqualError(t, err, "queue down")
	})

	t.Run("unknown invocation source is unsupported", func(t *testing.T) {
		svc := services.NewFulfillmentService(newTestValidator(t), new(MockMessageQueue), nil)

		_, err := svc.Handle(ctx, diningEvent("SomethingElse", validSlots()))

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnsupported))
	})
}
