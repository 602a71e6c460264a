package services

import (
	"context"
	"fmt"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

const (
	greetingReply     = "Hi, what can I assist you today?"
	thankYouReply     = "You’re welcome. Have a good day!"
	confirmationReply = "Thank you, and you're all set. Expect my suggestions shortly!"
)

// FulfillmentService is the intent engine's code hook. Dining suggestion
// requests move through two states chosen by the invocation source:
// AwaitingValidation checks the slots filled so far and either re-elicits a
// bad slot or delegates back to the engine; Fulfilling enqueues the request
// and closes the dialog.
type FulfillmentService struct {
	validator *DiningRequestValidator
	queue     providers.MessageQueue
	metrics   *observability.Metrics
}

// NewFulfillmentService creates a new fulfillment service. metrics may be nil.
func NewFulfillmentService(validator *DiningRequestValidator, queue providers.MessageQueue, metrics *observability.Metrics) *FulfillmentService {
	return &FulfillmentService{validator: validator, queue: queue, metrics: metrics}
}

// Handle dispatches one code hook invocation by intent name
func (s *FulfillmentService) Handle(ctx context.Context, event *entities.DialogEvent) (*entities.DialogResponse, error) {
	ctx, span := observability.StartSpan(ctx, "fulfillment.handle")
	defer span.End()

	intent := event.CurrentIntent.Name
	observability.SetSpanAttributes(span,
		attribute.String("dialog.intent", intent),
		attribute.String("dialog.invocation_source", string(event.InvocationSource)),
	)

	logger := observability.LoggerFromContext(ctx)
	logger.Debug().
		Str("intent", intent).
		Str("invocation_source", string(event.InvocationSource)).
		Str("user_id", event.UserID).
		Msg("dialog event received")

	sessionAttributes := event.SessionAttributes
	if sessionAttributes == nil {
		sessionAttributes = map[string]string{}
	}

	switch intent {
	case entities.IntentGreeting:
		return entities.CloseDialog(sessionAttributes, greetingReply), nil
	case entities.IntentThankYou:
		return entities.CloseDialog(sessionAttributes, thankYouReply), nil
	case entities.IntentDiningSuggestions:
		resp, err := s.diningSuggestions(ctx, event, sessionAttributes)
		observability.RecordError(span, err)
		return resp, err
	default:
		err := apperrors.NewUnsupportedError(fmt.Sprintf("intent with name %s not supported", intent))
		observability.RecordError(span, err)
		return nil, err
	}
}

func (s *FulfillmentService) diningSuggestions(ctx context.Context, event *entities.DialogEvent, sessionAttributes map[string]string) (*entities.DialogResponse, error) {
	slots := event.CurrentIntent.Slots
	if slots == nil {
		slots = entities.Slots{}
	}

	switch event.InvocationSource.State() {
	case entities.DialogStateAwaitingValidation:
		result := s.validator.Validate(slots)
		if !result.IsValid {
			observability.RecordValidationFailure(ctx, s.metrics, result.ViolatedSlot)
			observability.LoggerFromContext(ctx).Info().
				Str("slot", result.ViolatedSlot).
				Msg("slot rejected, eliciting again")

			corrected := slots.Clone()
			corrected[result.ViolatedSlot] = nil
			return entities.ElicitSlot(
				sessionAttributes,
				event.CurrentIntent.Name,
				corrected,
				result.ViolatedSlot,
				result.Message,
			), nil
		}
		return entities.DelegateDialog(sessionAttributes, slots), nil

	case entities.DialogStateFulfilling:
		request := entities.DiningRequestFromSlots(slots)
		id, err := s.queue.Send(ctx, entities.DiningRequestBody, request.Attributes())
		if err != nil {
			return nil, err
		}
		observability.LoggerFromContext(ctx).Info().
			Str("message_id", id).
			Str("cuisine", request.Cuisine).
			Msg("dining request enqueued")
		return entities.CloseDialog(sessionAttributes, confirmationReply), nil

	default:
		return nil, apperrors.NewUnsupportedError(fmt.Sprintf("invocation source %q not supported", event.InvocationSource))
	}
}
