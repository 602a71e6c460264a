package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

// FallbackReply is returned when the intent engine answers with no message
const FallbackReply = "Sorry, I didn't catch that. Could you say it another way?"

// ConversationService is the chatbot front door. It relays user text to the
// intent engine under a single session and wraps the reply.
type ConversationService struct {
	engine    providers.IntentEngine
	sessionID string
}

// NewConversationService creates a new conversation service
func NewConversationService(engine providers.IntentEngine, sessionID string) *ConversationService {
	return &ConversationService{engine: engine, sessionID: sessionID}
}

// Respond forwards the first message to the intent engine
func (s *ConversationService) Respond(ctx context.Context, req entities.ChatRequest) (*entities.ChatResponse, error) {
	ctx, span := observability.StartSpan(ctx, "conversation.respond")
	defer span.End()

	text := req.Text()
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("message text is required")
	}

	reply, err := s.engine.PostText(ctx, s.sessionID, text)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if reply == "" {
		observability.LoggerFromContext(ctx).Warn().Msg("intent engine returned no message")
		reply = FallbackReply
	}

	return entities.NewChatResponse(http.StatusOK, reply), nil
}
