package providers

import (
	"context"
)

// IntentEngine defines the conversational intent engine
type IntentEngine interface {
	// PostText forwards user text for sessionID and returns the engine's reply.
	// An empty reply is returned as "".
	PostText(ctx context.Context, sessionID, text string) (string, error)
}
