package intent

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimeservice"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

// LexAPI is the subset of the Lex runtime client used by LexProvider
type LexAPI interface {
	PostText(ctx context.Context, params *lexruntimeservice.PostTextInput, optFns ...func(*lexruntimeservice.Options)) (*lexruntimeservice.PostTextOutput, error)
}

// LexProvider implements IntentEngine with an Amazon Lex V1 bot
type LexProvider struct {
	client   LexAPI
	botName  string
	botAlias string
}

var _ providers.IntentEngine = (*LexProvider)(nil)

// NewLexProvider creates a provider for the given bot and alias
func NewLexProvider(client LexAPI, botName, botAlias string) *LexProvider {
	return &LexProvider{client: client, botName: botName, botAlias: botAlias}
}

// PostText forwards text to the bot on behalf of sessionID
func (p *LexProvider) PostText(ctx context.Context, sessionID, text string) (string, error) {
	out, err := p.client.PostText(ctx, &lexruntimeservice.PostTextInput{
		BotName:   aws.String(p.botName),
		BotAlias:  aws.String(p.botAlias),
		UserId:    aws.String(sessionID),
		InputText: aws.String(text),
	})
	if err != nil {
		return "", apperrors.NewExternalError("intent engine request failed", err)
	}
	return aws.ToString(out.Message), nil
}
