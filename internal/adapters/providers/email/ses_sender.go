package email

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

const defaultCharset = "UTF-8"

// SESAPI is the subset of the SES client used by SESSender
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends plain text email through Amazon SES
type SESSender struct {
	client SESAPI
}

var _ providers.EmailSender = (*SESSender)(nil)

// NewSESSender creates a new SES sender
func NewSESSender(client SESAPI) *SESSender {
	return &SESSender{client: client}
}

// Send delivers the email and returns the SES message ID
func (s *SESSender) Send(ctx context.Context, email providers.Email) (string, error) {
	charset := email.Charset
	if charset == "" {
		charset = defaultCharset
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(email.From),
		Destination: &types.Destination{ToAddresses: email.To},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(email.Subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(email.Body), Charset: aws.String(charset)},
			},
		},
	})
	if err != nil {
		return "", apperrors.NewExternalError("failed to send email", err)
	}
	return aws.ToString(out.MessageId), nil
}
