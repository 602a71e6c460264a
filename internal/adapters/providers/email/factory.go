package email

import (
	"fmt"

	"github.com/zatekoja/diningconcierge/internal/domain/providers"
)

// Provider names accepted by NewSender
const (
	ProviderLog = "log"
	ProviderSES = "ses"
)

// NewSender selects the email sender named by provider. client is only
// required for ProviderSES.
func NewSender(provider string, client SESAPI) (providers.EmailSender, error) {
	switch provider {
	case "", ProviderLog:
		return NewLogSender(), nil
	case ProviderSES:
		if client == nil {
			return nil, fmt.Errorf("ses email provider requires an SES client")
		}
		return NewSESSender(client), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", provider)
	}
}
