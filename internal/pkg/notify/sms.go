package notify

import (
	"github.com/steadystreamtv/storefront/internal/pkg/config"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type twilioSender struct {
	client *twilio.RestClient
	from   string
}

func newTwilioSender(cfg config.NotifyConfig) *twilioSender {
	return &twilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		from: cfg.TwilioFrom,
	}
}

func (s *twilioSender) Send(to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(to)
	params.SetBody(body)

	_, err := s.client.Api.CreateMessage(params)
	return err
}
