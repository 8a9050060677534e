package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/portaria-app/backend/internal/config"
	"github.com/portaria-app/backend/internal/utils"
)

// Notifier delivers a notification message to a single phone number.
// A nil error counts the phone as notified for quota purposes.
type Notifier interface {
	Notify(phoneNumber, message string) error
}

// EmailSender delivers a transactional email. Failures are logged by
// callers but never fail the surrounding operation.
type EmailSender interface {
	Send(toEmail, subject, body string) error
}

// ---------------------------------------------------------------------
// Twilio
// ---------------------------------------------------------------------

type twilioNotifier struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioNotifier(cfg *config.Config) Notifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &twilioNotifier{client: client, from: cfg.TwilioFromNumber}
}

func (t *twilioNotifier) Notify(phoneNumber, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phoneNumber)
	params.SetFrom(t.from)
	params.SetBody(message)

	_, twErr := t.client.Api.CreateMessage(params)
	if twErr != nil {
		utils.Logger.WithError(twErr).Errorf("Failed to send notification SMS to %s via Twilio", phoneNumber)
		return fmt.Errorf("%w: failed to send sms via twilio: %v", utils.ErrExternalServiceFailure, twErr)
	}
	return nil
}

// ---------------------------------------------------------------------
// SendGrid
// ---------------------------------------------------------------------

type sendgridSender struct {
	client    *sendgrid.Client
	fromEmail string
	brandName string
}

func NewSendGridSender(cfg *config.Config) EmailSender {
	return &sendgridSender{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.EmailFrom,
		brandName: "Portaria",
	}
}

func (s *sendgridSender) Send(toEmail, subject, body string) error {
	from := mail.NewEmail(s.brandName, s.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	_, sendErr := s.client.Send(message)
	if sendErr != nil {
		utils.Logger.WithError(sendErr).Errorf("Failed to send email to %s via SendGrid", toEmail)
		return fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, sendErr)
	}
	return nil
}
