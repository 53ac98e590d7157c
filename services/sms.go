// services/sms.go
package services

import (
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SmsSender delivers outbound text messages.
type SmsSender interface {
	Send(to, body string) error
	Configured() bool
}

// NotificationResult is the outcome of a best-effort SMS send, returned
// to the caller instead of being raised as an error.
type NotificationResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Configured bool   `json:"providerConfigured"`
}

// TwilioSender sends SMS through the Twilio messaging API.
type TwilioSender struct {
	client     *twilio.RestClient
	fromNumber string
}

func NewTwilioSender() *TwilioSender {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		fromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func (s *TwilioSender) Configured() bool {
	return s.fromNumber != ""
}

func (s *TwilioSender) Send(to, body string) error {
	if !s.Configured() {
		log.Printf("[MOCK SMS] To: %s, Message: %s", to, body)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", to, err)
	}
	if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", to, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", to)
	}
	return nil
}
