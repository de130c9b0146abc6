// Package twilio sends SMS notifications over the Twilio REST API.
package twilio

import (
	"context"
	"fmt"
	"io"

	stitch "github.com/rishikaushal2009/Audio-Stich"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Ensure service implements interface.
var _ stitch.SMSService = &SMSService{}

// SMSService represents a service for sending SMS text messages over Twilio.
type SMSService struct {
	// API settings.
	AccountSID string
	AuthToken  string

	// Sender phone number.
	From string

	LogOutput io.Writer
}

// NewSMSService returns a new instance of SMSService.
func NewSMSService() *SMSService {
	return &SMSService{LogOutput: io.Discard}
}

// SendSMS sends an SMS message.
func (s *SMSService) SendSMS(ctx context.Context, msg *stitch.SMS) error {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.AccountSID,
		Password: s.AuthToken,
	})

	// Send message.
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(s.From)
	params.SetTo(msg.To)
	params.SetBody(msg.Body)

	ret, err := client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if ret.Sid != nil {
		msg.ID = *ret.Sid
	}

	fmt.Fprintf(s.LogOutput, "twilio: send: to=%s sid=%s\n", msg.To, msg.ID)
	return nil
}
