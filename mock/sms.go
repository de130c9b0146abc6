package mock

import (
	"context"

	stitch "github.com/rishikaushal2009/Audio-Stich"
)

var _ stitch.SMSService = &SMSService{}

// SMSService is a mock of stitch.SMSService.
type SMSService struct {
	SendSMSFn func(ctx context.Context, msg *stitch.SMS) error
}

func (s *SMSService) SendSMS(ctx context.Context, msg *stitch.SMS) error {
	return s.SendSMSFn(ctx, msg)
}
