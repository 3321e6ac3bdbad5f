package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"

	"github.com/Zuo-Peng/ghostwriter/internal/export"
	"github.com/Zuo-Peng/ghostwriter/internal/summary"
)

// emailSender is the part of the Resend client used here.
type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier e-mails the HTML rendering of each summary via Resend.
type ResendNotifier struct {
	sender      emailSender
	fromAddress string
	recipient   string
}

// NewResendNotifier returns nil when apiKey is empty.
func NewResendNotifier(apiKey, from, recipient string) *ResendNotifier {
	if apiKey == "" {
		return nil
	}
	return &ResendNotifier{
		sender:      resend.NewClient(apiKey).Emails,
		fromAddress: from,
		recipient:   recipient,
	}
}

func (r *ResendNotifier) Name() string { return "resend" }

func (r *ResendNotifier) IsConfigured() bool {
	return r != nil && r.sender != nil && r.fromAddress != "" && r.recipient != ""
}

func (r *ResendNotifier) Notify(_ context.Context, s *summary.Summary) error {
	if r.recipient == "" {
		return fmt.Errorf("no recipient specified")
	}

	html, err := export.HTML{}.Format(s)
	if err != nil {
		return fmt.Errorf("render e-mail: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{r.recipient},
		Subject: fmt.Sprintf("Daily Summary - %s", s.Date),
		Html:    html,
		Text:    s.Text,
	}
	sent, err := r.sender.Send(params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	ev := log.Info().Str("to", r.recipient).Str("date", s.Date)
	if sent != nil {
		ev = ev.Str("email_id", sent.Id)
	}
	ev.Msg("summary e-mailed")
	return nil
}
