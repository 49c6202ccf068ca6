package services

import (
	"context"
	"fmt"

	"github.com/resendlabs/resend-go"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/errs"
)

// Email is one outbound message.
type Email struct {
	To      []string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// ResendMailer sends through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer reads RESEND_API_KEY and RESEND_FROM_EMAIL
// (e.g. "Site <noreply@site.dev>") from cfg.
func NewResendMailer(cfg map[string]string) (*ResendMailer, error) {
	apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
	if apiKey == "" {
		return nil, errs.NewConfigMissingError("RESEND_API_KEY")
	}
	from := config.GetString(cfg, "RESEND_FROM_EMAIL", "")
	if from == "" {
		return nil, errs.NewConfigMissingError("RESEND_FROM_EMAIL")
	}
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}, nil
}

func (m *ResendMailer) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sent, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
	})
	if err != nil {
		return errs.NewEmailDeliveryError(err)
	}
	log.Info().Str("emailId", sent.Id).Msg("Successfully sent email via Resend")
	return nil
}
