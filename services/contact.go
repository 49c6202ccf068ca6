package services

import (
	"context"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

const MaxContactMessageLength = 5000

type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactService forwards the site's contact form to the owner's inbox with
// the visitor as reply-to.
type ContactService struct {
	mailer Mailer
	to     string
	logger zerolog.Logger
}

func NewContactService(mailer Mailer, to string) *ContactService {
	return &ContactService{
		mailer: mailer,
		to:     to,
		logger: log.With().Str("service", "contact").Logger(),
	}
}

var contactTemplate = template.Must(template.New("contact").Parse(
	`<p><strong>{{.Name}}</strong> &lt;{{.Email}}&gt; wrote:</p>` +
		`<p style="white-space:pre-wrap">{{.Message}}</p>`))

func (s *ContactService) Send(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	if err := validateContact(msg); err != nil {
		return err
	}
	if s.mailer == nil || s.to == "" {
		return errs.NewConfigMissingError("CONTACT_EMAIL")
	}

	var body strings.Builder
	if err := contactTemplate.Execute(&body, msg); err != nil {
		return errs.NewInternalErrorWithCause("render contact email", err)
	}
	subject := msg.Subject
	if subject == "" {
		subject = fmt.Sprintf("New message from %s", msg.Name)
	}

	err := s.mailer.Send(ctx, Email{
		To:      []string{s.to},
		Subject: subject,
		HTML:    body.String(),
		Text:    msg.Message,
		ReplyTo: msg.Email,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("contact message not delivered")
		if errs.IsEmailDeliveryError(err) {
			return err
		}
		return errs.NewEmailDeliveryError(err)
	}
	return nil
}

func validateContact(msg ContactMessage) error {
	if msg.Name == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	if msg.Email == "" {
		return errs.NewMissingRequiredFieldError("email")
	}
	if addr, err := mail.ParseAddress(msg.Email); err != nil || addr.Address != msg.Email {
		return errs.NewValidationError("email", "email is not a valid address")
	}
	if msg.Message == "" {
		return errs.NewMissingRequiredFieldError("message")
	}
	if utf8.RuneCountInString(msg.Message) > MaxContactMessageLength {
		return errs.NewValidationError("message", fmt.Sprintf("message is longer than %d characters", MaxContactMessageLength))
	}
	return nil
}
