package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

type recordingMailer struct {
	sent []services.Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, e services.Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

func TestContactSend(t *testing.T) {
	owner := "owner" + "@example.com"
	visitor := "ada" + "@example.com"
	mailer := &recordingMailer{}
	svc := services.NewContactService(mailer, owner)

	err := svc.Send(context.Background(), services.ContactMessage{
		Name:    " Ada ",
		Email:   visitor,
		Message: "<b>hi</b>",
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	sent := mailer.sent[0]
	assert.Equal(t, []string{owner}, sent.To)
	assert.Equal(t, visitor, sent.ReplyTo)
	assert.Equal(t, "New message from Ada", sent.Subject)
	assert.Contains(t, sent.HTML, "&lt;b&gt;hi&lt;/b&gt;")
}

func TestContactValidation(t *testing.T) {
	visitor := "ada" + "@example.com"
	tests := []struct {
		name  string
		msg   services.ContactMessage
		field string
	}{
		{"no name", services.ContactMessage{Email: visitor, Message: "hi"}, "name"},
		{"no email", services.ContactMessage{Name: "Ada", Message: "hi"}, "email"},
		{"bad email", services.ContactMessage{Name: "Ada", Email: "not-an-address", Message: "hi"}, "email"},
		{"no message", services.ContactMessage{Name: "Ada", Email: visitor, Message: "  "}, "message"},
		{"long message", services.ContactMessage{Name: "Ada", Email: visitor, Message: strings.Repeat("a", services.MaxContactMessageLength+1)}, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &recordingMailer{}
			err := services.NewContactService(mailer, "owner"+"@example.com").Send(context.Background(), tt.msg)
			var apiErr *errs.ApiErr
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.field, apiErr.Field)
			assert.Empty(t, mailer.sent)
		})
	}
}

func TestContactDeliveryFailure(t *testing.T) {
	svc := services.NewContactService(&recordingMailer{err: errors.New("smtp down")}, "owner"+"@example.com")
	err := svc.Send(context.Background(), services.ContactMessage{Name: "Ada", Email: "ada" + "@example.com", Message: "hi"})
	assert.True(t, errs.IsEmailDeliveryError(err))

	unconfigured := services.NewContactService(nil, "")
	err = unconfigured.Send(context.Background(), services.ContactMessage{Name: "Ada", Email: "ada" + "@example.com", Message: "hi"})
	assert.True(t, errs.IsConfigMissingError(err))
}
