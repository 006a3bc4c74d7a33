package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventrsvp/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func TestTemplateRenderer_Render(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	tests := []struct {
		name        string
		template    string
		data        any
		wantSubject string
	}{
		{
			name:        "verification",
			template:    "verification",
			data:        &domain.VerificationEmailData{Email: "a@x.com", Name: "<Ann>", Code: "AB12CD"},
			wantSubject: "Verify your account",
		},
		{
			name:        "confirmation",
			template:    "confirmation",
			data:        &domain.ConfirmationEmailData{Email: "a@x.com", Name: "<Ann>", Code: "AB12CD"},
			wantSubject: "Your account is verified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, html, text, err := r.Render(tt.template, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSubject, subject)
			assert.Contains(t, html, "<strong>AB12CD</strong>")
			assert.Contains(t, html, "&lt;Ann&gt;", "html body must escape user input")
			assert.Contains(t, text, "AB12CD")
			assert.Contains(t, text, "<Ann>")
		})
	}
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	_, _, _, err = r.Render("missing", nil)
	require.Error(t, err)
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := &sesMailer{client: client, fromAddress: "noreply@example.com", fromName: "Events", logger: testLogger}

	err := m.Send(context.Background(), "a@x.com", "Hi", "<p>hi</p>", "hi")
	require.NoError(t, err)
	require.NotNil(t, client.input)
	assert.Equal(t, "Events <noreply@example.com>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"a@x.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(client.input.Message.Body.Html.Data))
	assert.Equal(t, "hi", aws.ToString(client.input.Message.Body.Text.Data))
}

func TestSESMailer_Send_TextOnly(t *testing.T) {
	client := &fakeSES{}
	m := &sesMailer{client: client, fromAddress: "noreply@example.com", logger: testLogger}

	require.NoError(t, m.Send(context.Background(), "a@x.com", "Hi", "", "hi"))
	assert.Equal(t, "noreply@example.com", aws.ToString(client.input.Source))
	assert.Nil(t, client.input.Message.Body.Html)
}

func TestSESMailer_Send_Error(t *testing.T) {
	m := &sesMailer{client: &fakeSES{err: errors.New("throttled")}, fromAddress: "noreply@example.com", logger: testLogger}

	err := m.Send(context.Background(), "a@x.com", "Hi", "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNewMailer_Providers(t *testing.T) {
	_, ok := NewMailer(MailerConfig{Provider: "noop"}, testLogger).(*noopMailer)
	assert.True(t, ok)

	_, ok = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, testLogger).(*noopMailer)
	assert.True(t, ok)

	_, ok = NewMailer(MailerConfig{Provider: "ses", SES: SESConfig{Region: "eu-west-1", AccessKeyID: "k", SecretAccessKey: "s"}}, testLogger).(*sesMailer)
	assert.True(t, ok)

	require.NoError(t, NewMailer(MailerConfig{}, testLogger).Send(context.Background(), "a@x.com", "s", "", ""))
}
