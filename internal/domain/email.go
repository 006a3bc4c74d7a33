package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// VerificationEmailData holds data for the email sent at registration.
type VerificationEmailData struct {
	Email string
	Name  string
	Code  string
}

// ConfirmationEmailData holds data for the email sent once the account is verified.
// Code is the verification code, kept as the user's access reference.
type ConfirmationEmailData struct {
	Email string
	Name  string
	Code  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendVerification(ctx context.Context, data *VerificationEmailData) error
	SendConfirmation(ctx context.Context, data *ConfirmationEmailData) error
}
