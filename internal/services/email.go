package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventrsvp/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendVerification sends the registration email carrying the verification code.
func (s *emailService) SendVerification(ctx context.Context, data *domain.VerificationEmailData) error {
	if data == nil {
		return fmt.Errorf("verification email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("verification", data)
	if err != nil {
		return fmt.Errorf("failed to render verification template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	s.logger.InfoContext(ctx, "verification email sent", "to", data.Email)
	return nil
}

// SendConfirmation sends the account-verified email; it repeats the code as the user's access reference.
func (s *emailService) SendConfirmation(ctx context.Context, data *domain.ConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("confirmation email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render confirmation template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	s.logger.InfoContext(ctx, "confirmation email sent", "to", data.Email)
	return nil
}
