package service

import (
	"context"
	"fmt"

	"recruit-backend/internal/config"
	"recruit-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridEmailService struct {
	client   *sendgrid.Client
	from     *mail.Email
	fromName string
}

// NewEmailService creates a SendGrid-backed mail transport.
func NewEmailService(cfg config.EmailConfig) EmailService {
	return &sendGridEmailService{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.From),
	}
}

func (s *sendGridEmailService) Send(ctx context.Context, to, subject, plainText string) error {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), plainText, "")
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", resp.StatusCode, resp.Body)
	}
	logger.InfoContext(ctx, "Email sent", "to", to, "status", resp.StatusCode)
	return nil
}
