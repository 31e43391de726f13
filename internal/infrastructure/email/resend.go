package email

import (
	"context"
	"fmt"

	"github.com/facturio/backend/internal/application/notification"
	"github.com/facturio/backend/internal/infrastructure/config"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendSender delivers transactional email through the Resend API.
type ResendSender struct {
	client      *resend.Client
	fromAddress string
	fromName    string
	logger      *zap.Logger
}

// NewResendSender creates a sender from configuration. It returns an
// error when email is enabled but no API key is configured.
func NewResendSender(cfg config.EmailConfig, logger *zap.Logger) (*ResendSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("email enabled but no API key configured")
	}
	return &ResendSender{
		client:      resend.NewClient(cfg.APIKey),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		logger:      logger,
	}, nil
}

// Send delivers the message, attaching the PDF when present.
func (s *ResendSender) Send(ctx context.Context, msg notification.EmailMessage) error {
	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if len(msg.Attachment) > 0 {
		params.Attachments = []*resend.Attachment{{
			Filename: msg.AttachmentName,
			Content:  msg.Attachment,
		}}
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", sent.Id),
	)
	return nil
}

var _ notification.EmailSender = (*ResendSender)(nil)

// NoopSender is used when email delivery is disabled. Messages are
// logged and dropped.
type NoopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a sender that only logs.
func NewNoopSender(logger *zap.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

// Send logs the message and succeeds.
func (s *NoopSender) Send(ctx context.Context, msg notification.EmailMessage) error {
	s.logger.Info("email delivery disabled, dropping message",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

var _ notification.EmailSender = (*NoopSender)(nil)
