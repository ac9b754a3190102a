package services

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/BradenHooton/storefront/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailService delivers account mail.
type EmailService interface {
	SendPasswordResetEmail(ctx context.Context, msg PasswordResetMessage) error
}

// PasswordResetMessage is everything needed to render a reset email.
type PasswordResetMessage struct {
	To        string
	Name      string
	Link      string
	ExpiresAt time.Time
}

// sesAPI is the subset of *ses.Client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   sesAPI
	fromAddress string
	logger      *slog.Logger
}

func NewAWSSESEmailService(ctx context.Context, region, fromAddress string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

func (s *AWSSESEmailService) SendPasswordResetEmail(ctx context.Context, msg PasswordResetMessage) error {
	htmlBody, textBody := renderPasswordReset(msg)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Reset your password"),
			},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
				Text: &types.Content{Data: aws.String(textBody)},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send password reset email via SES",
			slog.String("email", logger.SanitizedEmail(msg.To)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}
	s.logger.Info("password reset email sent",
		slog.String("email", logger.SanitizedEmail(msg.To)),
		slog.String("message_id", messageID))

	return nil
}

func renderPasswordReset(msg PasswordResetMessage) (string, string) {
	minutes := int(time.Until(msg.ExpiresAt).Round(time.Minute).Minutes())
	if minutes < 1 {
		minutes = 1
	}
	name := msg.Name
	if name == "" {
		name = "there"
	}

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .button { display: inline-block; background-color: #0066cc; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; margin: 20px 0; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <p>Hi %s,</p>
        <p>We received a request to reset the password for your account. This link is valid for %d minutes.</p>
        <p><a href="%s" class="button">Reset Password</a></p>
        <p>Or copy and paste this link in your browser:<br><code>%s</code></p>
        <p>If you did not ask for a reset you can ignore this email. Your password will not change.</p>
        <div class="footer">This is an automated message. Please do not reply to this email.</div>
    </div>
</body>
</html>
`, html.EscapeString(name), minutes, html.EscapeString(msg.Link), html.EscapeString(msg.Link))

	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset the password for your account. This link is valid for %d minutes:

%s

If you did not ask for a reset you can ignore this email. Your password will not change.
`, name, minutes, msg.Link)

	return htmlBody, textBody
}

// LogEmailService records outgoing mail instead of sending it. It is
// wired when EMAIL_ENABLED is false; the reset link is never logged.
type LogEmailService struct {
	logger *slog.Logger
}

func NewLogEmailService(logger *slog.Logger) *LogEmailService {
	return &LogEmailService{logger: logger}
}

func (s *LogEmailService) SendPasswordResetEmail(ctx context.Context, msg PasswordResetMessage) error {
	s.logger.Info("email delivery disabled, password reset email not sent",
		slog.String("email", logger.SanitizedEmail(msg.To)),
		slog.Time("expires_at", msg.ExpiresAt))
	return nil
}
