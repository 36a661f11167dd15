// Package email delivers notifications by e-mail.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"
)

// Message is a rendered e-mail.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends rendered e-mails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// MailerConfig holds configuration for creating a mailer.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer creates a mailer from config. Provider "ses" uses AWS SES;
// anything else falls back to a mailer that only logs.
func NewMailer(config MailerConfig, logger *slog.Logger) Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	switch config.Provider {
	case ProviderSES:
		awsCfg := aws.Config{
			Region: config.SES.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(config.SES.AccessKeyID, config.SES.SecretAccessKey, ""),
			),
		}
		return NewSESMailer(ses.NewFromConfig(awsCfg), config.FromAddress, config.FromName, logger)
	case ProviderNoop, "":
		return NewNoopMailer(logger)
	default:
		logger.Warn("unknown mail provider, using noop", "provider", config.Provider)
		return NewNoopMailer(logger)
	}
}

// SESClient is the part of the SES API the mailer uses.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends e-mails through AWS SES.
type SESMailer struct {
	client      SESClient
	fromAddress string
	fromName    string
	logger      *slog.Logger
}

// NewSESMailer creates a new SESMailer.
func NewSESMailer(client SESClient, fromAddress, fromName string, logger *slog.Logger) *SESMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SESMailer{client: client, fromAddress: fromAddress, fromName: fromName, logger: logger}
}

// Send sends msg with SES.
func (m *SESMailer) Send(ctx context.Context, msg Message) error {
	source := m.fromAddress
	if m.fromName != "" {
		source = fmt.Sprintf("%s <%s>", m.fromName, m.fromAddress)
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(source),
		Destination: &types.Destination{ToAddresses: []string{msg.To}},
		Message: &types.Message{
			Subject: utf8Content(msg.Subject),
			Body:    &types.Body{},
		},
	}
	if msg.HTML != "" {
		input.Message.Body.Html = utf8Content(msg.HTML)
	}
	if msg.Text != "" {
		input.Message.Body.Text = utf8Content(msg.Text)
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}
	m.logger.Debug("email sent", "to", msg.To, "message_id", aws.ToString(result.MessageId))
	return nil
}

func utf8Content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}

// NoopMailer logs e-mails instead of sending them.
type NoopMailer struct {
	logger *slog.Logger
}

// NewNoopMailer creates a new NoopMailer.
func NewNoopMailer(logger *slog.Logger) *NoopMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopMailer{logger: logger}
}

// Send logs msg.
func (m *NoopMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("email would be sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
