package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"salon/config"
	"salon/infras/otel"
	"salon/shared/constant"
)

const (
	otelAttrRecipient = "mail.recipient"
	otelAttrSubject   = "mail.subject"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) (err error)
}

type mailerImpl struct {
	config *config.Config
	dialer *gomail.Dialer
	otel   otel.Otel
}

func New(config *config.Config, otl otel.Otel) Mailer {
	dialer := gomail.NewDialer(
		config.SMTP.Host,
		config.SMTP.Port,
		config.SMTP.Username,
		config.SMTP.Password,
	)

	log.Info().Str("host", config.SMTP.Host).Int("port", config.SMTP.Port).Msg("Mailer initialized")

	return &mailerImpl{
		config: config,
		dialer: dialer,
		otel:   otl,
	}
}

func (m *mailerImpl) Send(ctx context.Context, to, subject, htmlBody string) (err error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelMailerScopeName, constant.OtelMailerScopeName+".Send")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		otelAttrRecipient: to,
		otelAttrSubject:   subject,
	})

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.SMTP.Sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody(constant.ContentTypeHTML, htmlBody)

	if err = m.dialer.DialAndSend(msg); err != nil {
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("Failed to send email")

		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Str("to", to).Str("subject", subject).Msg("Email sent")

	return nil
}
