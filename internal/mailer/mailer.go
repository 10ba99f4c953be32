package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	texttemplate "text/template"

	"gopkg.in/gomail.v2"
)

// Mailer sends the account related messages.
type Mailer interface {
	SendRecovery(ctx context.Context, to, resetLink string) error
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordChanged(ctx context.Context, to string) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer renders templates and delivers them through an SMTP relay.
type SMTPMailer struct {
	from   string
	dialer dialer
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer for host:port with optional credentials.
func NewSMTPMailer(host string, port int, user, password, from string, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:   from,
		dialer: gomail.NewDialer(host, port, user, password),
		logger: logger,
	}
}

func (m *SMTPMailer) SendRecovery(ctx context.Context, to, resetLink string) error {
	return m.send(ctx, to, recoveryTemplate, map[string]string{"Link": resetLink})
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, to, name string) error {
	return m.send(ctx, to, welcomeTemplate, map[string]string{"Name": name})
}

func (m *SMTPMailer) SendPasswordChanged(ctx context.Context, to string) error {
	return m.send(ctx, to, passwordChangedTemplate, nil)
}

func (m *SMTPMailer) send(ctx context.Context, to string, tpl message, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text, html, err := tpl.render(data)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", tpl.subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("send mail failed", slog.String("subject", tpl.subject), slog.String("error", err.Error()))
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogMailer only records what would have been sent. Used when SMTP is not configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendRecovery(_ context.Context, to, _ string) error {
	m.logger.Info("mail delivery disabled", slog.String("to", to), slog.String("subject", recoveryTemplate.subject))
	return nil
}

func (m *LogMailer) SendWelcome(_ context.Context, to, _ string) error {
	m.logger.Info("mail delivery disabled", slog.String("to", to), slog.String("subject", welcomeTemplate.subject))
	return nil
}

func (m *LogMailer) SendPasswordChanged(_ context.Context, to string) error {
	m.logger.Info("mail delivery disabled", slog.String("to", to), slog.String("subject", passwordChangedTemplate.subject))
	return nil
}

type message struct {
	subject string
	text    *texttemplate.Template
	html    *template.Template
}

func (t message) render(data any) (string, string, error) {
	var text, html bytes.Buffer
	if err := t.text.Execute(&text, data); err != nil {
		return "", "", fmt.Errorf("render %q: %w", t.subject, err)
	}
	if err := t.html.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("render %q: %w", t.subject, err)
	}
	return text.String(), html.String(), nil
}
