package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"

	"github.com/polkiloo/orderdesk/internal/config"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestMailer(d dialer) *SMTPMailer {
	return &SMTPMailer{from: "desk@example.com", dialer: d, logger: testLogger()}
}

func rendered(t *testing.T, msg *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write message: %v", err)
	}
	return buf.String()
}

func TestSendRecoveryIncludesLink(t *testing.T) {
	d := &recordingDialer{}
	m := newTestMailer(d)

	link := "https://desk.example.com/reset-password?token=abc123"
	if err := m.SendRecovery(context.Background(), "ana@example.com", link); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(d.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(d.sent))
	}
	msg := d.sent[0]
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "ana@example.com" {
		t.Fatalf("unexpected recipient %v", got)
	}
	if got := msg.GetHeader("From"); len(got) != 1 || got[0] != "desk@example.com" {
		t.Fatalf("unexpected sender %v", got)
	}
	if got := msg.GetHeader("Subject"); len(got) != 1 || got[0] != recoveryTemplate.subject {
		t.Fatalf("unexpected subject %v", got)
	}
	if body := rendered(t, msg); !strings.Contains(body, "multipart/alternative") {
		t.Fatalf("expected text and html parts, got %s", body)
	}

	text, html, err := recoveryTemplate.render(map[string]string{"Link": link})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(text, link) {
		t.Fatalf("expected link in text part, got %s", text)
	}
	if !strings.Contains(html, `href="https://desk.example.com/reset-password?token=abc123"`) {
		t.Fatalf("expected link in html part, got %s", html)
	}
}

func TestSendWelcomeEscapesName(t *testing.T) {
	d := &recordingDialer{}
	m := newTestMailer(d)

	if err := m.SendWelcome(context.Background(), "ana@example.com", "<b>Ana</b>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(d.sent))
	}

	text, html, err := welcomeTemplate.render(map[string]string{"Name": "<b>Ana</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<b>Ana</b>") {
		t.Fatalf("expected name to be escaped in html, got %s", html)
	}
	if !strings.Contains(text, "<b>Ana</b>") {
		t.Fatalf("expected name verbatim in text, got %s", text)
	}
}

func TestSendPropagatesDialerError(t *testing.T) {
	d := &recordingDialer{err: errors.New("relay down")}
	m := newTestMailer(d)

	if err := m.SendPasswordChanged(context.Background(), "ana@example.com"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSendHonoursCancelledContext(t *testing.T) {
	d := &recordingDialer{}
	m := newTestMailer(d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.SendPasswordChanged(ctx, "ana@example.com"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if len(d.sent) != 0 {
		t.Fatal("expected nothing to be sent")
	}
}

func TestLogMailerNeverFails(t *testing.T) {
	m := NewLogMailer(testLogger())
	ctx := context.Background()
	if err := m.SendRecovery(ctx, "a@b.c", "link"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SendWelcome(ctx, "a@b.c", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SendPasswordChanged(ctx, "a@b.c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewMailerUsesConfig(t *testing.T) {
	m := newMailer(mailerParams{Config: &config.Config{}, Logger: testLogger()})
	if _, ok := m.(*LogMailer); !ok {
		t.Fatalf("expected log mailer without smtp host, got %T", m)
	}

	cfg := &config.Config{SMTP: config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "desk@example.com"}}
	m = newMailer(mailerParams{Config: cfg, Logger: testLogger()})
	if _, ok := m.(*SMTPMailer); !ok {
		t.Fatalf("expected smtp mailer, got %T", m)
	}
}
