package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
)

// Module provides the Mailer selected by configuration.
var Module = fx.Provide(newMailer)

type mailerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newMailer(p mailerParams) Mailer {
	smtp := p.Config.SMTP
	if smtp.Host == "" {
		p.Logger.Warn("smtp host not configured, mails are logged only")
		return NewLogMailer(p.Logger)
	}
	return NewSMTPMailer(smtp.Host, smtp.Port, smtp.User, smtp.Password, smtp.From, p.Logger)
}
