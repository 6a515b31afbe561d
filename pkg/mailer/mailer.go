package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/taeyang999/xposconnect-sub000/pkg/config"
	"github.com/taeyang999/xposconnect-sub000/pkg/logger"
)

// Attachment is an in-memory file attached to a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is an outbound email.
type Message struct {
	To          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Sender delivers email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP sender when SMTP is configured and a logging no-op otherwise.
func New(cfg config.SMTPConfig, logg *logger.Logger) Sender {
	if !cfg.Enabled() {
		return &noopSender{logg: logg}
	}
	return NewSMTP(cfg)
}

type sendFunc func(e *email.Email, addr string, a smtp.Auth) error

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	from string
	addr string
	auth smtp.Auth
	send sendFunc
}

// NewSMTP builds the SMTP sender.
func NewSMTP(cfg config.SMTPConfig) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		from: from,
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		send: func(e *email.Email, addr string, a smtp.Auth) error { return e.Send(addr, a) },
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, err := m.build(msg)
	if err != nil {
		return err
	}
	if err := m.send(e, m.addr, m.auth); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

func (m *SMTPMailer) build(msg Message) (*email.Email, error) {
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	if len(to) == 0 {
		return nil, errors.New("mailer: at least one recipient required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return nil, errors.New("mailer: subject required")
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = to
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}
	for _, att := range msg.Attachments {
		if _, err := e.Attach(bytes.NewReader(att.Data), att.Name, att.ContentType); err != nil {
			return nil, fmt.Errorf("mailer: attach %s: %w", att.Name, err)
		}
	}
	return e, nil
}

type noopSender struct {
	logg *logger.Logger
}

func (n *noopSender) Send(ctx context.Context, msg Message) error {
	if n.logg != nil {
		ctx = n.logg.WithFields(ctx, map[string]any{"to": msg.To, "subject": msg.Subject})
		n.logg.Info(ctx, "smtp not configured; email dropped")
	}
	return nil
}
