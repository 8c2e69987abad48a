package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comptesupport/dispatch"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// SMTPMailer delivers messages through an SMTP relay with PLAIN auth when a
// username is configured.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	send func(ctx context.Context, msg *mail.Msg) error
	now  func() time.Time
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	m := &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		now:      time.Now,
	}
	m.send = m.dialAndSend
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, msg dispatch.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return errors.New("message has no recipient")
	}

	built, err := m.Build(msg)
	if err != nil {
		return err
	}
	if err := m.send(ctx, built); err != nil {
		return fmt.Errorf("send mail via %s:%d: %w", m.Host, m.Port, err)
	}
	return nil
}

// Build turns msg into a go-mail message. BCC recipients only reach the
// envelope, never the headers.
func (m *SMTPMailer) Build(msg dispatch.Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.FromFormat(msg.FromName, m.From); err != nil {
		return nil, fmt.Errorf("set sender %s: %w", m.From, err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("set recipients: %w", err)
	}
	if len(msg.CC) > 0 {
		if err := out.Cc(msg.CC...); err != nil {
			return nil, fmt.Errorf("set cc: %w", err)
		}
	}
	if len(msg.BCC) > 0 {
		if err := out.Bcc(msg.BCC...); err != nil {
			return nil, fmt.Errorf("set bcc: %w", err)
		}
	}

	now := time.Now
	if m.now != nil {
		now = m.now
	}
	out.Subject(msg.Subject)
	out.SetDateWithValue(now())
	out.SetMessageIDWithValue(uuid.NewString() + "@" + m.Host)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)

	for _, path := range msg.Attachments {
		detected, err := mimetype.DetectFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", path, err)
		}
		out.AttachFile(path, mail.WithFileContentType(mail.ContentType(detected.String())))
	}
	return out, nil
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	options := []mail.Option{
		mail.WithPort(m.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.Username),
			mail.WithPassword(m.Password),
		)
	}
	client, err := mail.NewClient(m.Host, options...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
