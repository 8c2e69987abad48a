package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"comptesupport/partner"
	"comptesupport/progress"

	"go.uber.org/zap"
)

const (
	DefaultSubject = "Compte support {{.Partner}}"
	DefaultBody    = "Bonjour,\n\nVeuillez trouver ci-joint le document {{.File}}.\n\nCordialement,\n"
)

// Message is everything a Mailer needs to deliver one email.
type Message struct {
	Subject     string
	Body        string
	To          []string
	CC          []string
	BCC         []string
	FromName    string
	Attachments []string
}

// Mailer transmits one message and reports whether it was accepted.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Options struct {
	Subject  string
	Body     string
	CC       []string
	BCC      []string
	FromName string
	DryRun   bool
}

// Outcome is the send result of one routed file.
type Outcome struct {
	Route   partner.Route
	Message Message
	Sent    bool
	Err     error
}

type Summary struct {
	DryRun   bool
	Outcomes []Outcome
}

func (s *Summary) Sent() int {
	count := 0
	for _, outcome := range s.Outcomes {
		if outcome.Sent {
			count++
		}
	}
	return count
}

func (s *Summary) Failed() int {
	count := 0
	for _, outcome := range s.Outcomes {
		if outcome.Err != nil {
			count++
		}
	}
	return count
}

type templateData struct {
	Partner string
	File    string
	Emails  string
}

// Service renders one message per route and hands it to the mailer.
type Service struct {
	mailer   Mailer
	opts     Options
	subject  *template.Template
	body     *template.Template
	notifier progress.Notifier
	logger   *zap.Logger
}

func NewService(mailer Mailer, opts Options, sink progress.Sink, logger *zap.Logger) (*Service, error) {
	if mailer == nil && !opts.DryRun {
		return nil, errors.New("mailer is required unless dry-run is enabled")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(opts.Subject) == "" {
		opts.Subject = DefaultSubject
	}
	if strings.TrimSpace(opts.Body) == "" {
		opts.Body = DefaultBody
	}

	subject, err := template.New("subject").Option("missingkey=error").Parse(opts.Subject)
	if err != nil {
		return nil, fmt.Errorf("parse subject template: %w", err)
	}
	body, err := template.New("body").Option("missingkey=error").Parse(opts.Body)
	if err != nil {
		return nil, fmt.Errorf("parse body template: %w", err)
	}

	return &Service{
		mailer:   mailer,
		opts:     opts,
		subject:  subject,
		body:     body,
		notifier: progress.NewNotifier(sink, logger),
		logger:   logger,
	}, nil
}

// Compose renders the message for one route.
func (s *Service) Compose(route partner.Route) (Message, error) {
	data := templateData{
		Partner: route.PartnerName,
		File:    route.FileName,
		Emails:  strings.Join(route.RecipientEmails, ", "),
	}

	var subject, body bytes.Buffer
	if err := s.subject.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("render subject for %s: %w", route.FileName, err)
	}
	if err := s.body.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render body for %s: %w", route.FileName, err)
	}

	return Message{
		Subject:     strings.TrimSpace(subject.String()),
		Body:        body.String(),
		To:          append([]string(nil), route.RecipientEmails...),
		CC:          append([]string(nil), s.opts.CC...),
		BCC:         append([]string(nil), s.opts.BCC...),
		FromName:    s.opts.FromName,
		Attachments: []string{route.FilePath},
	}, nil
}

// Send mails each route in order. A failed delivery is recorded on its
// outcome and does not stop the remaining routes; cancellation does.
func (s *Service) Send(ctx context.Context, routes []partner.Route) (*Summary, error) {
	summary := &Summary{DryRun: s.opts.DryRun}
	total := len(routes)
	for i, route := range routes {
		if err := ctx.Err(); err != nil {
			s.notifier.Notify(i, total, "cancelled")
			return summary, err
		}

		outcome := Outcome{Route: route}
		outcome.Message, outcome.Err = s.Compose(route)
		if outcome.Err == nil && !s.opts.DryRun {
			outcome.Err = s.mailer.Send(ctx, outcome.Message)
			if outcome.Err != nil && ctx.Err() != nil {
				s.notifier.Notify(i, total, "cancelled")
				return summary, ctx.Err()
			}
			outcome.Sent = outcome.Err == nil
		}

		if outcome.Err != nil {
			s.logger.Error("send partner report",
				zap.String("file", route.FileName),
				zap.String("partner", route.PartnerName),
				zap.Error(outcome.Err),
			)
		} else {
			s.logger.Info("partner report dispatched",
				zap.String("file", route.FileName),
				zap.Strings("to", outcome.Message.To),
				zap.Bool("dry_run", s.opts.DryRun),
			)
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
		s.notifier.Notify(i+1, total, route.FileName)
	}
	return summary, nil
}
