package contact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/aretw0/folio/pkg/logger"
)

// ErrNotConfigured is returned when there is no way to deliver mail.
var ErrNotConfigured = errors.New("contact: email delivery is not configured")

// Config addresses the two emails sent per submission.
type Config struct {
	// From is the sender on both emails.
	From string
	// To receives the owner notification.
	To string
	// SiteName signs the acknowledgement.
	SiteName string
}

// Service validates submissions and relays them through a Mailer.
type Service struct {
	mailer Mailer
	cfg    Config
	logger *slog.Logger
}

func NewService(mailer Mailer, cfg Config, log *slog.Logger) *Service {
	return &Service{
		mailer: mailer,
		cfg:    cfg,
		logger: logger.WithComponent(log, "contact"),
	}
}

// Configured reports whether Submit can deliver mail.
func (s *Service) Configured() bool {
	if s.mailer == nil || s.cfg.From == "" || s.cfg.To == "" {
		return false
	}
	if c, ok := s.mailer.(interface{ Configured() bool }); ok {
		return c.Configured()
	}
	return true
}

// Submit validates req and sends the owner notification followed by the
// acknowledgement. Validation failures are *ValidationError. A failed send
// is returned as is; nothing is retried.
func (s *Service) Submit(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if !s.Configured() {
		return ErrNotConfigured
	}

	notification, err := s.notification(req)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, notification); err != nil {
		return fmt.Errorf("owner notification: %w", err)
	}

	ack, err := s.acknowledgement(req)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, ack); err != nil {
		return fmt.Errorf("acknowledgement: %w", err)
	}

	s.logger.Info("contact submission relayed", "subject", req.Subject, "project_type", req.ProjectType)
	return nil
}

var notificationTmpl = template.Must(template.New("notification").Parse(`<h2>New contact form submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
{{- if .Company}}
<p><strong>Company:</strong> {{.Company}}</p>
{{- end}}
{{- if .ProjectType}}
<p><strong>Project type:</strong> {{.ProjectType}}</p>
{{- end}}
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

var acknowledgementTmpl = template.Must(template.New("acknowledgement").Parse(`<p>Hi {{.Request.Name}},</p>
<p>Thanks for getting in touch about "{{.Request.Subject}}". I have received your message and will reply soon.</p>
<p>{{.SiteName}}</p>
`))

func (s *Service) notification(req Request) (Message, error) {
	var html bytes.Buffer
	if err := notificationTmpl.Execute(&html, req); err != nil {
		return Message{}, fmt.Errorf("render notification: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Name: %s\nEmail: %s\n", req.Name, req.Email)
	if req.Company != "" {
		fmt.Fprintf(&text, "Company: %s\n", req.Company)
	}
	if req.ProjectType != "" {
		fmt.Fprintf(&text, "Project type: %s\n", req.ProjectType)
	}
	fmt.Fprintf(&text, "Subject: %s\n\n%s\n", req.Subject, req.Message)

	return Message{
		From:    s.cfg.From,
		To:      []string{s.cfg.To},
		ReplyTo: req.Email,
		Subject: "New contact form submission: " + req.Subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

func (s *Service) acknowledgement(req Request) (Message, error) {
	siteName := s.cfg.SiteName
	if siteName == "" {
		siteName = s.cfg.From
	}
	var html bytes.Buffer
	data := struct {
		Request  Request
		SiteName string
	}{req, siteName}
	if err := acknowledgementTmpl.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render acknowledgement: %w", err)
	}

	return Message{
		From:    s.cfg.From,
		To:      []string{strings.TrimSpace(req.Email)},
		Subject: "Thanks for your message",
		HTML:    html.String(),
		Text: fmt.Sprintf("Hi %s,\n\nThanks for getting in touch about %q. I have received your message and will reply soon.\n\n%s\n",
			req.Name, req.Subject, siteName),
	}, nil
}
