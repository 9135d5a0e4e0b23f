// Package mailer delivers the digest by SMTP
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/interfaces"
	"github.com/bobmcallan/piewatch/internal/models"
	"github.com/bobmcallan/piewatch/internal/services/report"
)

// Sender hands a composed RFC 5322 message to a transport.
type Sender interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

// Service implements ReportSink over email
type Service struct {
	config common.MailConfig
	sender Sender
	logger *common.Logger
	now    func() time.Time
}

// Option configures the service
type Option func(*Service)

// WithSender replaces the SMTP transport
func WithSender(sender Sender) Option {
	return func(s *Service) {
		s.sender = sender
	}
}

// NewService creates a new mailer service
func NewService(config common.MailConfig, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		config: config,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sender == nil {
		s.sender = NewSMTPSender(config)
	}
	return s
}

// Name identifies the sink in logs
func (s *Service) Name() string { return "email" }

// IsConfigured checks if SMTP is configured with minimum required settings
func (s *Service) IsConfigured() bool {
	return s.config.Host != "" && s.config.From != "" && s.config.To != ""
}

// Deliver composes the report as text plus HTML and sends it.
func (s *Service) Deliver(ctx context.Context, r *models.Report) error {
	if !s.IsConfigured() {
		return fmt.Errorf("%w: mail host, from and to are required", common.ErrConfig)
	}

	to, err := mail.ParseAddressList(s.config.To)
	if err != nil {
		return fmt.Errorf("invalid mail.to: %w", err)
	}

	msg, err := s.Compose(r, to)
	if err != nil {
		return err
	}

	rcpts := make([]string, 0, len(to))
	for _, a := range to {
		rcpts = append(rcpts, a.Address)
	}

	if err := s.sender.Send(ctx, s.config.From, rcpts, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info().
		Str("subject", r.Subject).
		Strs("to", rcpts).
		Int("bytes", len(msg)).
		Msg("Digest email sent")
	return nil
}

// Compose builds a multipart/alternative message with the markdown as the
// plain-text part and its HTML rendering as the rich part.
func (s *Service) Compose(r *models.Report, to []*mail.Address) ([]byte, error) {
	page, err := report.RenderHTML(r, "")
	if err != nil {
		return nil, err
	}

	var h mail.Header
	h.SetDate(s.now())
	h.SetAddressList("From", []*mail.Address{{Name: s.config.FromName, Address: s.config.From}})
	h.SetAddressList("To", to)
	h.SetSubject(r.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}

	if err := writePart(w, "text/plain", r.Markdown); err != nil {
		return nil, err
	}
	if err := writePart(w, "text/html", page); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close message writer: %w", err)
	}

	return buf.Bytes(), nil
}

func writePart(w *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	ph.Set("Content-Transfer-Encoding", "quoted-printable")

	pw, err := w.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(pw, normalizeNewlines(body)); err != nil {
		return fmt.Errorf("failed to write %s part: %w", contentType, err)
	}
	return pw.Close()
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}

var _ interfaces.ReportSink = (*Service)(nil)
