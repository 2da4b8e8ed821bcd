package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vibast-solutions/ms-go-catalog/config"
)

// Mailer delivers confirmation emails. Delivery failures are reported as
// *MailDeliveryError so workflows can distinguish them from internal
// errors and surface the provider's message.
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, textBody, htmlBody string) error
}

// MailDeliveryError carries the mail provider's failure message.
type MailDeliveryError struct {
	Message string
}

func (e *MailDeliveryError) Error() string {
	return e.Message
}

const mailgunAPIBase = "https://api.mailgun.net/v3"

// MailgunMailer sends mail through the Mailgun messages API.
type MailgunMailer struct {
	cfg     config.MailgunConfig
	baseURL string
	client  *http.Client
}

func NewMailgunMailer(cfg config.MailgunConfig) *MailgunMailer {
	return &MailgunMailer{
		cfg:     cfg,
		baseURL: mailgunAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewMailgunMailerWithBaseURL is used by tests to point the client at a
// local HTTP server.
func NewMailgunMailerWithBaseURL(cfg config.MailgunConfig, baseURL string) *MailgunMailer {
	m := NewMailgunMailer(cfg)
	m.baseURL = baseURL
	return m
}

func (m *MailgunMailer) Send(ctx context.Context, recipients []string, subject, textBody, htmlBody string) error {
	form := url.Values{}
	form.Set("from", m.cfg.From)
	form.Set("to", strings.Join(recipients, ","))
	form.Set("subject", subject)
	form.Set("text", textBody)
	form.Set("html", htmlBody)

	endpoint := fmt.Sprintf("%s/%s/messages", m.baseURL, m.cfg.Domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return &MailDeliveryError{Message: fmt.Sprintf("failed to build mail request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return &MailDeliveryError{Message: fmt.Sprintf("failed to reach mail provider: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &MailDeliveryError{
			Message: fmt.Sprintf("mail provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	return nil
}

// LogMailer is the fallback when Mailgun is not configured. It logs the
// message instead of sending it so local development does not need
// provider credentials.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, recipients []string, subject, textBody, _ string) error {
	logrus.WithFields(logrus.Fields{
		"recipients": recipients,
		"subject":    subject,
		"body":       textBody,
	}).Info("mail delivery disabled, logging message instead")
	return nil
}
