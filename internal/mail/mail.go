// Package mail delivers transactional email through the EmailJS REST API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"time"

	"travelguide/internal/config"
)

const emailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// Mailer sends the password lifecycle notices.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
	SendPasswordChanged(ctx context.Context, to, name string) error
}

// New returns an EmailJS mailer when credentials are configured, otherwise a log-only mailer.
func New(cfg config.EmailJSConfig) Mailer {
	if !cfg.Enabled() {
		log.Println("mail: EmailJS is not configured, emails will only be logged")
		return LogMailer{}
	}
	return NewEmailJS(cfg, emailJSEndpoint, &http.Client{Timeout: 10 * time.Second})
}

// EmailJS posts messages to the EmailJS send endpoint. The template is
// expected to use {{to_email}}, {{to_name}}, {{subject}} and {{message_html}}.
type EmailJS struct {
	cfg      config.EmailJSConfig
	endpoint string
	client   *http.Client
}

// NewEmailJS builds a client for the given endpoint.
func NewEmailJS(cfg config.EmailJSConfig, endpoint string, client *http.Client) *EmailJS {
	return &EmailJS{cfg: cfg, endpoint: endpoint, client: client}
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// SendPasswordReset mails the reset link.
func (m *EmailJS) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	body := fmt.Sprintf(`<p>Здравствуйте, %s!</p><p>Вы запросили сброс пароля. Перейдите по ссылке, чтобы задать новый пароль:</p><p><a href="%s">%s</a></p><p>Ссылка действительна 1 час. Если вы не запрашивали сброс, просто проигнорируйте это письмо.</p>`,
		html.EscapeString(displayName(name)), html.EscapeString(resetURL), html.EscapeString(resetURL))
	return m.send(ctx, to, name, "Сброс пароля", body)
}

// SendPasswordChanged notifies the user that their password was replaced.
func (m *EmailJS) SendPasswordChanged(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(`<p>Здравствуйте, %s!</p><p>Пароль вашего аккаунта был успешно изменен. Если это были не вы, немедленно свяжитесь с поддержкой.</p>`,
		html.EscapeString(displayName(name)))
	return m.send(ctx, to, name, "Пароль изменен", body)
}

func (m *EmailJS) send(ctx context.Context, to, name, subject, body string) error {
	payload, err := json.Marshal(emailJSRequest{
		ServiceID:   m.cfg.ServiceID,
		TemplateID:  m.cfg.TemplateID,
		UserID:      m.cfg.PublicKey,
		AccessToken: m.cfg.PrivateKey,
		TemplateParams: map[string]string{
			"to_email":     to,
			"to_name":      displayName(name),
			"subject":      subject,
			"message_html": body,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("emailjs returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

// LogMailer writes messages to the process log instead of sending them.
type LogMailer struct{}

// SendPasswordReset logs the reset link.
func (LogMailer) SendPasswordReset(_ context.Context, to, _ string, resetURL string) error {
	log.Printf("mail: password reset for %s: %s", to, resetURL)
	return nil
}

// SendPasswordChanged logs the notice.
func (LogMailer) SendPasswordChanged(_ context.Context, to, _ string) error {
	log.Printf("mail: password changed for %s", to)
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "пользователь"
	}
	return name
}
