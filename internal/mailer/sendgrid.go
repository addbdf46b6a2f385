package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marlowpress/storefront-backend/pkg/config"
)

const (
	defaultSendgridBaseURL          = "https://api.sendgrid.com/v3"
	sendgridResponseReadLimit int64 = 4096
)

// SendgridMailer delivers mail through the SendGrid v3 REST API.
type SendgridMailer struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	defaultFrom string
}

// SendgridOption configures optional mailer behavior.
type SendgridOption func(*SendgridMailer)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) SendgridOption {
	return func(m *SendgridMailer) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// WithBaseURL overrides the SendGrid API origin.
func WithBaseURL(baseURL string) SendgridOption {
	return func(m *SendgridMailer) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			m.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// NewSendgridMailer builds the SendGrid mailer from configuration.
func NewSendgridMailer(cfg config.SendgridConfig, opts ...SendgridOption) (*SendgridMailer, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is required")
	}

	m := &SendgridMailer{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     defaultSendgridBaseURL,
		apiKey:      apiKey,
		defaultFrom: cfg.DefaultFrom,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m, nil
}

type sendgridAddress struct {
	Email string `json:"email"`
}

type sendgridPayload struct {
	Personalizations []struct {
		To []sendgridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendgridAddress `json:"from"`
	Subject string          `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func (m *SendgridMailer) Send(ctx context.Context, email Email) error {
	from := email.From
	if from == "" {
		from = m.defaultFrom
	}

	payload := sendgridPayload{
		From:    sendgridAddress{Email: from},
		Subject: email.Subject,
	}
	payload.Personalizations = append(payload.Personalizations, struct {
		To []sendgridAddress `json:"to"`
	}{To: []sendgridAddress{{Email: email.To}}})
	payload.Content = append(payload.Content, struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{Type: "text/plain", Value: email.Body})

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/mail/send", bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, sendgridResponseReadLimit))
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
