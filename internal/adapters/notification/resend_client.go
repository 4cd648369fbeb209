// resend_client.go sends transactional email through the Resend HTTP API and
// degrades to a logged no-op when no API key is configured.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	resendEndpoint = "https://api.resend.com/emails"
	sendTimeout    = 10 * time.Second
)

// ResendClient implements the notification dispatcher port over Resend's
// /emails endpoint. When the API key is empty every Send becomes a warning
// log so local environments run without credentials.
type ResendClient struct {
	apiKey      string
	fromAddress string
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewResendClient(apiKey, fromAddress string, logger *slog.Logger) *ResendClient {
	if apiKey == "" {
		logger.Warn("Resend API key is empty, email dispatch will be a no-op.")
	}
	return &ResendClient{
		apiKey:      apiKey,
		fromAddress: fromAddress,
		httpClient:  &http.Client{Timeout: sendTimeout},
		logger:      logger,
	}
}

func (c *ResendClient) IsInitialized() bool {
	return c.apiKey != ""
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts one email. Callers treat delivery as best effort and only log
// failures, so Send never retries on its own.
func (c *ResendClient) Send(ctx context.Context, toAddress string, subject string, htmlBody string) error {
	if c.apiKey == "" {
		c.logger.Warn("Skipping email dispatch, no API key configured.",
			slog.String("to", toAddress), slog.String("subject", subject))
		return nil
	}

	body, err := json.Marshal(resendPayload{
		From:    c.fromAddress,
		To:      []string{toAddress},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Info("Email dispatched.", slog.String("to", toAddress), slog.String("subject", subject))
	return nil
}
