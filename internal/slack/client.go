package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"purchasing_manager/internal/config"
	"purchasing_manager/internal/retry"
)

// Client posts messages to Slack incoming webhooks.
type Client struct {
	httpClient *http.Client
	retryCfg   retry.Config
}

// NewClient builds a webhook client with the default delivery policy.
// Delivery is at-most-once per message unless the policy says otherwise.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retryCfg: config.DefaultResilienceConfig.WebhookSend,
	}
}

// Send posts one message to the given webhook URL.
func (c *Client) Send(ctx context.Context, webhookURL string, msg *Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode slack message: %w", err)
	}

	_, err = retry.WithRetry(ctx, c.retryCfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.post(ctx, webhookURL, payload)
	})
	if err != nil {
		return fmt.Errorf("failed to deliver slack message: %w", err)
	}

	log.Debug().
		Int("payload_bytes", len(payload)).
		Msg("Slack message delivered")

	return nil
}

func (c *Client) post(ctx context.Context, webhookURL string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
