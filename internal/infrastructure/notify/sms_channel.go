// Package notify provides the SMS gateway channel and circuit breaker
// state stores backing confirmation delivery.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	notifyapp "github.com/voiceledger/backend/internal/application/notify"
	"github.com/voiceledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure HTTPSMSChannel implements the application port
var _ notifyapp.Channel = (*HTTPSMSChannel)(nil)

// HTTPSMSChannel delivers messages through a REST SMS gateway.
// The gateway contract is a JSON POST; non-2xx responses are failures.
type HTTPSMSChannel struct {
	client   *http.Client
	url      string
	apiKey   string
	senderID string
	logger   *zap.Logger
}

// NewHTTPSMSChannel creates a new HTTPSMSChannel from configuration
func NewHTTPSMSChannel(cfg *config.NotifyConfig, logger *zap.Logger) (*HTTPSMSChannel, error) {
	if cfg == nil {
		return nil, errors.New("notify configuration is required")
	}
	if cfg.GatewayURL == "" {
		return nil, errors.New("notify gateway URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &HTTPSMSChannel{
		client:   &http.Client{Timeout: timeout},
		url:      cfg.GatewayURL,
		apiKey:   cfg.GatewayAPIKey,
		senderID: cfg.SenderID,
		logger:   logger,
	}, nil
}

type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from,omitempty"`
	Message string `json:"message"`
}

// Send posts one message to the gateway
func (c *HTTPSMSChannel) Send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(smsRequest{
		To:      phone,
		From:    c.senderID,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the log, never the whole thing.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("SMS gateway rejected message",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}
