package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gallery-storefront/internal/config"

	"go.uber.org/zap"
)

// RelayClient forwards a message to the gallery's WhatsApp inbox.
type RelayClient interface {
	Send(ctx context.Context, message string) error
}

type relayClientImpl struct {
	httpClient  *http.Client
	relayURL    string
	token       string
	adminNumber string
}

type logRelay struct {
	log         *zap.Logger
	adminNumber string
}

// NewRelayClient posts to the configured relay. Without a relay URL messages are
// only logged, which is what the gallery runs with until a WhatsApp Business
// account is provisioned.
func NewRelayClient(cfg *config.WhatsApp, log *zap.Logger) RelayClient {
	if cfg.RelayURL == "" {
		return &logRelay{log: log, adminNumber: cfg.AdminNumber}
	}
	return &relayClientImpl{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		relayURL:    cfg.RelayURL,
		token:       cfg.Token,
		adminNumber: cfg.AdminNumber,
	}
}

func (r *relayClientImpl) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{
		"phone":   r.adminNumber,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("marshal relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.relayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("relay error %s: %s", resp.Status, string(b))
	}
	return nil
}

func (r *logRelay) Send(_ context.Context, message string) error {
	r.log.Info("whatsapp relay not configured, message logged only",
		zap.String("to", r.adminNumber),
		zap.String("message", message),
	)
	return nil
}
