package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tonearm/internal/config"
)

const userAgent = "Tonearm/0.1.0"

// Service is the chat announcement surface the voting engine talks to.
type Service interface {
	Send(ctx context.Context, text string) error
}

// NewService builds a messenger backed by the configured webhook. When no
// webhook URL is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	url := strings.TrimSpace(cfg.Messenger.WebhookURL)
	if url == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Messenger.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &webhookService{
		url:     url,
		channel: cfg.Messenger.ChannelID,
		client:  &http.Client{Timeout: timeout},
	}
}

type webhookService struct {
	url     string
	channel string
	client  *http.Client
}

type messagePayload struct {
	ChannelID string `json:"channel_id,omitempty"`
	Text      string `json:"text"`
}

func (s *webhookService) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(messagePayload{ChannelID: s.channel, Text: text})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send message: unexpected status %s", resp.Status)
	}
	return nil
}

type noopService struct{}

func (noopService) Send(context.Context, string) error { return nil }
