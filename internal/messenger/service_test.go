package messenger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tonearm/internal/config"
	"tonearm/internal/messenger"
)

func TestNewServiceReturnsNoopWhenWebhookMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Messenger.WebhookURL = ""
	svc := messenger.NewService(&cfg)
	if err := svc.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("expected noop messenger to return nil, got %v", err)
	}
}

func TestWebhookServicePostsJSON(t *testing.T) {
	var got struct {
		ChannelID string `json:"channel_id"`
		Text      string `json:"text"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Messenger.WebhookURL = server.URL
	cfg.Messenger.ChannelID = "jukebox"
	svc := messenger.NewService(&cfg)

	if err := svc.Send(context.Background(), "Gong 1 of 3."); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got.ChannelID != "jukebox" || got.Text != "Gong 1 of 3." {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestWebhookServiceSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Messenger.WebhookURL = server.URL
	svc := messenger.NewService(&cfg)

	if err := svc.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
