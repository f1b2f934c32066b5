package player

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tonearm/internal/config"
	"tonearm/internal/trackid"
	"tonearm/internal/voting"
)

// Client talks to the playback daemon's HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a player client from configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Player.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.Player.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type trackDTO struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	URI    string `json:"uri"`
}

type currentResponse struct {
	Playing bool     `json:"playing"`
	Track   trackDTO `json:"track"`
}

type queueResponse struct {
	Items []struct {
		Slot int `json:"slot"`
		trackDTO
	} `json:"items"`
}

type insertRequest struct {
	URI string `json:"uri"`
}

type insertResponse struct {
	Slot int `json:"slot"`
}

type reorderRequest struct {
	Slot        int    `json:"slot"`
	Destination string `json:"destination"`
}

// NowPlaying reports the current track, or ok=false when the player is idle.
func (c *Client) NowPlaying(ctx context.Context) (trackid.Ref, bool, error) {
	var current currentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/player/current", nil, &current); err != nil {
		return trackid.Ref{}, false, err
	}
	if !current.Playing {
		return trackid.Ref{}, false, nil
	}
	return trackid.FromParts(current.Track.Title, current.Track.Artist, current.Track.URI), true, nil
}

// Queue fetches a fresh queue snapshot.
func (c *Client) Queue(ctx context.Context) ([]voting.Slot, error) {
	var queue queueResponse
	if err := c.do(ctx, http.MethodGet, "/v1/player/queue", nil, &queue); err != nil {
		return nil, err
	}
	slots := make([]voting.Slot, 0, len(queue.Items))
	for _, item := range queue.Items {
		slots = append(slots, voting.Slot{
			Index: item.Slot,
			Track: trackid.FromParts(item.Title, item.Artist, item.URI),
		})
	}
	return slots, nil
}

// Skip advances playback past the current track.
func (c *Client) Skip(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/player/skip", nil, nil)
}

// Reorder moves the slot up to play immediately after the current track.
func (c *Client) Reorder(ctx context.Context, slot int) error {
	return c.do(ctx, http.MethodPost, "/v1/player/queue/reorder",
		reorderRequest{Slot: slot, Destination: "after-current"}, nil)
}

// Flush clears the entire queue.
func (c *Client) Flush(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/v1/player/queue", nil, nil)
}

// InsertAfterCurrent inserts the URI behind the current position and
// returns the slot it landed in.
func (c *Client) InsertAfterCurrent(ctx context.Context, uri string) (int, error) {
	var inserted insertResponse
	if err := c.do(ctx, http.MethodPost, "/v1/player/queue/insert", insertRequest{URI: uri}, &inserted); err != nil {
		return 0, err
	}
	return inserted.Slot, nil
}

// Remove deletes the slot from the queue.
func (c *Client) Remove(ctx context.Context, slot int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/player/queue/slots/%d", slot), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call player %s: %w", path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("player %s: unexpected status %s", path, resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
