// Package calendar is a thin wrapper over an external calendar service.
// Event creation is best-effort: the capture pipeline logs failures and
// carries on.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nhle/voicetask/internal/model"
)

// Event is the calendar entry derived from a parsed deadline.
type Event struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Timezone    string    `json:"timezone"`
}

// FromDeadline builds an Event from a parse result.
func FromDeadline(d model.ParsedDeadline) Event {
	return Event{
		Title:       d.Title,
		Description: d.Description,
		Start:       d.Start(),
		End:         d.End(),
		Timezone:    d.Timezone,
	}
}

// Creator creates events on the user's calendar.
type Creator interface {
	CreateEvent(ctx context.Context, ev Event) error
}

// requestTimeout bounds a single calendar call.
const requestTimeout = 15 * time.Second

// Client posts events to a remote calendar API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a calendar client for the configured endpoint.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// CreateEvent posts the event as JSON.
func (c *Client) CreateEvent(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/events", bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling calendar service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("calendar service returned %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// Disabled is the Creator used when no calendar endpoint is configured.
type Disabled struct{}

// CreateEvent does nothing.
func (Disabled) CreateEvent(ctx context.Context, ev Event) error { return nil }
