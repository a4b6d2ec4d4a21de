package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/metrics"
)

type Event string

const (
	EventStoreCreated       Event = "store_created"
	EventMobileCreated      Event = "mobile_created"
	EventRescheduled        Event = "rescheduled"
	EventCompleted          Event = "completed"
	EventCompletedVisit     Event = "completed_visit"
	EventSubscriptionExport Event = "subscription_export"
)

var ErrDeliveryFailed = errors.New("webhook delivery failed")

// Client posts JSON payloads to the automation endpoint configured per event. Events
// without a URL are skipped.
type Client struct {
	urls       map[Event]string
	httpClient *http.Client
	metrics    *metrics.SchedulingMetrics
}

func NewClient(urls map[Event]string, timeout time.Duration, m *metrics.SchedulingMetrics) *Client {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Client{
		urls:       urls,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

func (c *Client) Post(ctx context.Context, event Event, payload any) error {
	url := c.urls[event]
	if url == "" {
		return nil
	}

	err := c.post(ctx, url, payload)
	c.metrics.ObserveWebhook(string(event), err == nil)
	return err
}

func (c *Client) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrDeliveryFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %d: %s", ErrDeliveryFailed, resp.StatusCode, string(b))
	}
	return nil
}
