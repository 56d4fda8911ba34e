package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"crewclock.service/internal/core/model"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client contract for the payroll system that receives confirmed clock entries.
type Client interface {
	RecordClockEntry(ctx context.Context, entry model.ClockEvent) error
}

// Entry is the payload the payroll API expects.
type Entry struct {
	EntryID string    `json:"entryId"`
	Worker  string    `json:"worker"`
	Project string    `json:"project"`
	Type    string    `json:"type"`
	Time    time.Time `json:"time"`
}

// HTTPClient posts clock entries to the payroll API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
	}
}

// RecordClockEntry sends a confirmed clock entry to the payroll API.
func (c *HTTPClient) RecordClockEntry(ctx context.Context, entry model.ClockEvent) error {
	payload, err := json.Marshal(Entry{
		EntryID: entry.ID,
		Worker:  entry.Worker,
		Project: entry.Project,
		Type:    string(entry.Type),
		Time:    entry.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payroll payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create payroll request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", entry.ID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call payroll api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("payroll api returned non-successful status code: %d", resp.StatusCode)
	}

	log.Ctx(ctx).Info().Str("entry_id", entry.ID).Str("worker", entry.Worker).Msg("Recorded clock entry in payroll system")
	return nil
}
