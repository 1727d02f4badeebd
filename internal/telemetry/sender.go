package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/serverless/compose/pkg/logging"
)

// UserAgent identifies transmissions.
const UserAgent = "serverless-compose-telemetry/1.0"

// Sender transmits stored payloads.
type Sender struct {
	store      *Store
	url        string
	httpClient *http.Client
}

// NewSender returns a sender posting the payloads of store to url. An empty
// url makes Send a no-op.
func NewSender(store *Store, url string) *Sender {
	return &Sender{
		store:      store,
		url:        url,
		httpClient: cleanhttp.DefaultClient(),
	}
}

// Send posts every pending payload as one JSON array and removes them once
// the endpoint accepted them.
func (s *Sender) Send(ctx context.Context) error {
	if s.url == "" {
		return nil
	}

	entries, err := s.store.Pending()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	batch := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		batch[i] = e.Data
	}
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode telemetry batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create telemetry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telemetry request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("telemetry request failed with status %d", resp.StatusCode)
	}

	s.store.Remove(entries)
	logging.Debug("Telemetry", "Sent %d payloads", len(entries))
	return nil
}
