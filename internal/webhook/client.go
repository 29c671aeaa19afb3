package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SubmissionError reports a failed webhook delivery. Delivery is best
// effort: callers surface this as a warning, never as a fatal failure.
type SubmissionError struct {
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhook submission failed: %v", e.Err)
	}
	return fmt.Sprintf("webhook submission failed: status %d", e.StatusCode)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Client posts submission payloads to a configured endpoint. One attempt
// per payload, no retry.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a webhook client with a bounded request timeout.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

// Submit serializes payload as JSON and POSTs it to endpoint. An empty
// endpoint is a no-op. Success is any 2xx status; everything else returns
// a SubmissionError.
//
// The request runs on its own context so that cancelling the session that
// issued it does not abort an in-flight delivery.
func (c *Client) Submit(endpoint string, payload any) error {
	if endpoint == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &SubmissionError{Err: fmt.Errorf("marshalling payload: %w", err)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &SubmissionError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &SubmissionError{StatusCode: resp.StatusCode}
	}
	return nil
}
