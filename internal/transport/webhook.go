// Package transport implements domain.MessageTransport: a webhook client for
// production and a logging transport for development.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pkordes/mealmate/internal/domain"
)

// doer is satisfied by *http.Client; tests pass a fake.
type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time interface check.
var _ domain.MessageTransport = (*Webhook)(nil)

// Webhook posts each segment as one JSON request to a messaging gateway:
//
//	{"to": "<destination>", "text": "<segment>", "part": 1, "parts": 3}
//
// Segments are sent in order; a failed segment is retried with exponential
// backoff and the remaining segments are not sent if it ultimately fails.
type Webhook struct {
	url          string
	httpClient   doer
	segmentLimit int

	initialInterval time.Duration
	maxElapsed      time.Duration
}

// NewWebhook returns a Webhook posting to url with the given segment limit.
func NewWebhook(url string, httpClient doer, segmentLimit int) *Webhook {
	return &Webhook{
		url:          url,
		httpClient:   httpClient,
		segmentLimit: segmentLimit,

		initialInterval: backoff.DefaultInitialInterval,
		maxElapsed:      30 * time.Second,
	}
}

// SegmentLimit reports the longest segment the gateway accepts.
func (w *Webhook) SegmentLimit() int {
	return w.segmentLimit
}

type webhookPayload struct {
	To    string `json:"to"`
	Text  string `json:"text"`
	Part  int    `json:"part"`
	Parts int    `json:"parts"`
}

// Send posts segments to destination in order.
func (w *Webhook) Send(ctx context.Context, destination string, segments []string) error {
	for i, seg := range segments {
		payload, err := json.Marshal(webhookPayload{To: destination, Text: seg, Part: i + 1, Parts: len(segments)})
		if err != nil {
			return fmt.Errorf("transport.Webhook.Send: %w", err)
		}
		if err := w.postWithRetry(ctx, payload); err != nil {
			return fmt.Errorf("transport.Webhook.Send: segment %d/%d: %w", i+1, len(segments), err)
		}
	}
	return nil
}

func (w *Webhook) postWithRetry(ctx context.Context, payload []byte) error {
	// BackOff implementations are stateful; build a fresh one per segment.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = w.initialInterval
	bo.MaxElapsedTime = w.maxElapsed

	return backoff.Retry(func() error {
		err := w.post(ctx, payload)
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(bo, ctx))
}

// statusError is returned for non-2xx gateway responses.
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return "failed to post message: " + e.status
}

// isRetryable treats transport failures, 429 and 5xx responses as transient.
func isRetryable(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return true
	}
	return se.code == http.StatusTooManyRequests || se.code >= 500
}

func (w *Webhook) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{code: resp.StatusCode, status: resp.Status}
	}
	return nil
}
