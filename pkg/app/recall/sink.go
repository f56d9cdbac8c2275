package recall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/broker"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/httpx"
)

var ErrSinkUnavailable = errors.New("recall sink unavailable")

// Sink retracts a reply that was already delivered to the chat.
//
//go:generate mockery --name=Sink --dir=. --output=./mocks --filename=sink_mock.go --case=underscore --with-expecter
type Sink interface {
	Recall(ctx context.Context, cmd safety.RecallCommand) error
}

type WebhookSink struct {
	url       string
	authToken string
	client    httpx.Client
	breaker   httpx.CircuitBreaker
}

func NewWebhookSink(url, authToken string, client httpx.Client, breaker httpx.CircuitBreaker) *WebhookSink {
	return &WebhookSink{url: url, authToken: authToken, client: client, breaker: breaker}
}

// Recall posts cmd to the webhook. A 404 means the message is already gone
// and counts as success; other 4xx answers are not retried.
func (s *WebhookSink) Recall(ctx context.Context, cmd safety.RecallCommand) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal recall command: %w", err)
	}
	call := func() error { return s.post(ctx, body) }
	if s.breaker == nil {
		return call()
	}
	var permanent error
	err = s.breaker.Execute(func() error {
		err := call()
		if errors.Is(err, broker.ErrUnprocessable) {
			// the endpoint is healthy, the request is not
			permanent = err
			return nil
		}
		return err
	})
	if permanent != nil {
		return permanent
	}
	return err
}

func (s *WebhookSink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build recall request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300, resp.StatusCode == http.StatusNotFound:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return fmt.Errorf("%w: recall rejected with status %d: %s", broker.ErrUnprocessable, resp.StatusCode, respBody)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrSinkUnavailable, resp.StatusCode, respBody)
	}
}

// UnconfiguredSink stands in when no webhook is set. Every recall fails so
// the commands end up in the dead letter queue for a later replay.
type UnconfiguredSink struct{}

func (UnconfiguredSink) Recall(context.Context, safety.RecallCommand) error {
	return fmt.Errorf("%w: no recall webhook configured", ErrSinkUnavailable)
}
