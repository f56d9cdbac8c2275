package providers

import (
	"context"

	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/httpx"
)

type breakerClient struct {
	next    Client
	breaker httpx.CircuitBreaker
}

// NewBreakerClient stops calling next while the breaker is open.
func NewBreakerClient(next Client, breaker httpx.CircuitBreaker) Client {
	return &breakerClient{next: next, breaker: breaker}
}

func (b *breakerClient) Complete(ctx context.Context, req *Request) (string, error) {
	var out string
	err := b.breaker.Execute(func() error {
		text, err := b.next.Complete(ctx, req)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	return out, err
}
