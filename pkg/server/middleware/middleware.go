package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

// Transport is an ordered middleware chain for one route group.
type Transport struct {
	middlewares []Middleware
}

func NewTransport(middlewares ...Middleware) *Transport {
	return &Transport{middlewares: middlewares}
}

// Handlers returns the chain in registration order. A nil Transport has none.
func (t *Transport) Handlers() []fiber.Handler {
	if t == nil {
		return nil
	}
	handlers := make([]fiber.Handler, 0, len(t.middlewares))
	for _, m := range t.middlewares {
		handlers = append(handlers, m.Middleware())
	}
	return handlers
}

func (t *Transport) Len() int {
	if t == nil {
		return 0
	}
	return len(t.middlewares)
}
