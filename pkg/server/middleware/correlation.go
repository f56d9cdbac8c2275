package middleware

import (
	"context"

	"github.com/bezhai/inner-bot-server-sub000/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type correlationMiddleware struct{}

// NewCorrelationMiddleware tags every request with a correlation id, taken
// from X-Correlation-Id or X-Session-Id when the caller sends one.
func NewCorrelationMiddleware() Middleware {
	return &correlationMiddleware{}
}

func (m *correlationMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := ctx.Get(common.CorrelationIDHeader)
		if id == "" {
			id = ctx.Get(common.SessionIDHeader)
		}
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Locals(common.CorrelationIDKey, id)
		ctx.SetUserContext(context.WithValue(ctx.UserContext(), common.CorrelationIDKey, id))
		ctx.Set(common.CorrelationIDHeader, id)
		return ctx.Next()
	}
}
