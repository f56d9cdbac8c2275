package router

import (
	"errors"

	handlers "github.com/bezhai/inner-bot-server-sub000/pkg/handlers/http"
	"github.com/bezhai/inner-bot-server-sub000/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidHandlerTransport = errors.New("invalid handler transport")
	ErrUnprotectedAdminRoutes  = errors.New("admin routes need at least one middleware")
)

type adminRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

// NewAdminRouter mounts the dead letter endpoints. Every route runs behind
// the transport's middlewares, which must include admin auth.
func NewAdminRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &adminRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *adminRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport.DLQStatsHandler == nil || r.handlerTransport.DLQReplayHandler == nil {
		return ErrInvalidHandlerTransport
	}

	if r.middlewareTransport.Len() == 0 {
		return ErrUnprotectedAdminRoutes
	}

	admin := router.Group("/api/v1/admin", r.middlewareTransport.Handlers()...)
	{
		admin.Get("/dlq", r.handlerTransport.DLQStatsHandler.Handle)
		admin.Post("/dlq/replay", r.handlerTransport.DLQReplayHandler.Handle)
	}
	return nil
}
