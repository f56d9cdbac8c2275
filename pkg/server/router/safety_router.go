package router

import (
	"net/http"
	"time"

	handlers "github.com/bezhai/inner-bot-server-sub000/pkg/handlers/http"
	"github.com/bezhai/inner-bot-server-sub000/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
)

const (
	HealthPath = "/health"
	PingPath   = "/__/ping"
)

type safetyRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

func NewSafetyRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &safetyRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *safetyRouter) BuildRoutes(router *fiber.App) error {
	h := r.handlerTransport
	if h.PreCheckHandler == nil || h.PostCheckHandler == nil || h.GetResponseHandler == nil || h.GetVersionHandler == nil {
		return ErrInvalidHandlerTransport
	}

	router.Get(HealthPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.Get(PingPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{"message": "pong"})
	})

	// group middlewares also run in front of /api/v1/admin
	v1 := router.Group("/api/v1", r.middlewareTransport.Handlers()...)
	v1.Get("/version", h.GetVersionHandler.Handle)

	s := v1.Group("/safety")
	{
		s.Post("/pre-check", h.PreCheckHandler.Handle)
		s.Post("/post-check", h.PostCheckHandler.Handle)
		s.Get("/responses/:session_id", h.GetResponseHandler.Handle)
	}
	return nil
}
