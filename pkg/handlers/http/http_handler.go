package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Safety
	PreCheckHandler    Handler
	PostCheckHandler   Handler
	GetResponseHandler Handler

	// Admin
	DLQStatsHandler  Handler
	DLQReplayHandler Handler

	GetVersionHandler Handler
}
