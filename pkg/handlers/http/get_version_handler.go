package http

import (
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/version"
	"github.com/gofiber/fiber/v2"
)

type versionOutput struct {
	version.Info
	Uptime string `json:"uptime"`
}

type getVersionHandler struct {
	started time.Time
}

func NewGetVersionHandler() Handler {
	return &getVersionHandler{started: time.Now()}
}

func (h *getVersionHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(versionOutput{
		Info:   version.GetInfo(),
		Uptime: time.Since(h.started).Truncate(time.Second).String(),
	})
}
