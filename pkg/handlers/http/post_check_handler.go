package http

import (
	"errors"

	"github.com/bezhai/inner-bot-server-sub000/pkg/app/postsafety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type postCheckHandler struct {
	logger    *logrus.Logger
	scheduler postsafety.JobScheduler
}

func NewPostCheckHandler(logger *logrus.Logger, scheduler postsafety.JobScheduler) Handler {
	return &postCheckHandler{
		logger:    logger,
		scheduler: scheduler,
	}
}

func (h *postCheckHandler) Handle(c *fiber.Ctx) error {
	var req request.PostCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	job := req.Job()
	if err := h.scheduler.Schedule(c.Context(), job); err != nil {
		if errors.Is(err, safety.ErrInvalidJob) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		h.logger.WithError(err).WithField("session_id", job.SessionID).Error("failed to schedule post-safety check")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "failed to schedule safety check"})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"session_id": job.SessionID,
		"status":     "scheduled",
	})
}
