package http

import (
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain"
	domainResponse "github.com/bezhai/inner-bot-server-sub000/pkg/domain/response"
	"github.com/bezhai/inner-bot-server-sub000/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getResponseHandler struct {
	logger *logrus.Logger
	repo   domainResponse.Repository
}

func NewGetResponseHandler(logger *logrus.Logger, repo domainResponse.Repository) Handler {
	return &getResponseHandler{
		logger: logger,
		repo:   repo,
	}
}

func (h *getResponseHandler) Handle(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is required"})
	}

	rec, err := h.repo.GetBySessionID(c.Context(), sessionID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "agent response not found"})
		}
		h.logger.WithError(err).WithField("session_id", sessionID).Error("failed to load agent response")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load agent response"})
	}
	return c.Status(fiber.StatusOK).JSON(response.NewSafetyStatusOutput(rec))
}
