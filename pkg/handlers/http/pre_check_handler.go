package http

import (
	"context"

	"github.com/bezhai/inner-bot-server-sub000/pkg/common"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/handlers/http/request"
	"github.com/bezhai/inner-bot-server-sub000/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Admitter --dir=. --output=./mocks --filename=admitter_mock.go --case=underscore --with-expecter
type Admitter interface {
	Admit(ctx context.Context, text string) (*safety.PreSafetyState, error)
}

type preCheckHandler struct {
	logger   *logrus.Logger
	admitter Admitter
	refusal  string
}

func NewPreCheckHandler(logger *logrus.Logger, admitter Admitter, refusal string) Handler {
	if refusal == "" {
		refusal = common.DefaultRefusalMessage
	}
	return &preCheckHandler{
		logger:   logger,
		admitter: admitter,
		refusal:  refusal,
	}
}

func (h *preCheckHandler) Handle(c *fiber.Ctx) error {
	var req request.PreCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	state, err := h.admitter.Admit(c.Context(), req.Message)
	if err != nil {
		if cf, ok := safety.AsContentFiltered(err); ok {
			return c.Status(fiber.StatusOK).JSON(response.Refused(cf.Reason(), h.refusal))
		}
		h.logger.WithError(err).Error("pre-safety check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "safety check unavailable"})
	}
	return c.Status(fiber.StatusOK).JSON(response.Admitted(state))
}
