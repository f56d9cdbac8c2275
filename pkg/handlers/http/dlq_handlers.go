package http

import (
	"context"

	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/broker"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	defaultReplayLimit = 100
	maxReplayLimit     = 1000
)

type DepthReader interface {
	Depths(ctx context.Context) ([]broker.QueueDepth, error)
}

type DLQReplayer interface {
	Replay(ctx context.Context, limit int) (broker.ReplayResult, error)
}

type dlqStatsHandler struct {
	logger *logrus.Logger
	reader DepthReader
}

func NewDLQStatsHandler(logger *logrus.Logger, reader DepthReader) Handler {
	return &dlqStatsHandler{logger: logger, reader: reader}
}

func (h *dlqStatsHandler) Handle(c *fiber.Ctx) error {
	depths, err := h.reader.Depths(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to read queue depths")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "broker unavailable"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"queues": depths})
}

type dlqReplayHandler struct {
	logger   *logrus.Logger
	replayer DLQReplayer
}

func NewDLQReplayHandler(logger *logrus.Logger, replayer DLQReplayer) Handler {
	return &dlqReplayHandler{logger: logger, replayer: replayer}
}

func (h *dlqReplayHandler) Handle(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultReplayLimit)
	if limit <= 0 || limit > maxReplayLimit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be between 1 and 1000"})
	}

	result, err := h.replayer.Replay(c.Context(), limit)
	if err != nil {
		h.logger.WithError(err).WithField("replayed", result.Replayed).Error("dead letter replay failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":    "replay interrupted",
			"replayed": result.Replayed,
		})
	}
	h.logger.WithFields(logrus.Fields{
		"replayed": result.Replayed,
		"skipped":  result.Skipped,
	}).Info("dead letters replayed")
	return c.Status(fiber.StatusOK).JSON(result)
}
