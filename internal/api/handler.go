package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type Handler struct {
	logger *zap.Logger
	db     Pinger
}

func NewHandler(logger *zap.Logger, db Pinger) *Handler {
	return &Handler{logger: logger, db: db}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{Status: "DOWN", Database: "DOWN"})
	}

	return c.JSON(HealthResponse{Status: "UP", Database: "UP"})
}
