package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"subcity/internal/repository"
	"subcity/internal/service"
)

// maxRecentActivities caps the limit query parameter.
const maxRecentActivities = 100

// AdminStats godoc
// @Summary  Dashboard counters
// @Tags     admin
// @Produce  json
// @Success  200 {object} model.Stats
// @Router   /api/admin/stats [get]
func AdminStats(statsSvc service.StatsService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := statsSvc.Stats(c.UserContext())
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(stats)
	}
}

// RecentActivities godoc
// @Summary  Recent activity log entries, newest first
// @Tags     admin
// @Produce  json
// @Param    limit query int false "Maximum entries (default 10)"
// @Success  200 {array} model.Activity
// @Failure  400 {object} errorPayload
// @Router   /api/admin/recent-activities [get]
func RecentActivities(statsSvc service.StatsService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := repository.DefaultRecentActivities
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
			}
			limit = n
		}
		if limit > maxRecentActivities {
			limit = maxRecentActivities
		}
		out, err := statsSvc.RecentActivities(c.UserContext(), limit)
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(out)
	}
}
