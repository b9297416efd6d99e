package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"subcity/internal/http/middleware"
	"subcity/internal/model"
	"subcity/internal/repository"
)

// ListPopulation godoc
// @Summary  List population records
// @Tags     population
// @Produce  json
// @Success  200 {array} model.PopulationRecord
// @Router   /api/population [get]
func ListPopulation(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := store.ListPopulationRecords(c.UserContext())
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(out)
	}
}

// CreatePopulation godoc
// @Summary  Add a population record
// @Description totalPopulation is stored as supplied; inconsistent breakdowns are logged, not rejected.
// @Tags     population
// @Accept   json
// @Produce  json
// @Param    body body model.PopulationInput true "Record"
// @Success  201 {object} model.PopulationRecord
// @Failure  400 {object} errorPayload
// @Router   /api/population [post]
func CreatePopulation(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.PopulationInput
		if !bindJSON(c, &in) {
			return nil
		}
		if issues := in.Discrepancies(); len(issues) > 0 {
			logger.Warn("population_total_mismatch",
				zap.String("request_id", middleware.RequestIDFrom(c)),
				zap.String("kebele", in.Kebele),
				zap.Strings("issues", issues))
		}
		r, err := store.CreatePopulationRecord(c.UserContext(), in)
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

// ListKebeles godoc
// @Summary  Distinct kebeles with population records
// @Tags     population
// @Produce  json
// @Success  200 {array} string
// @Router   /api/kebeles [get]
func ListKebeles(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := store.ListKebeles(c.UserContext())
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(out)
	}
}
