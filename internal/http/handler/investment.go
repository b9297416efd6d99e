package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"subcity/internal/model"
	"subcity/internal/repository"
)

// ListInvestments godoc
// @Summary  List investments, newest first
// @Tags     investments
// @Produce  json
// @Success  200 {array} model.Investment
// @Router   /api/investments [get]
func ListInvestments(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := store.ListInvestments(c.UserContext())
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(out)
	}
}

// GetInvestment godoc
// @Summary  Get an investment
// @Tags     investments
// @Produce  json
// @Param    id path int true "Investment ID"
// @Success  200 {object} model.Investment
// @Failure  404 {object} errorPayload
// @Router   /api/investments/{id} [get]
func GetInvestment(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		inv, err := store.GetInvestment(c.UserContext(), id)
		if errors.Is(err, repository.ErrNotFound) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Investment not found")
		}
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(inv)
	}
}

// CreateInvestment godoc
// @Summary  Record an investment
// @Tags     investments
// @Accept   json
// @Produce  json
// @Param    body body model.InvestmentInput true "Investment"
// @Success  201 {object} model.Investment
// @Failure  400 {object} errorPayload
// @Router   /api/investments [post]
func CreateInvestment(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.InvestmentInput
		if !bindJSON(c, &in) {
			return nil
		}
		inv, err := store.CreateInvestment(c.UserContext(), in)
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(inv)
	}
}

// UpdateInvestment godoc
// @Summary  Partially update an investment
// @Tags     investments
// @Accept   json
// @Produce  json
// @Param    id   path int                   true "Investment ID"
// @Param    body body model.InvestmentPatch true "Fields to change"
// @Success  200 {object} model.Investment
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/investments/{id} [put]
func UpdateInvestment(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		var patch model.InvestmentPatch
		if !bindJSON(c, &patch) {
			return nil
		}
		inv, err := store.UpdateInvestment(c.UserContext(), id, patch)
		if errors.Is(err, repository.ErrNotFound) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Investment not found")
		}
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(inv)
	}
}

// DeleteInvestment godoc
// @Summary  Delete an investment
// @Tags     investments
// @Param    id path int true "Investment ID"
// @Success  204
// @Failure  404 {object} errorPayload
// @Router   /api/investments/{id} [delete]
func DeleteInvestment(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		deleted, err := store.DeleteInvestment(c.UserContext(), id)
		if err != nil {
			return internalError(c, logger, err)
		}
		if !deleted {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Investment not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListSectors godoc
// @Summary  Distinct investment sectors
// @Tags     investments
// @Produce  json
// @Success  200 {array} string
// @Router   /api/sectors [get]
func ListSectors(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := store.ListSectors(c.UserContext())
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(out)
	}
}
