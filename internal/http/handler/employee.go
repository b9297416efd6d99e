package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"subcity/internal/model"
	"subcity/internal/repository"
)

// ListEmployees godoc
// @Summary  List employees
// @Tags     employees
// @Produce  json
// @Success  200 {array} model.Employee
// @Router   /api/employees [get]
func ListEmployees(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := store.ListEmployees(c.UserContext())
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(out)
	}
}

// GetEmployee godoc
// @Summary  Get an employee
// @Tags     employees
// @Produce  json
// @Param    id path int true "Employee ID"
// @Success  200 {object} model.Employee
// @Failure  404 {object} errorPayload
// @Router   /api/employees/{id} [get]
func GetEmployee(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		e, err := store.GetEmployee(c.UserContext(), id)
		if errors.Is(err, repository.ErrNotFound) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Employee not found")
		}
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(e)
	}
}

// CreateEmployee godoc
// @Summary  Create an employee
// @Tags     employees
// @Accept   json
// @Produce  json
// @Param    body body model.EmployeeInput true "Employee"
// @Success  201 {object} model.Employee
// @Failure  400 {object} errorPayload
// @Router   /api/employees [post]
func CreateEmployee(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.EmployeeInput
		if !bindJSON(c, &in) {
			return nil
		}
		e, err := store.CreateEmployee(c.UserContext(), in)
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.Status(fiber.StatusCreated).JSON(e)
	}
}

// UpdateEmployee godoc
// @Summary  Partially update an employee
// @Tags     employees
// @Accept   json
// @Produce  json
// @Param    id   path int                 true "Employee ID"
// @Param    body body model.EmployeePatch true "Fields to change"
// @Success  200 {object} model.Employee
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/employees/{id} [put]
func UpdateEmployee(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		var patch model.EmployeePatch
		if !bindJSON(c, &patch) {
			return nil
		}
		e, err := store.UpdateEmployee(c.UserContext(), id, patch)
		if errors.Is(err, repository.ErrNotFound) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Employee not found")
		}
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(e)
	}
}

// DeleteEmployee godoc
// @Summary  Delete an employee
// @Tags     employees
// @Param    id path int true "Employee ID"
// @Success  204
// @Failure  404 {object} errorPayload
// @Router   /api/employees/{id} [delete]
func DeleteEmployee(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		deleted, err := store.DeleteEmployee(c.UserContext(), id)
		if err != nil {
			return internalError(c, logger, err)
		}
		if !deleted {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Employee not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListDepartments godoc
// @Summary  Distinct employee departments
// @Tags     employees
// @Produce  json
// @Success  200 {array} string
// @Router   /api/departments [get]
func ListDepartments(store repository.Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := store.ListDepartments(c.UserContext())
		if err != nil {
			return internalError(c, logger, err)
		}
		return c.JSON(out)
	}
}
