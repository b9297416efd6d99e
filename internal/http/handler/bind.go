package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON decodes and validates the body into dst. It reports false after writing a 400.
func bindJSON(c *fiber.Ctx, dst any) bool {
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		return false
	}
	return validStruct(c, dst)
}

func validStruct(c *fiber.Ctx, v any) bool {
	if err := validate.Struct(v); err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return "invalid input"
	}
	parts := make([]string, 0, len(ves))
	for _, fe := range ves {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// parseID reads the positive integer :id route parameter. It reports false after writing a 400.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		return 0, false
	}
	return id, true
}
