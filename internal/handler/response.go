package handler

import (
	"errors"
	"strconv"

	"go-asset-ledger/internal/repository"
	"go-asset-ledger/internal/service"
	"go-asset-ledger/pkg/jwt"
	"go-asset-ledger/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// fail maps domain errors onto HTTP status codes.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, validator.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrWrongPassword):
		status = fiber.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateKey):
		status = fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionReplaced),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken):
		status = fiber.StatusUnauthorized
	}
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}

// actorID returns the authenticated user's id for audit entries.
func actorID(c *fiber.Ctx) *uint {
	id, ok := c.Locals("user_id").(uint)
	if !ok {
		return nil
	}
	return &id
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, &validator.ValidationError{ErrorResponse: validator.ErrorResponse{FailedField: name, Tag: "numeric"}}
	}
	return uint(v), nil
}

func queryID(c *fiber.Ctx, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}
