package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"walkboard/board"
	"walkboard/utils"
)

// boardError maps store errors onto HTTP responses.
func boardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, board.ErrDogNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Dog not found", err)
	case errors.Is(err, board.ErrGroupNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Group not found", err)
	case errors.Is(err, board.ErrVolunteerNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Volunteer not found", err)
	case errors.Is(err, board.ErrDuplicateDog):
		return utils.ErrorResponse(c, fiber.StatusConflict, "Dog already exists", err)
	default:
		utils.LogError("board_operation", err, map[string]interface{}{"path": c.Path()})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Board operation failed", err)
	}
}

// parseBody decodes and validates a request body. On failure it returns the
// message for the 400 response.
func parseBody(c *fiber.Ctx, out interface{}) (string, error) {
	if err := c.BodyParser(out); err != nil {
		return "Invalid request body", err
	}
	if err := utils.ValidateStruct(out); err != nil {
		return "Validation failed", err
	}
	return "", nil
}

// nonNil keeps empty lists as [] in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
