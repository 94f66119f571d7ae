package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"walkboard/middleware"
	"walkboard/storage"
	"walkboard/utils"
)

type HistoryController struct {
	History     *storage.History
	Preferences *storage.Preferences
}

func NewHistoryController(history *storage.History, prefs *storage.Preferences) *HistoryController {
	return &HistoryController{History: history, Preferences: prefs}
}

// ListWalks returns finished walks of a team, newest first.
func (hc *HistoryController) ListWalks(c *fiber.Ctx) error {
	records, err := hc.History.List(c.Query("team"), utils.QueryInt(c, "limit", 50))
	if errors.Is(err, storage.ErrNoDatabase) {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Walk history is not enabled", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load history", err)
	}
	return c.JSON(utils.SuccessResponse(records))
}

func (hc *HistoryController) DogWalks(c *fiber.Ctx) error {
	records, err := hc.History.ForDog(c.Params("id"), utils.QueryInt(c, "limit", 50))
	if errors.Is(err, storage.ErrNoDatabase) {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Walk history is not enabled", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load history", err)
	}
	return c.JSON(utils.SuccessResponse(records))
}

func (hc *HistoryController) GetTheme(c *fiber.Ctx) error {
	theme, err := hc.Preferences.Theme(middleware.CurrentVolunteer(c).ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load preferences", err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"theme": theme}))
}

func (hc *HistoryController) SetTheme(c *fiber.Ctx) error {
	var input struct {
		Theme string `json:"theme" validate:"required,oneof=dark light"`
	}
	if msg, err := parseBody(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	if err := hc.Preferences.SetTheme(middleware.CurrentVolunteer(c).ID, input.Theme); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save preferences", err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"theme": input.Theme}))
}

func (hc *HistoryController) ToggleTheme(c *fiber.Ctx) error {
	theme, err := hc.Preferences.ToggleTheme(middleware.CurrentVolunteer(c).ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save preferences", err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"theme": theme}))
}
