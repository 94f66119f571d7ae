package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"walkboard/board"
	"walkboard/models"
	"walkboard/utils"
)

type DogController struct {
	Store  *board.Store
	Logger *logrus.Entry
}

func NewDogController(store *board.Store, logger *logrus.Entry) *DogController {
	return &DogController{Store: store, Logger: logger}
}

// ListDogs returns every dog of a team, hidden ones included.
func (dc *DogController) ListDogs(c *fiber.Ctx) error {
	state := dc.Store.Snapshot()
	team := c.Query("team", state.Settings.CurrentTeamID)
	dogs := []models.Dog{}
	for _, d := range state.Dogs {
		if d.TeamID == team {
			dogs = append(dogs, d)
		}
	}
	return c.JSON(utils.SuccessResponse(dogs))
}

func (dc *DogController) GetDog(c *fiber.Ctx) error {
	state := dc.Store.Snapshot()
	dog, ok := state.Dog(c.Params("id"))
	if !ok {
		return boardError(c, board.ErrDogNotFound)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"dog":     dog,
		"friends": nonNil(board.AvailableFriendsOf(state, dog)),
	}))
}

func (dc *DogController) AddDog(c *fiber.Ctx) error {
	var input models.Dog
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if input.Health == "" {
		input.Health = models.HealthOK
	}
	if input.Complexity == "" {
		input.Complexity = models.ComplexityGreen
	}
	// placement and walk counters are owned by the board
	input.GroupID = nil
	input.WalksToday = 0
	input.LastWalkTime = ""
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	dog, err := dc.Store.AddDog(input)
	if err != nil {
		return boardError(c, err)
	}
	dc.Logger.WithFields(logrus.Fields{"dog_id": dog.ID, "name": dog.Name}).Info("Dog added")
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(dog))
}

func (dc *DogController) UpdateDog(c *fiber.Ctx) error {
	var patch models.DogPatch
	if msg, err := parseBody(c, &patch); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	dog, err := dc.Store.UpdateDog(c.Params("id"), patch)
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(utils.SuccessResponse(dog))
}

func (dc *DogController) ToggleVisibility(c *fiber.Ctx) error {
	dog, err := dc.Store.ToggleDogVisibility(c.Params("id"))
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(utils.SuccessResponse(dog))
}

// ResetWalks clears the day. It is destructive, so ?confirm=true is required.
func (dc *DogController) ResetWalks(c *fiber.Ctx) error {
	if !c.QueryBool("confirm") {
		return utils.ErrorResponse(c, fiber.StatusPreconditionRequired, "Resetting walks needs confirmation", nil)
	}
	dc.Store.ResetWalks()
	dc.Logger.Warn("Daily walks reset")
	return c.SendStatus(fiber.StatusNoContent)
}
