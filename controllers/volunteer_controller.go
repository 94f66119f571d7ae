package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"walkboard/board"
	"walkboard/models"
	"walkboard/utils"
)

type VolunteerController struct {
	Store  *board.Store
	Logger *logrus.Entry
}

func NewVolunteerController(store *board.Store, logger *logrus.Entry) *VolunteerController {
	return &VolunteerController{Store: store, Logger: logger}
}

func (vc *VolunteerController) ListVolunteers(c *fiber.Ctx) error {
	return c.JSON(utils.SuccessResponse(nonNil(vc.Store.Snapshot().Volunteers)))
}

func (vc *VolunteerController) AddVolunteer(c *fiber.Ctx) error {
	var input models.Volunteer
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if input.Role == "" {
		input.Role = models.RoleVolunteer
	}
	if input.Status == "" {
		input.Status = models.VolunteerActive
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	v := vc.Store.AddVolunteer(input)
	vc.Logger.WithFields(logrus.Fields{"volunteer_id": v.ID, "name": v.Name}).Info("Volunteer added")
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(v))
}

func (vc *VolunteerController) UpdateVolunteer(c *fiber.Ctx) error {
	var patch models.VolunteerPatch
	if msg, err := parseBody(c, &patch); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	v, err := vc.Store.UpdateVolunteer(c.Params("id"), patch)
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(utils.SuccessResponse(v))
}

func (vc *VolunteerController) DeactivateVolunteer(c *fiber.Ctx) error {
	v, err := vc.Store.DeactivateVolunteer(c.Params("id"))
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(utils.SuccessResponse(v))
}
