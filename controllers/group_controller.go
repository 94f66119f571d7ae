package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"walkboard/board"
	"walkboard/middleware"
	"walkboard/utils"
)

type GroupController struct {
	Store  *board.Store
	Logger *logrus.Entry
}

func NewGroupController(store *board.Store, logger *logrus.Entry) *GroupController {
	return &GroupController{Store: store, Logger: logger}
}

// CreateGroup opens a forming group for the calling volunteer.
func (gc *GroupController) CreateGroup(c *fiber.Ctx) error {
	v := middleware.CurrentVolunteer(c)
	g := gc.Store.CreateGroup(v.Name, v.ID)
	gc.Logger.WithFields(logrus.Fields{"group_id": g.ID, "volunteer_id": v.ID}).Info("Group created")
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(g))
}

func (gc *GroupController) SetVolunteer(c *fiber.Ctx) error {
	var input struct {
		VolunteerID string `json:"volunteerId" validate:"required"`
	}
	if msg, err := parseBody(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	if err := gc.Store.UpdateGroupVolunteer(c.Params("id"), input.VolunteerID); err != nil {
		return boardError(c, err)
	}
	g, _ := gc.Store.Snapshot().Group(c.Params("id"))
	return c.JSON(utils.SuccessResponse(g))
}

// StartEditing marks the group as open in an editor so the sweeper leaves it alone.
func (gc *GroupController) StartEditing(c *fiber.Ctx) error {
	if err := gc.Store.SetEditingGroup(c.Params("id")); err != nil {
		return boardError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GroupController) StopEditing(c *fiber.Ctx) error {
	if gc.Store.EditingGroup() == c.Params("id") {
		_ = gc.Store.SetEditingGroup("")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GroupController) Validate(c *fiber.Ctx) error {
	issues, err := gc.Store.ValidateGroup(c.Params("id"))
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"issues": nonNil(issues)}))
}

// StartWalk starts the walk. Any validation issue needs ?confirm=true; the
// issues come back with a 409 otherwise.
func (gc *GroupController) StartWalk(c *fiber.Ctx) error {
	id := c.Params("id")
	confirmed := c.QueryBool("confirm")
	g, issues, err := gc.Store.StartWalkChecked(id, confirmed)
	if err != nil {
		return boardError(c, err)
	}
	if len(issues) > 0 && !confirmed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":               false,
			"error":                 "Group has issues, confirm to start anyway",
			"issues":                issues,
			"confirmation_required": true,
		})
	}
	if len(issues) > 0 {
		gc.Logger.WithFields(logrus.Fields{"group_id": id, "issues": len(issues)}).Info("Walk started despite issues")
	}
	return c.JSON(utils.SuccessResponse(g))
}

func (gc *GroupController) FinishWalk(c *fiber.Ctx) error {
	dogIDs, err := gc.Store.FinishWalk(c.Params("id"))
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"dogIds": dogIDs}))
}

func (gc *GroupController) DeleteGroup(c *fiber.Ctx) error {
	if err := gc.Store.DeleteGroup(c.Params("id")); err != nil {
		return boardError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Drop handles a dog dropped on a group or back on the pool.
func (gc *GroupController) Drop(c *fiber.Ctx) error {
	var input struct {
		DogID           string  `json:"dogId" validate:"required"`
		GroupID         *string `json:"groupId"`
		IncludePartners bool    `json:"includePartners"`
	}
	if msg, err := parseBody(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	result, err := gc.Store.Drop(input.DogID, input.GroupID, input.IncludePartners)
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(utils.SuccessResponse(result))
}

// MoveDogs assigns a batch of dogs to a group, or to the pool with a null groupId.
func (gc *GroupController) MoveDogs(c *fiber.Ctx) error {
	var input struct {
		DogIDs  []string `json:"dogIds" validate:"required,min=1"`
		GroupID *string  `json:"groupId"`
	}
	if msg, err := parseBody(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	if err := gc.Store.MoveDogs(input.DogIDs, input.GroupID); err != nil {
		return boardError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
