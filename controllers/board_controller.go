package controller

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"walkboard/board"
	"walkboard/middleware"
	"walkboard/models"
	"walkboard/utils"
)

// Poller is the background sync loop as seen from the API.
type Poller interface {
	Pause(session string)
	Resume(session string)
	Paused() bool
	Refresh(ctx context.Context) error
}

type BoardController struct {
	Store  *board.Store
	Poller Poller
	Logger *logrus.Entry
}

func NewBoardController(store *board.Store, poller Poller, logger *logrus.Entry) *BoardController {
	return &BoardController{
		Store:  store,
		Poller: poller,
		Logger: logger,
	}
}

// GetBoard returns the whole board plus the sync banner state.
func (bc *BoardController) GetBoard(c *fiber.Ctx) error {
	state := bc.Store.Snapshot()
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"board":     state,
		"syncError": bc.Store.SyncError(),
		"paused":    bc.Poller != nil && bc.Poller.Paused(),
	}))
}

// GetPool returns the sidebar: unassigned dogs of the current team, filtered
// and sorted, with the ids that conflict with every forming group.
func (bc *BoardController) GetPool(c *fiber.Ctx) error {
	filter := board.PoolFilter(c.Query("filter", string(board.PoolAll)))
	if filter != board.PoolAll && filter != board.PoolAvailable {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown filter", nil)
	}
	order := board.SortOrder(c.Query("sort", string(board.SortByID)))
	if order != board.SortByID && order != board.SortByName && order != board.SortByRow {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown sort order", nil)
	}

	state := bc.Store.Snapshot()
	team := c.Query("team", state.Settings.CurrentTeamID)
	dogs := board.PoolDogs(state, team, filter, order)
	if dogs == nil {
		dogs = []models.Dog{}
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"dogs":       dogs,
		"conflicted": board.ConflictedPoolDogs(state, team, dogs),
	}))
}

func (bc *BoardController) GetSettings(c *fiber.Ctx) error {
	state := bc.Store.Snapshot()
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"settings": state.Settings,
		"teams":    state.Teams,
	}))
}

func (bc *BoardController) SetWalkDuration(c *fiber.Ctx) error {
	var input struct {
		Minutes int `json:"minutes" validate:"required,gte=5,lte=600"`
	}
	if msg, err := parseBody(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	bc.Store.SetWalkDuration(input.Minutes)
	return c.JSON(utils.SuccessResponse(bc.Store.Settings()))
}

func (bc *BoardController) SetAutoAddFriends(c *fiber.Ctx) error {
	var input struct {
		Enabled bool `json:"enabled"`
	}
	if msg, err := parseBody(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	bc.Store.SetAutoAddFriends(input.Enabled)
	return c.JSON(utils.SuccessResponse(bc.Store.Settings()))
}

func (bc *BoardController) SetTeam(c *fiber.Ctx) error {
	var input struct {
		TeamID string `json:"teamId" validate:"required"`
	}
	if msg, err := parseBody(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	known := false
	for _, t := range bc.Store.Snapshot().Teams {
		if t.ID == input.TeamID {
			known = true
			break
		}
	}
	if !known {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	}
	bc.Store.SetTeam(input.TeamID)
	return c.JSON(utils.SuccessResponse(bc.Store.Settings()))
}

// PauseSync suspends background polling while the client has an editor open
// or a drag in progress. The pause belongs to the caller's session and lapses
// unless renewed.
func (bc *BoardController) PauseSync(c *fiber.Ctx) error {
	paused := false
	if bc.Poller != nil {
		bc.Poller.Pause(sessionID(c))
		paused = bc.Poller.Paused()
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"paused": paused}))
}

// ResumeSync releases the caller's own pause only.
func (bc *BoardController) ResumeSync(c *fiber.Ctx) error {
	paused := false
	if bc.Poller != nil {
		bc.Poller.Resume(sessionID(c))
		paused = bc.Poller.Paused()
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"paused": paused}))
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals("sessionID").(string)
	return id
}

// RefreshSync forces a full pull, the manual retry behind the error banner.
func (bc *BoardController) RefreshSync(c *fiber.Ctx) error {
	if bc.Poller == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Remote sync is not configured", nil)
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), 30*time.Second)
	defer cancel()
	if err := bc.Poller.Refresh(ctx); err != nil {
		bc.Logger.WithError(err).Warn("Manual refresh failed")
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Failed to load the board", err)
	}
	return c.JSON(utils.SuccessResponse(fiber.Map{"version": bc.Store.Version()}))
}

// LogAction forwards a line to the remote journal.
func (bc *BoardController) LogAction(c *fiber.Ctx) error {
	var input struct {
		Message string      `json:"message" validate:"required,max=500"`
		Data    interface{} `json:"data"`
	}
	if msg, err := parseBody(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	v := middleware.CurrentVolunteer(c)
	bc.Store.LogAction(v.Name+": "+input.Message, input.Data)
	return c.SendStatus(fiber.StatusAccepted)
}
