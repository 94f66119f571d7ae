package controller

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"walkboard/board"
	"walkboard/models"
	"walkboard/utils"
)

type AuthResponse struct {
	AccessToken string           `json:"access_token"`
	SessionID   string           `json:"session_id"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Volunteer   models.Volunteer `json:"volunteer"`
}

// initDataMaxAge bounds how old a Telegram WebApp launch may be when used to sign in.
const initDataMaxAge = 24 * time.Hour

type AuthController struct {
	Store    *board.Store
	Secret   string
	BotToken string
	Logger   *logrus.Entry
}

func NewAuthController(store *board.Store, secret, botToken string, logger *logrus.Entry) *AuthController {
	return &AuthController{Store: store, Secret: secret, BotToken: botToken, Logger: logger}
}

// ListVolunteers feeds the login picker: active volunteers only.
func (ac *AuthController) ListVolunteers(c *fiber.Ctx) error {
	active := []models.Volunteer{}
	for _, v := range ac.Store.Snapshot().Volunteers {
		if v.Status == models.VolunteerActive {
			active = append(active, models.Volunteer{ID: v.ID, Name: v.Name, Role: v.Role, Status: v.Status, TeamID: v.TeamID})
		}
	}
	return c.JSON(utils.SuccessResponse(active))
}

// Login signs in a volunteer picked from the list.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		VolunteerID string `json:"volunteerId" validate:"required"`
	}
	if msg, err := parseBody(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	v, ok := ac.Store.Volunteer(input.VolunteerID)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Volunteer not found", nil)
	}
	if v.Status != models.VolunteerActive {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Volunteer is not active", nil)
	}
	return ac.issue(c, v, "picker")
}

// Identity signs in through the Telegram WebApp. The init data must carry a
// valid signature from the configured bot; the signed user is then matched by
// telegram id first, then username.
func (ac *AuthController) Identity(c *fiber.Ctx) error {
	if ac.BotToken == "" {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Telegram sign-in is not configured", nil)
	}
	var input struct {
		InitData string `json:"initData" validate:"required"`
	}
	if msg, err := parseBody(c, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msg, err)
	}
	user, err := utils.VerifyInitData(ac.BotToken, input.InitData, initDataMaxAge, time.Now())
	if err != nil {
		ac.Logger.WithError(err).Warn("Rejected telegram sign-in")
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Telegram identity could not be verified", err)
	}

	telegramID := strconv.FormatInt(user.ID, 10)
	v, ok := ac.Store.MatchIdentity(telegramID, user.Username)
	if !ok {
		utils.LogEvent("identity_unmatched", map[string]interface{}{
			"telegram_id":       telegramID,
			"telegram_username": user.Username,
		})
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No volunteer matches this identity", nil)
	}
	if v.Status != models.VolunteerActive {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Volunteer is not active", nil)
	}
	return ac.issue(c, v, "telegram")
}

// Guest signs in an anonymous volunteer.
func (ac *AuthController) Guest(c *fiber.Ctx) error {
	return ac.issue(c, models.Volunteer{
		ID:     utils.GuestVolunteerID,
		Name:   "Guest",
		Role:   models.RoleVolunteer,
		Status: models.VolunteerActive,
	}, "guest")
}

func (ac *AuthController) issue(c *fiber.Ctx, v models.Volunteer, method string) error {
	token, claims, err := utils.GenerateSessionToken(ac.Secret, v.ID, v.Name)
	if err != nil {
		utils.LogError("token_generation", err, map[string]interface{}{"volunteer_id": v.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token", err)
	}

	// Set secure HTTP-only cookie
	cookie := new(fiber.Cookie)
	cookie.Name = "access_token"
	cookie.Value = token
	cookie.Expires = claims.ExpiresAt.Time
	cookie.HTTPOnly = true
	cookie.Secure = true
	cookie.SameSite = "Lax"
	c.Cookie(cookie)

	ac.Logger.WithFields(logrus.Fields{"volunteer_id": v.ID, "method": method}).Info("Volunteer signed in")
	return c.JSON(AuthResponse{
		AccessToken: token,
		SessionID:   claims.SessionID,
		ExpiresAt:   claims.ExpiresAt.Time,
		Volunteer:   v,
	})
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	c.ClearCookie("access_token")
	return c.SendStatus(fiber.StatusNoContent)
}
