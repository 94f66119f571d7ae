package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"walkboard/board"
	controller "walkboard/controllers"
	"walkboard/middleware"
	"walkboard/storage"
)

// Dependencies is everything the HTTP layer needs from main.
type Dependencies struct {
	Store       *board.Store
	Poller      controller.Poller
	History     *storage.History
	Preferences *storage.Preferences
	JWTSecret   string
	RateLimit   int
	RateStorage fiber.Storage

	// TelegramBotToken signs WebApp init data; empty disables Telegram sign-in.
	TelegramBotToken string
}

var requestLogFormat = "[${time}] ${status} - ${latency} ${method} ${path}\n"

func SetupAuthRoutes(app *fiber.App, deps Dependencies) {
	authController := controller.NewAuthController(deps.Store, deps.JWTSecret, deps.TelegramBotToken, logrus.WithField("component", "auth"))

	auth := app.Group("/auth", logger.New(logger.Config{
		Format: requestLogFormat,
	}))

	// Public auth endpoints (no authentication required)
	auth.Get("/volunteers", authController.ListVolunteers)
	auth.Post("/login", authController.Login)
	auth.Post("/identity", authController.Identity)
	auth.Post("/guest", authController.Guest)
	auth.Post("/logout", authController.Logout)

	logrus.WithField("component", "auth").Info("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, deps Dependencies) {
	boardController := controller.NewBoardController(deps.Store, deps.Poller, logrus.WithField("component", "board-api"))
	groupController := controller.NewGroupController(deps.Store, logrus.WithField("component", "groups"))
	dogController := controller.NewDogController(deps.Store, logrus.WithField("component", "dogs"))
	volunteerController := controller.NewVolunteerController(deps.Store, logrus.WithField("component", "volunteers"))
	historyController := controller.NewHistoryController(deps.History, deps.Preferences)

	// API group with versioning and protection
	api := app.Group("/api/v1",
		middleware.Protected(deps.JWTSecret, deps.Store),
		middleware.MutationRateLimiter(deps.RateLimit, deps.RateStorage),
		logger.New(logger.Config{Format: requestLogFormat}),
	)

	// Board
	api.Get("/board", boardController.GetBoard)
	api.Get("/board/pool", boardController.GetPool)

	// Groups
	groups := api.Group("/groups")
	groups.Post("/", groupController.CreateGroup)
	groups.Post("/drop", groupController.Drop)
	groups.Put("/:id/volunteer", groupController.SetVolunteer)
	groups.Put("/:id/editing", groupController.StartEditing)
	groups.Delete("/:id/editing", groupController.StopEditing)
	groups.Get("/:id/validate", groupController.Validate)
	groups.Post("/:id/start", groupController.StartWalk)
	groups.Post("/:id/finish", groupController.FinishWalk)
	groups.Delete("/:id", groupController.DeleteGroup)

	// Dogs
	dogs := api.Group("/dogs")
	dogs.Get("/", dogController.ListDogs)
	dogs.Post("/", dogController.AddDog)
	dogs.Post("/move", groupController.MoveDogs)
	dogs.Post("/reset-walks", dogController.ResetWalks)
	dogs.Get("/:id", dogController.GetDog)
	dogs.Patch("/:id", dogController.UpdateDog)
	dogs.Post("/:id/visibility", dogController.ToggleVisibility)
	dogs.Get("/:id/history", historyController.DogWalks)

	// Volunteers
	volunteers := api.Group("/volunteers")
	volunteers.Get("/", volunteerController.ListVolunteers)
	volunteers.Post("/", volunteerController.AddVolunteer)
	volunteers.Patch("/:id", volunteerController.UpdateVolunteer)
	volunteers.Delete("/:id", volunteerController.DeactivateVolunteer)

	// Settings
	settings := api.Group("/settings")
	settings.Get("/", boardController.GetSettings)
	settings.Put("/walk-duration", boardController.SetWalkDuration)
	settings.Put("/auto-add-friends", boardController.SetAutoAddFriends)
	settings.Put("/team", boardController.SetTeam)

	// Sync session
	api.Post("/session/pause", boardController.PauseSync)
	api.Post("/session/resume", boardController.ResumeSync)
	api.Post("/sync/refresh", boardController.RefreshSync)
	api.Post("/log", boardController.LogAction)

	// History and preferences
	api.Get("/history", historyController.ListWalks)
	api.Get("/preferences/theme", historyController.GetTheme)
	api.Put("/preferences/theme", historyController.SetTheme)
	api.Post("/preferences/theme/toggle", historyController.ToggleTheme)

	// Board change stream
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/board",
		middleware.Protected(deps.JWTSecret, deps.Store),
		websocket.New(controller.BoardStream(deps.Store, logrus.WithField("component", "board-ws"))),
	)
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": deps.Store.Version(),
		})
	})

	SetupAuthRoutes(app, deps)
	SetupAPIRoutes(app, deps)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
