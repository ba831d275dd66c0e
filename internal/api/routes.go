package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/scrapeflow/internal/api/handlers"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Platform *handlers.PlatformHandler
	Schedule *handlers.ScheduleHandler
	Content  *handlers.ContentHandler
}

// RegisterRoutes mounts the public OAuth routes and the authenticated /api
// group.
func RegisterRoutes(app *fiber.App, auth fiber.Handler, h Handlers) {
	app.Get("/login", h.Auth.Login)
	app.Get("/login/callback", h.Auth.LoginCallbackHandler)
	app.Post("/logout", h.Auth.Logout)

	app.Get("/auth/linkedin", h.Platform.AddLinkedInAccount)
	app.Get("/auth/linkedin/callback", h.Platform.LinkedInCallback)

	api := app.Group("/api")
	api.Use(auth)

	api.Get("/user/info", h.User.GetUserInfo)

	api.Post("/schedules", h.Schedule.CreateSchedule)
	api.Get("/schedules", h.Schedule.ListSchedules)
	api.Get("/schedules/:id/status", h.Schedule.ScheduleStatus)
	api.Post("/schedules/:id/active", h.Schedule.SetActive)
	api.Delete("/schedules/:id", h.Schedule.RemoveSchedule)
	api.Get("/schedules/:id/contents", h.Content.ListScheduleContents)

	api.Get("/contents", h.Content.ListContents)
	api.Get("/contents/:id/attempts", h.Content.ListAttempts)

	// social accounts api routes
	api.Get("/accounts", h.Platform.ListSocialAccounts)
	api.Post("/accounts/linkedin/remove", h.Platform.RemoveLinkedInAccount)
}
