package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("/api/login", h.Login)
	app.Post("/api/insert/signup", h.Signup)
}
