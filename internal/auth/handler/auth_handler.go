package handler

import (
	"github.com/AnthoniusHendriyanto/post-service/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/post-service/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/post-service/internal/errors"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	userService *service.UserService
	verifier    service.TokenVerifier
}

func NewAuthHandler(userService *service.UserService, verifier service.TokenVerifier) *AuthHandler {
	return &AuthHandler{userService: userService, verifier: verifier}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input dto.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	resp, err := h.userService.Signup(c.UserContext(), input)
	if err != nil {
		return WriteError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	resp, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return WriteError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// WriteError renders err as {"error": message} with the status its kind maps
// to.
func WriteError(c *fiber.Ctx, err error) error {
	return c.Status(autherror.StatusCode(err)).JSON(fiber.Map{
		"error": autherror.Message(err),
	})
}
