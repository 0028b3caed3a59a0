package handlers

import (
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	req, ok := middleware.Payload[dto.RegisterRequest](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	resp, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OKWithMessage("User registered successfully", resp))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req, ok := middleware.Payload[dto.LoginRequest](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(resp))
}
