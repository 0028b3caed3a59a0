package handlers

import (
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/ipgeo-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type HistoryHandler struct {
	historyService *services.HistoryService
}

func NewHistoryHandler(historyService *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

func (h *HistoryHandler) List(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}

	entries, err := h.historyService.List(c.UserContext(), caller)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(entries))
}

func (h *HistoryHandler) Create(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	req, ok := middleware.Payload[dto.CreateHistoryRequest](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	entry, err := h.historyService.Create(c.UserContext(), caller, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK(entry))
}

func (h *HistoryHandler) Get(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}

	// No row can carry a non-UUID id.
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return services.ErrHistoryNotFound
	}

	entry, err := h.historyService.Get(c.UserContext(), caller, id)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(entry))
}

func (h *HistoryHandler) Delete(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}
	req, ok := middleware.Payload[dto.DeleteHistoryRequest](c)
	if !ok {
		return fiber.ErrBadRequest
	}

	deleted, err := h.historyService.DeleteMany(c.UserContext(), caller, req.UUIDs())
	if err != nil {
		return err
	}

	return c.JSON(dto.DeleteHistoryResponse{
		Success:      true,
		Message:      services.DeletedMessage(deleted),
		DeletedCount: deleted,
	})
}

func callerOf(c *fiber.Ctx) (auth.Identity, error) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, apperror.Unauthenticated("Authentication required")
	}
	return id, nil
}
