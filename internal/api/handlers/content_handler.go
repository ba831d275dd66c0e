package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/scrapeflow/internal/service"
)

type ContentHandler struct {
	s service.ContentService
}

func NewContentHandler(service service.ContentService) *ContentHandler {
	return &ContentHandler{s: service}
}

func (h *ContentHandler) ListScheduleContents(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid schedule id")
	}

	contents, err := h.s.ListBySchedule(c.Context(), GetUserID(c), id, c.QueryInt("limit", 10))
	if err != nil {
		return scheduleError(c, err)
	}
	return c.JSON(contents)
}

func (h *ContentHandler) ListContents(c *fiber.Ctx) error {
	contents, err := h.s.ListRecent(c.Context(), GetUserID(c), c.QueryInt("limit", 10))
	if err != nil {
		return scheduleError(c, err)
	}
	return c.JSON(contents)
}

func (h *ContentHandler) ListAttempts(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid content id")
	}

	attempts, err := h.s.Attempts(c.Context(), GetUserID(c), id)
	if err != nil {
		return scheduleError(c, err)
	}
	return c.JSON(attempts)
}
