package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/scrapeflow/internal/service"
	"github.com/maheshrc27/scrapeflow/internal/transfer"
)

type ScheduleHandler struct {
	s service.ScheduleService
}

func NewScheduleHandler(service service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{s: service}
}

func (h *ScheduleHandler) CreateSchedule(c *fiber.Ctx) error {
	var req transfer.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Unable to parse request")
	}

	schedule, err := h.s.Create(c.Context(), GetUserID(c), &req)
	if err != nil {
		return scheduleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(schedule)
}

func (h *ScheduleHandler) ListSchedules(c *fiber.Ctx) error {
	schedules, err := h.s.List(c.Context(), GetUserID(c))
	if err != nil {
		return scheduleError(c, err)
	}
	return c.JSON(schedules)
}

func (h *ScheduleHandler) ScheduleStatus(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid schedule id")
	}

	st, err := h.s.Status(c.Context(), GetUserID(c), id)
	if err != nil {
		return scheduleError(c, err)
	}

	return c.JSON(transfer.ScheduleStatusResponse{
		ID:            st.Schedule.ID,
		IsActive:      st.Schedule.IsActive,
		LastRun:       st.Schedule.LastRun,
		NextRun:       st.Schedule.NextRun,
		LastContentAt: st.LastContentAt,
		ContentCount:  st.ContentCount,
		Status:        service.StatusLabel(st),
	})
}

func (h *ScheduleHandler) SetActive(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid schedule id")
	}

	var req transfer.SetActiveRequest
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return errorJSON(c, fiber.StatusBadRequest, "Field active is required")
	}

	if err := h.s.SetActive(c.Context(), GetUserID(c), id, *req.Active); err != nil {
		return scheduleError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":        id,
		"is_active": *req.Active,
	})
}

func (h *ScheduleHandler) RemoveSchedule(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid schedule id")
	}

	if err := h.s.Remove(c.Context(), GetUserID(c), id); err != nil {
		return scheduleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func scheduleError(c *fiber.Ctx, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return errorJSON(c, fiber.StatusBadRequest, ve.Error())
	case errors.Is(err, service.ErrScheduleNotFound), errors.Is(err, service.ErrContentNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	default:
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	}
}
