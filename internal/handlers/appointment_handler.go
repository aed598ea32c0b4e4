package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Kaannpy/Berber-randevu-sistemi/internal/auth"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/dto"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/models"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	appointmentService *services.AppointmentService
}

func NewAppointmentHandler(appointmentService *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// List handles GET /appointments - the caller's appointments partitioned
// into upcoming, past and cancelled.
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	list, err := h.appointmentService.ListForUser(c.UserContext(), userID, time.Now())
	if err != nil {
		slog.Error("failed to list appointments", "error", err, "user_id", userID.String(), "action", "appointments.list")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch appointments",
		})
	}

	return c.JSON(dto.AppointmentListResponse{
		Upcoming:  toAppointmentResponses(list.Upcoming),
		Past:      toAppointmentResponses(list.Past),
		Cancelled: toAppointmentResponses(list.Cancelled),
	})
}

// Create handles POST /appointments.
func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	candidate := models.Appointment{
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		AppointmentDate: req.AppointmentDate,
	}

	created, err := h.appointmentService.Create(c.UserContext(), &candidate, userID, time.Now())
	if err != nil {
		return h.renderError(c, err, userID, "appointments.create")
	}

	return c.Status(fiber.StatusCreated).JSON(toAppointmentResponse(*created))
}

// Get handles GET /appointments/:id.
func (h *AppointmentHandler) Get(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid appointment id",
		})
	}

	appt, err := h.appointmentService.Get(c.UserContext(), id, userID, auth.GetRole(c) == "admin")
	if err != nil {
		return h.renderError(c, err, userID, "appointments.get")
	}

	return c.JSON(toAppointmentResponse(*appt))
}

// Update handles PUT /appointments/:id.
func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid appointment id",
		})
	}

	var req dto.UpdateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	changes := models.Appointment{
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		AppointmentDate: req.AppointmentDate,
	}

	updated, err := h.appointmentService.Update(c.UserContext(), id, &changes, userID, time.Now())
	if err != nil {
		return h.renderError(c, err, userID, "appointments.update")
	}

	return c.JSON(toAppointmentResponse(*updated))
}

// Cancel handles DELETE /appointments/:id - a soft-cancel, never a real
// delete.
func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid appointment id",
		})
	}

	if err := h.appointmentService.Cancel(c.UserContext(), id, userID, auth.GetRole(c) == "admin"); err != nil {
		return h.renderError(c, err, userID, "appointments.cancel")
	}

	return c.JSON(fiber.Map{"message": "Appointment cancelled"})
}

func (h *AppointmentHandler) renderError(c *fiber.Ctx, err error, userID uuid.UUID, action string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]dto.FieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, dto.FieldError{Field: f.Field, Message: f.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Error: true, Message: "Validation failed", Fields: fields,
		})
	case errors.Is(err, services.ErrMissingCaller):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	case errors.Is(err, services.ErrAppointmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Appointment not found",
		})
	case errors.Is(err, services.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "You can only modify your own appointments",
		})
	case errors.Is(err, services.ErrSlotTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "This staff member already has an appointment at the selected time",
		})
	case errors.Is(err, services.ErrStaleAppointment):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "The appointment was changed by another request, please retry",
		})
	default:
		slog.Error("appointment operation failed", "error", err, "user_id", userID.String(), "action", action)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}

func toAppointmentResponse(appt models.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:              appt.ID,
		UserID:          appt.UserID,
		StaffID:         appt.StaffID,
		StaffName:       appt.Staff.Name,
		ServiceID:       appt.ServiceID,
		ServiceName:     appt.Service.Name,
		AppointmentDate: appt.AppointmentDate,
		IsCancelled:     appt.IsCancelled,
		CreatedAt:       appt.CreatedAt,
	}
}

func toAppointmentResponses(appts []models.Appointment) []dto.AppointmentResponse {
	out := make([]dto.AppointmentResponse, 0, len(appts))
	for _, appt := range appts {
		out = append(out, toAppointmentResponse(appt))
	}
	return out
}
