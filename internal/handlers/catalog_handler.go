package handlers

import (
	"errors"
	"log/slog"

	"github.com/Kaannpy/Berber-randevu-sistemi/internal/dto"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/models"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CatalogHandler serves the staff/service reference data: public reads for
// the booking form, admin-gated writes.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListStaff(c *fiber.Ctx) error {
	staff, err := h.catalogService.ListStaff(c.UserContext())
	if err != nil {
		slog.Error("failed to list staff", "error", err, "action", "catalog.staff.list")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch staff",
		})
	}

	out := make([]dto.StaffResponse, 0, len(staff))
	for _, s := range staff {
		out = append(out, toStaffResponse(s))
	}
	return c.JSON(out)
}

func (h *CatalogHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.UpsertStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	staff, err := h.catalogService.CreateStaff(c.UserContext(), req.Name)
	if err != nil {
		return h.renderError(c, err, "catalog.staff.create")
	}

	return c.Status(fiber.StatusCreated).JSON(toStaffResponse(*staff))
}

func (h *CatalogHandler) UpdateStaff(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid staff id",
		})
	}

	var req dto.UpsertStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	staff, err := h.catalogService.UpdateStaff(c.UserContext(), id, req.Name)
	if err != nil {
		return h.renderError(c, err, "catalog.staff.update")
	}

	return c.JSON(toStaffResponse(*staff))
}

func (h *CatalogHandler) DeleteStaff(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid staff id",
		})
	}

	if err := h.catalogService.DeleteStaff(c.UserContext(), id); err != nil {
		return h.renderError(c, err, "catalog.staff.delete")
	}

	return c.JSON(fiber.Map{"message": "Staff member deleted"})
}

func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.catalogService.ListServices(c.UserContext())
	if err != nil {
		slog.Error("failed to list services", "error", err, "action", "catalog.services.list")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch services",
		})
	}

	out := make([]dto.ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, toServiceResponse(s))
	}
	return c.JSON(out)
}

func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	var req dto.UpsertServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	service, err := h.catalogService.CreateService(c.UserContext(), req.Name)
	if err != nil {
		return h.renderError(c, err, "catalog.services.create")
	}

	return c.Status(fiber.StatusCreated).JSON(toServiceResponse(*service))
}

func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid service id",
		})
	}

	var req dto.UpsertServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	service, err := h.catalogService.UpdateService(c.UserContext(), id, req.Name)
	if err != nil {
		return h.renderError(c, err, "catalog.services.update")
	}

	return c.JSON(toServiceResponse(*service))
}

func (h *CatalogHandler) DeleteService(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid service id",
		})
	}

	if err := h.catalogService.DeleteService(c.UserContext(), id); err != nil {
		return h.renderError(c, err, "catalog.services.delete")
	}

	return c.JSON(fiber.Map{"message": "Service deleted"})
}

func (h *CatalogHandler) renderError(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, services.ErrNameRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Name is required",
		})
	case errors.Is(err, services.ErrStaffNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Staff member not found",
		})
	case errors.Is(err, services.ErrServiceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Service not found",
		})
	case errors.Is(err, services.ErrCatalogInUse):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "Cannot delete: active appointments reference this record",
		})
	default:
		slog.Error("catalog operation failed", "error", err, "action", action)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}

func toStaffResponse(s models.Staff) dto.StaffResponse {
	return dto.StaffResponse{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt}
}

func toServiceResponse(s models.Service) dto.ServiceResponse {
	return dto.ServiceResponse{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt}
}
