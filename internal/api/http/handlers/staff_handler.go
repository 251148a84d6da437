package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/auth"
	"github.com/spec-kit/staff-directory/internal/domain"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// StaffAPI is the staff service as used by the staff API handlers.
type StaffAPI interface {
	ListVenues(ctx context.Context, actor domain.AuthContext, businessCode string) ([]domain.VenueSummary, error)
	ListStaff(ctx context.Context, actor domain.AuthContext, filter domain.FilterSelection) ([]domain.StaffRecord, error)
	Get(ctx context.Context, actor domain.AuthContext, staffCode string) (*domain.StaffRecord, error)
	Create(ctx context.Context, actor domain.AuthContext, req domain.StaffCreateRequest) (*domain.StaffRecord, error)
	Update(ctx context.Context, actor domain.AuthContext, staffCode string, req domain.StaffUpdateRequest) (*domain.StaffRecord, error)
	Delete(ctx context.Context, actor domain.AuthContext, staffCode string) error
}

// StaffHandler exposes the staff CRUD and venue endpoints.
type StaffHandler struct {
	staff StaffAPI
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staff StaffAPI) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// ListVenues handles GET /api/admin/venues.
func (h *StaffHandler) ListVenues(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	venues, err := h.staff.ListVenues(c.UserContext(), actor, c.Query("business_code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": venues})
}

// ListStaff handles GET /api/admin/staff.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	filter := domain.DefaultFilter()
	if venue := strings.TrimSpace(c.Query("venue_code")); venue != "" {
		filter.Venue = venue
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !domain.EmploymentStatus(status).Valid() && status != domain.FilterAll {
			return apperrors.NewValidationError("Invalid status filter", map[string]any{"status": status})
		}
		filter.Status = status
	}
	staff, err := h.staff.ListStaff(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": staff})
}

// GetStaff handles GET /api/admin/staff/:code.
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	rec, err := h.staff.Get(c.UserContext(), actor, c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": rec})
}

// CreateStaff handles POST /api/admin/staff. The created record, including
// its generated kiosk PIN, is returned under "user".
func (h *StaffHandler) CreateStaff(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	var req domain.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	rec, err := h.staff.Create(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "user": rec})
}

// UpdateStaff handles PUT /api/admin/staff/:code.
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	var req domain.StaffUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	rec, err := h.staff.Update(c.UserContext(), actor, c.Params("code"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": rec})
}

// DeleteStaff handles DELETE /api/admin/staff/:code.
func (h *StaffHandler) DeleteStaff(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.staff.Delete(c.UserContext(), actor, c.Params("code")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func identity(c *fiber.Ctx) (domain.AuthContext, error) {
	actor, ok := auth.IdentityFromContext(c)
	if !ok {
		return domain.AuthContext{}, apperrors.NewContextError("business code header is required")
	}
	return actor, nil
}
