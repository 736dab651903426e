package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/publicvoice/internal/api/dto"
	"github.com/spec-kit/publicvoice/internal/service"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

// SuperAdminHandler manages departments and admin accounts.
type SuperAdminHandler struct {
	directory *service.DirectoryService
	reports   *service.ReportService
}

// NewSuperAdminHandler constructs handler.
func NewSuperAdminHandler(directory *service.DirectoryService, reports *service.ReportService) *SuperAdminHandler {
	return &SuperAdminHandler{directory: directory, reports: reports}
}

// CreateDepartment POST /api/superadmin/departments.
func (h *SuperAdminHandler) CreateDepartment(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	dept, err := h.directory.CreateDepartment(c.UserContext(), actor, service.DepartmentInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": departmentResponse(dept)})
}

// ListDepartments GET /api/superadmin/departments.
func (h *SuperAdminHandler) ListDepartments(c *fiber.Ctx) error {
	depts, err := h.directory.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		resp = append(resp, departmentResponse(&depts[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateAdmin POST /api/superadmin/admins.
func (h *SuperAdminHandler) CreateAdmin(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	admin, err := h.directory.CreateAdmin(c.UserContext(), actor, service.CreateAdminInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": actorResponse(admin)})
}

// ListAdmins GET /api/superadmin/admins.
func (h *SuperAdminHandler) ListAdmins(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	admins, err := h.directory.ListAdmins(c.UserContext(), actor)
	if err != nil {
		return err
	}
	resp := make([]dto.ActorResponse, 0, len(admins))
	for i := range admins {
		resp = append(resp, actorResponse(&admins[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// SetAdminStatus PATCH /api/superadmin/admins/:id/status.
func (h *SuperAdminHandler) SetAdminStatus(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.AdminStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.IsActive == nil {
		return apperrors.NewValidationError("is_active is required", nil)
	}
	admin, err := h.directory.SetAdminActive(c.UserContext(), actor, c.Params("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": actorResponse(admin)})
}

// Stats GET /api/superadmin/stats.
func (h *SuperAdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reports.AdminStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AdminStatsResponse{
		TotalAdmins:      stats.TotalAdmins,
		TotalDepartments: stats.TotalDepartments,
		ActiveAdmins:     stats.ActiveAdmins,
	}})
}
