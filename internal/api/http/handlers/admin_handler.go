package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/publicvoice/internal/api/dto"
	"github.com/spec-kit/publicvoice/internal/domain"
	"github.com/spec-kit/publicvoice/internal/service"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

// AdminHandler manages department staff endpoints.
type AdminHandler struct {
	complaints *service.ComplaintService
	reports    *service.ReportService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(complaints *service.ComplaintService, reports *service.ReportService) *AdminHandler {
	return &AdminHandler{complaints: complaints, reports: reports}
}

// DashboardStats GET /api/admin/dashboard/stats.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.reports.DashboardStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardStatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Resolved:   stats.Resolved,
		Rejected:   stats.Rejected,
	}})
}

// ListComplaints GET /api/admin/complaints.
func (h *AdminHandler) ListComplaints(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	page, err := h.complaints.ListForAdmin(c.UserContext(), actor, service.AdminListFilter{
		Status:     c.Query("status"),
		Category:   c.Query("category"),
		Department: c.Query("department"),
		Priority:   c.Query("priority"),
		Search:     c.Query("search"),
		Page:       parseInt(c.Query("page"), 1),
		PageSize:   parseInt(c.Query("page_size", c.Query("limit")), 0),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ComplaintPageResponse{
		Items:      complaintResponses(page.Items),
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}})
}

// DepartmentComplaints GET /api/admin/department/complaints.
func (h *AdminHandler) DepartmentComplaints(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	items, err := h.complaints.ListDepartmentComplaints(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(items)})
}

// UpdateComplaint PUT /api/admin/complaints/:id.
func (h *AdminHandler) UpdateComplaint(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.UpdateInput{Note: req.Note, Department: req.Department}
	if req.Status != nil {
		status := domain.ComplaintStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		input.Priority = &priority
	}
	complaint, err := h.complaints.UpdateComplaint(c.UserContext(), actor, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// Assign PUT /api/admin/complaints/:id/assign.
func (h *AdminHandler) Assign(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.complaints.Assign(c.UserContext(), actor, c.Params("id"), service.AssignInput{
		AdminID:                 req.AdminID,
		EstimatedResolutionTime: req.EstimatedResolutionTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// ListComments GET /api/admin/complaints/:id/comments.
func (h *AdminHandler) ListComments(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	comments, err := h.complaints.ListComments(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": nonNil(comments)})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
