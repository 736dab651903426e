package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/publicvoice/internal/api/dto"
	"github.com/spec-kit/publicvoice/internal/service"
	"github.com/spec-kit/publicvoice/internal/storage"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

const attachmentsField = "attachments"

// ComplaintsHandler manages citizen and public complaint endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
	store      *storage.LocalStore
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaints *service.ComplaintService, store *storage.LocalStore) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaints, store: store}
}

// Submit POST /api/complaints.
func (h *ComplaintsHandler) Submit(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.SubmitComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.SubmitInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Location:      req.Location,
		Department:    req.Department,
		PublicDisplay: req.PublicDisplay,
	}
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) && h.store != nil {
		form, err := c.MultipartForm()
		if err != nil {
			return apperrors.NewValidationError("invalid multipart form", nil)
		}
		if files := form.File[attachmentsField]; len(files) > 0 {
			saved, err := h.store.SaveAll(files)
			if err != nil {
				return err
			}
			input.Attachments = saved
		}
	}

	complaint, err := h.complaints.Submit(c.UserContext(), actor, input)
	if err != nil {
		if h.store != nil {
			h.store.Remove(input.Attachments)
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// ListMine GET /api/complaints.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	items, err := h.complaints.ListForOwner(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(items)})
}

// Get GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	complaint, err := h.complaints.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(complaint)})
}

// Track GET /api/complaints/track/:trackingId.
func (h *ComplaintsHandler) Track(c *fiber.Ctx) error {
	complaint, err := h.complaints.Track(c.UserContext(), c.Params("trackingId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": publicComplaintResponse(complaint)})
}

// AddComment POST /api/complaints/:id/comments and /api/admin/complaints/:id/comments.
func (h *ComplaintsHandler) AddComment(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, complaint, err := h.complaints.AddComment(c.UserContext(), actor, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"comment":   comment,
		"complaint": complaintResponse(complaint),
	}})
}
