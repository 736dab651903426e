package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/publicvoice/internal/api/dto"
	"github.com/spec-kit/publicvoice/internal/auth"
	"github.com/spec-kit/publicvoice/internal/domain"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

func currentActor(c *fiber.Ctx) (*domain.Actor, error) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthenticated("Authentication required")
	}
	return actor, nil
}

func actorResponse(actor *domain.Actor) dto.ActorResponse {
	return dto.ActorResponse{
		ID:         actor.ID,
		Name:       actor.Name,
		Email:      actor.Email,
		Phone:      actor.Phone,
		Address:    actor.Address,
		Role:       actor.Role,
		Department: actor.Department,
		IsActive:   actor.IsActive,
		LastLogin:  actor.LastLogin,
		CreatedAt:  actor.CreatedAt,
	}
}

func complaintResponse(c *domain.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:                      c.ID,
		TrackingID:              c.TrackingID,
		Title:                   c.Title,
		Description:             c.Description,
		Category:                c.Category,
		Location:                c.Location,
		Status:                  c.Status,
		Priority:                c.Priority,
		Department:              c.Department,
		OwnerID:                 c.OwnerID,
		AssignedTo:              c.AssignedTo,
		EstimatedResolutionTime: c.EstimatedResolutionTime,
		Attachments:             attachmentResponses(c.Attachments),
		Comments:                nonNil(c.Comments),
		StatusUpdates:           nonNil(c.StatusUpdates),
		PublicDisplay:           c.PublicDisplay,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

func attachmentResponses(items []domain.Attachment) []dto.AttachmentResponse {
	resp := make([]dto.AttachmentResponse, 0, len(items))
	for _, a := range items {
		resp = append(resp, dto.AttachmentResponse{
			FileName:    a.FileName,
			URL:         a.URL,
			ContentType: a.ContentType,
			SizeBytes:   a.SizeBytes,
		})
	}
	return resp
}

func complaintResponses(items []domain.Complaint) []dto.ComplaintResponse {
	resp := make([]dto.ComplaintResponse, 0, len(items))
	for i := range items {
		resp = append(resp, complaintResponse(&items[i]))
	}
	return resp
}

// publicComplaintResponse hides the description unless the owner opted into public display.
func publicComplaintResponse(c *domain.Complaint) dto.PublicComplaintResponse {
	updates := make([]dto.PublicStatusUpdate, 0, len(c.StatusUpdates))
	for _, u := range c.StatusUpdates {
		updates = append(updates, dto.PublicStatusUpdate{Status: u.Status, Date: u.Date, Note: u.Note})
	}
	resp := dto.PublicComplaintResponse{
		TrackingID:              c.TrackingID,
		Title:                   c.Title,
		Category:                c.Category,
		Location:                c.Location,
		Status:                  c.Status,
		Priority:                c.Priority,
		Department:              c.Department,
		EstimatedResolutionTime: c.EstimatedResolutionTime,
		StatusUpdates:           updates,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
	if c.PublicDisplay {
		resp.Description = c.Description
	}
	return resp
}

func departmentResponse(d *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
