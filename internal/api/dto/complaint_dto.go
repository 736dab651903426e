package dto

import (
	"time"

	"github.com/spec-kit/publicvoice/internal/domain"
)

// SubmitComplaintRequest is read from a multipart form or a JSON body.
type SubmitComplaintRequest struct {
	Title         string `json:"title" form:"title"`
	Description   string `json:"description" form:"description"`
	Category      string `json:"category" form:"category"`
	Location      string `json:"location" form:"location"`
	Department    string `json:"department" form:"department"`
	PublicDisplay bool   `json:"public_display" form:"public_display"`
}

// CommentRequest payload.
type CommentRequest struct {
	Text string `json:"text"`
}

// UpdateComplaintRequest carries any subset of the admin-editable fields.
type UpdateComplaintRequest struct {
	Status     *string `json:"status"`
	Note       string  `json:"note"`
	Priority   *string `json:"priority"`
	Department *string `json:"department"`
}

// AssignRequest payload.
type AssignRequest struct {
	AdminID                 string `json:"admin_id"`
	EstimatedResolutionTime string `json:"estimated_resolution_time"`
}

// AttachmentResponse describes an uploaded file by its public URL.
type AttachmentResponse struct {
	FileName    string `json:"filename"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// ComplaintResponse is the full complaint view for its owner and staff.
type ComplaintResponse struct {
	ID                      string                 `json:"id"`
	TrackingID              string                 `json:"tracking_id"`
	Title                   string                 `json:"title"`
	Description             string                 `json:"description"`
	Category                string                 `json:"category"`
	Location                string                 `json:"location"`
	Status                  domain.ComplaintStatus `json:"status"`
	Priority                domain.Priority        `json:"priority"`
	Department              string                 `json:"department,omitempty"`
	OwnerID                 string                 `json:"owner_id"`
	AssignedTo              *string                `json:"assigned_to"`
	EstimatedResolutionTime string                 `json:"estimated_resolution_time,omitempty"`
	Attachments             []AttachmentResponse   `json:"attachments"`
	Comments                []domain.Comment       `json:"comments"`
	StatusUpdates           []domain.StatusUpdate  `json:"status_updates"`
	PublicDisplay           bool                   `json:"public_display"`
	CreatedAt               time.Time              `json:"created_at"`
	UpdatedAt               time.Time              `json:"updated_at"`
}

// PublicComplaintResponse is the anonymous tracking view. It never names the owner,
// the comment thread or who made each status change.
type PublicComplaintResponse struct {
	TrackingID              string                 `json:"tracking_id"`
	Title                   string                 `json:"title"`
	Description             string                 `json:"description,omitempty"`
	Category                string                 `json:"category"`
	Location                string                 `json:"location"`
	Status                  domain.ComplaintStatus `json:"status"`
	Priority                domain.Priority        `json:"priority"`
	Department              string                 `json:"department,omitempty"`
	EstimatedResolutionTime string                 `json:"estimated_resolution_time,omitempty"`
	StatusUpdates           []PublicStatusUpdate   `json:"status_updates"`
	CreatedAt               time.Time              `json:"created_at"`
	UpdatedAt               time.Time              `json:"updated_at"`
}

// PublicStatusUpdate is an audit entry without the acting actor.
type PublicStatusUpdate struct {
	Status domain.ComplaintStatus `json:"status"`
	Date   time.Time              `json:"date"`
	Note   string                 `json:"note,omitempty"`
}

// ComplaintPageResponse wraps a paginated listing.
type ComplaintPageResponse struct {
	Items      []ComplaintResponse `json:"items"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"total_pages"`
}

// DashboardStatsResponse holds complaint tallies.
type DashboardStatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Rejected   int `json:"rejected"`
}
