package domain

import (
	"time"

	"github.com/google/uuid"
)

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusRejected   ComplaintStatus = "rejected"
)

// ComplaintStatuses lists the accepted status values in display order.
var ComplaintStatuses = []ComplaintStatus{StatusPending, StatusInProgress, StatusResolved, StatusRejected}

// Valid reports whether s belongs to the closed status set.
func (s ComplaintStatus) Valid() bool {
	for _, candidate := range ComplaintStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Priority enumerates triage urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority applies when no priority is configured.
const DefaultPriority = PriorityMedium

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Attachment references an uploaded file stored outside the complaint.
type Attachment struct {
	FileName    string `json:"filename"`
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// Comment is an append-only thread entry.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusUpdate is an immutable audit entry. By is nil only for the submission entry.
type StatusUpdate struct {
	Status ComplaintStatus `json:"status"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note,omitempty"`
	By     *string         `json:"by,omitempty"`
}

// Complaint is the aggregate for a citizen-submitted issue. Attachments, Comments and
// StatusUpdates are owned by the complaint and persisted with it in a single write.
type Complaint struct {
	ID                      string
	TrackingID              string
	Title                   string
	Description             string
	Category                string
	Location                string
	Status                  ComplaintStatus
	Priority                Priority
	Department              string
	OwnerID                 string
	AssignedTo              *string
	EstimatedResolutionTime string
	Attachments             []Attachment
	Comments                []Comment
	StatusUpdates           []StatusUpdate
	PublicDisplay           bool
	Version                 int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// NewComplaintInput carries citizen-supplied content.
type NewComplaintInput struct {
	Title         string
	Description   string
	Category      string
	Location      string
	Department    string
	PublicDisplay bool
	Attachments   []Attachment
}

const submittedNote = "Complaint submitted"

// NewComplaint builds a pending complaint with its submission audit entry.
func NewComplaint(ownerID, trackingID string, priority Priority, input NewComplaintInput, now time.Time) *Complaint {
	if !priority.Valid() {
		priority = DefaultPriority
	}
	c := &Complaint{
		TrackingID:    trackingID,
		Title:         input.Title,
		Description:   input.Description,
		Category:      input.Category,
		Location:      input.Location,
		Priority:      priority,
		Department:    input.Department,
		OwnerID:       ownerID,
		Attachments:   append([]Attachment(nil), input.Attachments...),
		Comments:      []Comment{},
		PublicDisplay: input.PublicDisplay,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	c.appendStatus(StatusPending, submittedNote, nil, now)
	return c
}

// SetStatus records a status change. An empty note is replaced by a generated one.
func (c *Complaint) SetStatus(status ComplaintStatus, note, by string, at time.Time) {
	if note == "" {
		note = "Status updated to " + string(status)
	}
	c.appendStatus(status, note, &by, at)
}

// AddComment appends a comment from author. A staff reply on a pending complaint
// raises FirstResponseGiven, which the complaint reacts to before returning.
func (c *Complaint) AddComment(text string, author *Actor, at time.Time) (Comment, []LifecycleEvent) {
	comment := Comment{
		ID:        uuid.NewString(),
		Text:      text,
		AuthorID:  author.ID,
		CreatedAt: at,
	}
	c.Comments = append(c.Comments, comment)
	c.UpdatedAt = at

	var raised []LifecycleEvent
	if c.Status == StatusPending && author.IsStaff() {
		raised = append(raised, FirstResponseGiven{By: author.ID, At: at})
	}
	c.react(raised)
	return comment, raised
}

// Assign points the complaint at an admin. The first assignment raises AssignedForFirstTime.
func (c *Complaint) Assign(assignee, by *Actor, estimatedResolution string, at time.Time) []LifecycleEvent {
	first := c.AssignedTo == nil
	id := assignee.ID
	c.AssignedTo = &id
	if estimatedResolution != "" {
		c.EstimatedResolutionTime = estimatedResolution
	}
	c.UpdatedAt = at

	var raised []LifecycleEvent
	if first {
		raised = append(raised, AssignedForFirstTime{
			AssigneeID:   assignee.ID,
			AssigneeName: assignee.Name,
			By:           by.ID,
			At:           at,
		})
	}
	c.react(raised)
	return raised
}

// LastStatusUpdate returns the most recent audit entry.
func (c *Complaint) LastStatusUpdate() (StatusUpdate, bool) {
	if len(c.StatusUpdates) == 0 {
		return StatusUpdate{}, false
	}
	return c.StatusUpdates[len(c.StatusUpdates)-1], true
}

// Clone returns a deep copy so callers can mutate without aliasing the embedded lists.
func (c *Complaint) Clone() *Complaint {
	cp := *c
	if c.AssignedTo != nil {
		assignee := *c.AssignedTo
		cp.AssignedTo = &assignee
	}
	cp.Attachments = append([]Attachment(nil), c.Attachments...)
	cp.Comments = append([]Comment(nil), c.Comments...)
	cp.StatusUpdates = make([]StatusUpdate, len(c.StatusUpdates))
	for i, update := range c.StatusUpdates {
		cp.StatusUpdates[i] = update
		if update.By != nil {
			by := *update.By
			cp.StatusUpdates[i].By = &by
		}
	}
	return &cp
}

func (c *Complaint) appendStatus(status ComplaintStatus, note string, by *string, at time.Time) {
	c.Status = status
	c.StatusUpdates = append(c.StatusUpdates, StatusUpdate{Status: status, Date: at, Note: note, By: by})
	c.UpdatedAt = at
}
