package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/publicvoice/internal/config"
	"github.com/spec-kit/publicvoice/internal/domain"
	"github.com/spec-kit/publicvoice/internal/events"
	"github.com/spec-kit/publicvoice/internal/policy"
	"github.com/spec-kit/publicvoice/internal/repository"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

// maxMutationAttempts bounds the reload-and-reapply loop on version conflicts.
const maxMutationAttempts = 3

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxPage         = math.MaxInt / maxPageSize
	filterAll       = "all"
)

// SubmitInput describes a citizen's complaint.
type SubmitInput struct {
	Title         string
	Description   string
	Category      string
	Location      string
	Department    string
	PublicDisplay bool
	Attachments   []domain.Attachment
}

// AdminListFilter describes staff listing filters. "all" or empty disables a predicate.
type AdminListFilter struct {
	Status     string
	Category   string
	Department string
	Priority   string
	Search     string
	Page       int
	PageSize   int
}

// ComplaintPage is a paginated listing.
type ComplaintPage struct {
	Items      []domain.Complaint
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// UpdateInput carries the admin edit: any subset of status, priority and department.
type UpdateInput struct {
	Status     *domain.ComplaintStatus
	Note       string
	Priority   *domain.Priority
	Department *string
}

// AssignInput names the admin to assign.
type AssignInput struct {
	AdminID                 string
	EstimatedResolutionTime string
}

// ComplaintService is the complaint lifecycle engine.
type ComplaintService struct {
	complaints      repository.ComplaintRepository
	actors          repository.ActorRepository
	directory       *DirectoryService
	dispatcher      events.Dispatcher
	logger          *zap.Logger
	defaultPriority domain.Priority
	trackingPrefix  string
	maxTracking     int
	nextTracking    func() string
	now             func() time.Time
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	ActorRepo     repository.ActorRepository
	Directory     *DirectoryService
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	// TrackingIDs overrides tracking id generation; nil uses prefix + random 5-digit number.
	TrackingIDs func() string
}

// NewComplaintService constructs the service.
func NewComplaintService(cfg config.ComplaintConfig, deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	priority := domain.Priority(cfg.DefaultPriority)
	if !priority.Valid() {
		priority = domain.DefaultPriority
	}
	prefix := cfg.TrackingPrefix
	if prefix == "" {
		prefix = "CMP"
	}
	attempts := cfg.TrackingMaxAttempts
	if attempts <= 0 {
		attempts = 5
	}
	s := &ComplaintService{
		complaints:      deps.ComplaintRepo,
		actors:          deps.ActorRepo,
		directory:       deps.Directory,
		dispatcher:      deps.Dispatcher,
		logger:          logger,
		defaultPriority: priority,
		trackingPrefix:  prefix,
		maxTracking:     attempts,
		nextTracking:    deps.TrackingIDs,
		now:             time.Now,
	}
	if s.nextTracking == nil {
		s.nextTracking = s.randomTrackingID
	}
	return s
}

// Submit files a new complaint for owner, retrying tracking id generation on collision.
func (s *ComplaintService) Submit(ctx context.Context, owner *domain.Actor, in SubmitInput) (*domain.Complaint, error) {
	if owner == nil {
		return nil, apperrors.NewUnauthenticated("Authentication required")
	}
	if err := requireFields(map[string]string{
		"title": in.Title, "description": in.Description, "category": in.Category, "location": in.Location,
	}); err != nil {
		return nil, err
	}
	department := strings.TrimSpace(in.Department)
	if department != "" && s.directory != nil {
		if _, err := s.directory.ActiveDepartment(ctx, department); err != nil {
			return nil, err
		}
	}

	input := domain.NewComplaintInput{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		Location:      strings.TrimSpace(in.Location),
		Department:    department,
		PublicDisplay: in.PublicDisplay,
		Attachments:   in.Attachments,
	}

	for attempt := 1; attempt <= s.maxTracking; attempt++ {
		complaint := domain.NewComplaint(owner.ID, s.nextTracking(), s.defaultPriority, input, s.now())
		err := s.complaints.Create(ctx, complaint)
		if errors.Is(err, repository.ErrTrackingIDTaken) {
			s.logger.Warn("tracking id collision", zap.String("tracking_id", complaint.TrackingID), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		publish(ctx, s.dispatcher, events.Event{
			Type:        events.EventComplaintSubmitted,
			ComplaintID: complaint.ID,
			TrackingID:  complaint.TrackingID,
			Actor:       eventActor(owner),
			Payload: events.ComplaintSubmittedPayload{
				Department: complaint.Department,
				Category:   complaint.Category,
				Priority:   complaint.Priority,
				Title:      complaint.Title,
			},
		})
		return complaint, nil
	}
	return nil, apperrors.NewConflict("could not allocate a unique tracking id", map[string]any{"attempts": s.maxTracking})
}

// Get returns a complaint the requester may view. Complaints outside the requester's
// visibility are reported as not found.
func (s *ComplaintService) Get(ctx context.Context, requester *domain.Actor, id string) (*domain.Complaint, error) {
	complaint, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(requester, complaint) {
		return nil, apperrors.NewNotFound("complaint", nil)
	}
	return complaint, nil
}

// Track is the public lookup by tracking id.
func (s *ComplaintService) Track(ctx context.Context, trackingID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByTrackingID(ctx, strings.TrimSpace(trackingID))
	if err != nil {
		return nil, notFoundAs(err, "complaint")
	}
	return complaint, nil
}

// ListForOwner returns the owner's complaints, newest first.
func (s *ComplaintService) ListForOwner(ctx context.Context, owner *domain.Actor) ([]domain.Complaint, error) {
	items, _, err := s.complaints.List(ctx, repository.ComplaintFilter{OwnerID: owner.ID})
	return items, err
}

// ListForAdmin returns a filtered page. Admins only ever see their own department.
func (s *ComplaintService) ListForAdmin(ctx context.Context, requester *domain.Actor, filter AdminListFilter) (*ComplaintPage, error) {
	scope, ok := policy.ListScope(requester)
	if !ok {
		return nil, apperrors.NewForbidden("Admin access required")
	}

	repoFilter := repository.ComplaintFilter{
		Category: activeFilter(filter.Category),
		Search:   filter.Search,
	}
	if status := activeFilter(filter.Status); status != "" {
		if !domain.ComplaintStatus(status).Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
		}
		repoFilter.Status = domain.ComplaintStatus(status)
	}
	if priority := activeFilter(filter.Priority); priority != "" {
		if !domain.Priority(priority).Valid() {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
		}
		repoFilter.Priority = domain.Priority(priority)
	}
	if scope != "" {
		repoFilter.Department = scope
	} else {
		repoFilter.Department = activeFilter(filter.Department)
	}

	page, size := normalizePage(filter.Page, filter.PageSize)
	repoFilter.Limit = size
	repoFilter.Offset = (page - 1) * size

	items, total, err := s.complaints.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	return &ComplaintPage{
		Items:      items,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}, nil
}

// ListDepartmentComplaints returns every complaint of the requester's department, newest first.
func (s *ComplaintService) ListDepartmentComplaints(ctx context.Context, requester *domain.Actor) ([]domain.Complaint, error) {
	if !requester.IsStaff() {
		return nil, apperrors.NewForbidden("Department admin access required")
	}
	filter := repository.ComplaintFilter{}
	if !requester.IsSuperAdmin() {
		if requester.Department == "" {
			return nil, apperrors.NewValidationError("admin has no department assigned", nil)
		}
		filter.Department = requester.Department
	}
	items, _, err := s.complaints.List(ctx, filter)
	return items, err
}

// UpdateComplaint applies an admin edit in one write. A status change appends an audit entry.
func (s *ComplaintService) UpdateComplaint(ctx context.Context, requester *domain.Actor, id string, in UpdateInput) (*domain.Complaint, error) {
	if in.Status == nil && in.Priority == nil && in.Department == nil {
		return nil, apperrors.NewValidationError("nothing to update", nil)
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *in.Status})
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *in.Priority})
	}
	var department string
	if in.Department != nil {
		department = strings.TrimSpace(*in.Department)
		if department != "" && s.directory != nil {
			if _, err := s.directory.ActiveDepartment(ctx, department); err != nil {
				return nil, err
			}
		}
	}

	return s.mutate(ctx, requester, id, policy.CanUpdate, func(c *domain.Complaint, at time.Time) []events.Event {
		var evts []events.Event
		if in.Priority != nil {
			c.Priority = *in.Priority
		}
		if in.Department != nil {
			c.Department = department
		}
		if in.Status != nil {
			old := c.Status
			c.SetStatus(*in.Status, strings.TrimSpace(in.Note), requester.ID, at)
			last, _ := c.LastStatusUpdate()
			evts = append(evts, statusChanged(c, requester, old, last))
		}
		c.UpdatedAt = at
		return evts
	})
}

// UpdateStatus is UpdateComplaint restricted to a status change.
func (s *ComplaintService) UpdateStatus(ctx context.Context, requester *domain.Actor, id string, status domain.ComplaintStatus, note string) (*domain.Complaint, error) {
	return s.UpdateComplaint(ctx, requester, id, UpdateInput{Status: &status, Note: note})
}

// Assign points a complaint at an admin. Only the first assignment moves it to in_progress.
func (s *ComplaintService) Assign(ctx context.Context, requester *domain.Actor, id string, in AssignInput) (*domain.Complaint, error) {
	adminID := strings.TrimSpace(in.AdminID)
	if adminID == "" {
		return nil, apperrors.NewValidationError("Admin ID is required", nil)
	}
	complaint, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(requester, complaint, policy.CanAssignComplaint); err != nil {
		return nil, err
	}
	assignee, err := s.actors.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidAssignee(adminID)
		}
		return nil, err
	}
	if assignee.Role != domain.RoleAdmin {
		return nil, apperrors.NewInvalidAssignee(adminID)
	}

	return s.mutate(ctx, requester, id, policy.CanAssignComplaint, func(c *domain.Complaint, at time.Time) []events.Event {
		old := c.Status
		raised := c.Assign(assignee, requester, strings.TrimSpace(in.EstimatedResolutionTime), at)
		evts := []events.Event{{
			Type:        events.EventComplaintAssigned,
			ComplaintID: c.ID,
			TrackingID:  c.TrackingID,
			Actor:       eventActor(requester),
			Payload: events.ComplaintAssignedPayload{
				AssigneeID:     assignee.ID,
				FirstAssigned:  len(raised) > 0,
				EstimatedReady: c.EstimatedResolutionTime,
			},
		}}
		if len(raised) > 0 {
			last, _ := c.LastStatusUpdate()
			evts = append(evts, statusChanged(c, requester, old, last))
		}
		return evts
	})
}

// AddComment appends to the thread. A staff reply to a pending complaint moves it to in_progress.
func (s *ComplaintService) AddComment(ctx context.Context, requester *domain.Actor, id, text string) (*domain.Comment, *domain.Complaint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, apperrors.NewValidationError("Comment text is required", nil)
	}

	var added domain.Comment
	complaint, err := s.mutate(ctx, requester, id, policy.CanComment, func(c *domain.Complaint, at time.Time) []events.Event {
		old := c.Status
		comment, raised := c.AddComment(text, requester, at)
		added = comment
		evts := []events.Event{{
			Type:        events.EventComplaintCommentAdded,
			ComplaintID: c.ID,
			TrackingID:  c.TrackingID,
			Actor:       eventActor(requester),
			Payload: events.ComplaintCommentAddedPayload{
				CommentID:   comment.ID,
				AuthorID:    comment.AuthorID,
				BodyPreview: stringPreview(comment.Text, 120),
			},
		}}
		if len(raised) > 0 {
			last, _ := c.LastStatusUpdate()
			evts = append(evts, statusChanged(c, requester, old, last))
		}
		return evts
	})
	if err != nil {
		return nil, nil, err
	}
	return &added, complaint, nil
}

// ListComments returns the comment thread of a complaint the requester may view.
func (s *ComplaintService) ListComments(ctx context.Context, requester *domain.Actor, id string) ([]domain.Comment, error) {
	complaint, err := s.Get(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	return complaint.Comments, nil
}

// mutate loads, authorizes and applies a change, then writes it with a version check.
// A lost race reloads and re-applies against the fresh state.
func (s *ComplaintService) mutate(
	ctx context.Context,
	requester *domain.Actor,
	id string,
	allowed func(*domain.Actor, *domain.Complaint) bool,
	apply func(*domain.Complaint, time.Time) []events.Event,
) (*domain.Complaint, error) {
	for attempt := 1; attempt <= maxMutationAttempts; attempt++ {
		complaint, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := authorize(requester, complaint, allowed); err != nil {
			return nil, err
		}

		evts := apply(complaint, s.now())
		err = s.complaints.Update(ctx, complaint)
		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Info("complaint version conflict; retrying", zap.String("complaint_id", id), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, notFoundAs(err, "complaint")
		}
		publish(ctx, s.dispatcher, evts...)
		return complaint, nil
	}
	return nil, apperrors.NewConflict("complaint was modified concurrently, please retry", map[string]any{"complaint_id": id})
}

// authorize reports complaints outside the requester's visibility as not found, and
// visible complaints the requester may not change as forbidden.
func authorize(requester *domain.Actor, complaint *domain.Complaint, allowed func(*domain.Actor, *domain.Complaint) bool) error {
	if !policy.CanView(requester, complaint) {
		return apperrors.NewNotFound("complaint", nil)
	}
	if !allowed(requester, complaint) {
		return apperrors.NewForbidden("Not authorized to modify this complaint")
	}
	return nil
}

func (s *ComplaintService) load(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "complaint")
	}
	return complaint, nil
}

func (s *ComplaintService) randomTrackingID() string {
	return fmt.Sprintf("%s-%d", s.trackingPrefix, 10000+rand.IntN(90000))
}

func statusChanged(c *domain.Complaint, requester *domain.Actor, old domain.ComplaintStatus, entry domain.StatusUpdate) events.Event {
	return events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: c.ID,
		TrackingID:  c.TrackingID,
		Actor:       eventActor(requester),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: old,
			NewStatus: entry.Status,
			Note:      entry.Note,
		},
	}
}

func activeFilter(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, filterAll) {
		return ""
	}
	return value
}

func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
