package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/publicvoice/internal/domain"
	"github.com/spec-kit/publicvoice/internal/events"
	"github.com/spec-kit/publicvoice/internal/repository"
	"github.com/spec-kit/publicvoice/internal/repository/memory"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

// conflictingStore loses the version race a fixed number of times before delegating.
type conflictingStore struct {
	*memory.ComplaintStore
	conflicts int
	updates   int
}

func (s *conflictingStore) Update(ctx context.Context, c *domain.Complaint) error {
	s.updates++
	if s.conflicts > 0 {
		s.conflicts--
		return repository.ErrVersionConflict
	}
	return s.ComplaintStore.Update(ctx, c)
}

func sequence(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestSubmitAssignResolveScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	citizen := f.citizen(t, "u@x.rw")
	admin := f.admin(t, "works@x.rw", "public_works")

	c := f.submit(t, citizen, "public_works")
	assert.Equal(t, domain.StatusPending, c.Status)
	assert.Len(t, c.StatusUpdates, 1)
	assert.Regexp(t, `^CMP-\d{5}$`, c.TrackingID)

	c, err := f.complaint.Assign(ctx, admin, c.ID, AssignInput{AdminID: admin.ID, EstimatedResolutionTime: "2 days"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, c.Status)
	assert.Len(t, c.StatusUpdates, 2)
	require.NotNil(t, c.AssignedTo)
	assert.Equal(t, admin.ID, *c.AssignedTo)

	c, err = f.complaint.UpdateStatus(ctx, admin, c.ID, domain.StatusResolved, "Fixed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, c.Status)
	require.Len(t, c.StatusUpdates, 3)
	assert.Equal(t, "Fixed", c.StatusUpdates[2].Note)

	assert.Equal(t, []events.EventType{
		events.EventComplaintSubmitted,
		events.EventComplaintAssigned,
		events.EventComplaintStatusChanged,
		events.EventComplaintStatusChanged,
	}, f.eventTypes())
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	citizen := f.citizen(t, "u@x.rw")

	_, err := f.complaint.Submit(ctx, citizen, SubmitInput{Title: "x"})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = f.complaint.Submit(ctx, citizen, SubmitInput{
		Title: "x", Description: "y", Category: "roads", Location: "z", Department: "ministry_of_magic",
	})
	assert.Equal(t, apperrors.CodeUnknownDepartment, apperrors.CodeOf(err))

	c, err := f.complaint.Submit(ctx, citizen, SubmitInput{Title: "x", Description: "y", Category: "roads", Location: "z"})
	require.NoError(t, err)
	assert.Empty(t, c.Department)
	assert.Equal(t, domain.PriorityMedium, c.Priority)
}

func TestSubmitRetriesTrackingCollision(t *testing.T) {
	f := newFixture(t)
	citizen := f.citizen(t, "u@x.rw")
	f.complaint.nextTracking = sequence("CMP-11111", "CMP-11111", "CMP-22222")

	first := f.submit(t, citizen, "public_works")
	second := f.submit(t, citizen, "public_works")

	assert.Equal(t, "CMP-11111", first.TrackingID)
	assert.Equal(t, "CMP-22222", second.TrackingID)
}

func TestConcurrentSubmitsNeverShareTrackingID(t *testing.T) {
	f := newFixture(t)
	citizen := f.citizen(t, "u@x.rw")
	f.complaint.nextTracking = func() string {
		return fmt.Sprintf("CMP-%05d", 10000+rand.IntN(64))
	}

	const submitters = 200
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created []*domain.Complaint
		failed  []error
	)
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := f.complaint.Submit(context.Background(), citizen, SubmitInput{
				Title: "x", Description: "y", Category: "roads", Location: "z",
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, err)
				return
			}
			created = append(created, c)
		}()
	}
	wg.Wait()

	require.NotEmpty(t, created)
	assert.Len(t, created, submitters-len(failed))
	for _, err := range failed {
		assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
	}

	seen := map[string]bool{}
	for _, c := range created {
		assert.False(t, seen[c.TrackingID], "duplicate tracking id %s", c.TrackingID)
		seen[c.TrackingID] = true

		stored, err := f.complaints.GetByTrackingID(context.Background(), c.TrackingID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, stored.ID)
	}

	_, total, err := f.complaints.List(context.Background(), repository.ComplaintFilter{})
	require.NoError(t, err)
	assert.Equal(t, len(created), total)
}

func TestSubmitGivesUpWhenTrackingSpaceExhausted(t *testing.T) {
	f := newFixture(t)
	citizen := f.citizen(t, "u@x.rw")
	f.complaint.nextTracking = sequence("CMP-11111")
	f.submit(t, citizen, "public_works")

	_, err := f.complaint.Submit(context.Background(), citizen, SubmitInput{
		Title: "x", Description: "y", Category: "roads", Location: "z",
	})
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
}

func TestVisibilityReturnsNotFoundThenForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.citizen(t, "owner@x.rw")
	stranger := f.citizen(t, "stranger@x.rw")
	waterAdmin := f.admin(t, "water@x.rw", "water_utility")
	super := f.superAdmin(t)
	c := f.submit(t, owner, "public_works")

	_, err := f.complaint.Get(ctx, stranger, c.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	_, _, err = f.complaint.AddComment(ctx, stranger, c.ID, "hello")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = f.complaint.Get(ctx, waterAdmin, c.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	_, err = f.complaint.UpdateStatus(ctx, waterAdmin, c.ID, domain.StatusResolved, "")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = f.complaint.UpdateStatus(ctx, owner, c.ID, domain.StatusResolved, "")
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	_, err = f.complaint.Get(ctx, owner, "missing")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	got, err := f.complaint.Get(ctx, super, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.TrackingID, got.TrackingID)
	_, err = f.complaint.UpdateStatus(ctx, super, c.ID, domain.StatusRejected, "")
	require.NoError(t, err)
}

func TestStaffCommentTransitionsPendingOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.citizen(t, "owner@x.rw")
	admin := f.admin(t, "works@x.rw", "public_works")
	c := f.submit(t, owner, "public_works")

	_, c, err := f.complaint.AddComment(ctx, owner, c.ID, "Any news?")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, c.Status)

	comment, c, err := f.complaint.AddComment(ctx, admin, c.ID, "  Crew on the way  ")
	require.NoError(t, err)
	assert.Equal(t, "Crew on the way", comment.Text)
	assert.Equal(t, domain.StatusInProgress, c.Status)
	assert.Len(t, c.StatusUpdates, 2)

	_, c, err = f.complaint.AddComment(ctx, admin, c.ID, "Done soon")
	require.NoError(t, err)
	assert.Len(t, c.StatusUpdates, 2)
	assert.Len(t, c.Comments, 3)

	comments, err := f.complaint.ListComments(ctx, admin, c.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 3)

	_, _, err = f.complaint.AddComment(ctx, admin, c.ID, "   ")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestAssignRejectsNonAdminTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.citizen(t, "owner@x.rw")
	super := f.superAdmin(t)
	c := f.submit(t, owner, "public_works")

	_, err := f.complaint.Assign(ctx, super, c.ID, AssignInput{})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = f.complaint.Assign(ctx, super, c.ID, AssignInput{AdminID: owner.ID})
	assert.Equal(t, apperrors.CodeInvalidAssignee, apperrors.CodeOf(err))

	_, err = f.complaint.Assign(ctx, super, c.ID, AssignInput{AdminID: "nobody"})
	assert.Equal(t, apperrors.CodeInvalidAssignee, apperrors.CodeOf(err))
}

func TestAssignChecksComplaintBeforeAssignee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.citizen(t, "owner@x.rw")
	super := f.superAdmin(t)
	waterAdmin := f.admin(t, "water@x.rw", "water_utility")
	c := f.submit(t, owner, "public_works")

	_, err := f.complaint.Assign(ctx, super, "missing", AssignInput{AdminID: "nobody"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = f.complaint.Assign(ctx, waterAdmin, c.ID, AssignInput{AdminID: "nobody"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = f.complaint.Assign(ctx, owner, c.ID, AssignInput{AdminID: "nobody"})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestReassignKeepsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.citizen(t, "owner@x.rw")
	first := f.admin(t, "a@x.rw", "public_works")
	second := f.admin(t, "b@x.rw", "public_works")
	c := f.submit(t, owner, "public_works")

	_, err := f.complaint.Assign(ctx, first, c.ID, AssignInput{AdminID: first.ID})
	require.NoError(t, err)
	_, err = f.complaint.UpdateStatus(ctx, first, c.ID, domain.StatusResolved, "")
	require.NoError(t, err)

	c, err = f.complaint.Assign(ctx, first, c.ID, AssignInput{AdminID: second.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, c.Status)
	assert.Len(t, c.StatusUpdates, 3)
	assert.Equal(t, second.ID, *c.AssignedTo)
}

func TestUpdateComplaintFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.citizen(t, "owner@x.rw")
	super := f.superAdmin(t)
	c := f.submit(t, owner, "public_works")

	_, err := f.complaint.UpdateComplaint(ctx, super, c.ID, UpdateInput{})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	bad := domain.Priority("urgent")
	_, err = f.complaint.UpdateComplaint(ctx, super, c.ID, UpdateInput{Priority: &bad})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	closed := domain.ComplaintStatus("closed")
	_, err = f.complaint.UpdateComplaint(ctx, super, c.ID, UpdateInput{Status: &closed})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	unknown := "ministry_of_magic"
	_, err = f.complaint.UpdateComplaint(ctx, super, c.ID, UpdateInput{Department: &unknown})
	assert.Equal(t, apperrors.CodeUnknownDepartment, apperrors.CodeOf(err))

	high := domain.PriorityHigh
	water := "water_utility"
	updated, err := f.complaint.UpdateComplaint(ctx, super, c.ID, UpdateInput{Priority: &high, Department: &water})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	assert.Equal(t, "water_utility", updated.Department)
	assert.Len(t, updated.StatusUpdates, 1)

	status := domain.StatusInProgress
	updated, err = f.complaint.UpdateComplaint(ctx, super, c.ID, UpdateInput{Status: &status})
	require.NoError(t, err)
	last, _ := updated.LastStatusUpdate()
	assert.Equal(t, "Status updated to in_progress", last.Note)
	require.NotNil(t, last.By)
	assert.Equal(t, super.ID, *last.By)
}

func TestMutationRetriesVersionConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := &conflictingStore{ComplaintStore: f.complaints}
	f.complaint.complaints = store
	owner := f.citizen(t, "owner@x.rw")
	super := f.superAdmin(t)
	c := f.submit(t, owner, "public_works")

	store.conflicts = 2
	updated, err := f.complaint.UpdateStatus(ctx, super, c.ID, domain.StatusResolved, "")
	require.NoError(t, err)
	assert.Equal(t, 3, store.updates)
	assert.Len(t, updated.StatusUpdates, 2)

	stored, err := f.complaints.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, stored.StatusUpdates, 2)

	store.updates = 0
	store.conflicts = maxMutationAttempts
	_, err = f.complaint.UpdateStatus(ctx, super, c.ID, domain.StatusRejected, "")
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
	assert.Equal(t, maxMutationAttempts, store.updates)
}

func TestListForAdminIsDepartmentScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.citizen(t, "owner@x.rw")
	worksAdmin := f.admin(t, "works@x.rw", "public_works")
	super := f.superAdmin(t)
	for i := 0; i < 3; i++ {
		f.submit(t, owner, "public_works")
	}
	f.submit(t, owner, "water_utility")

	page, err := f.complaint.ListForAdmin(ctx, worksAdmin, AdminListFilter{Department: "water_utility", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 2)
	for _, c := range page.Items {
		assert.Equal(t, "public_works", c.Department)
	}

	page, err = f.complaint.ListForAdmin(ctx, super, AdminListFilter{Status: "all", Department: "all"})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, defaultPageSize, page.PageSize)

	page, err = f.complaint.ListForAdmin(ctx, super, AdminListFilter{Department: "water_utility"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	_, err = f.complaint.ListForAdmin(ctx, super, AdminListFilter{Status: "closed"})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = f.complaint.ListForAdmin(ctx, owner, AdminListFilter{})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestListForAdminClampsHugePage(t *testing.T) {
	f := newFixture(t)
	owner := f.citizen(t, "owner@x.rw")
	super := f.superAdmin(t)
	f.submit(t, owner, "public_works")

	page, err := f.complaint.ListForAdmin(context.Background(), super, AdminListFilter{Page: math.MaxInt, PageSize: maxPageSize})
	require.NoError(t, err)
	assert.Equal(t, maxPage, page.Page)
	assert.Equal(t, 1, page.Total)
	assert.Empty(t, page.Items)
}

func TestListDepartmentAndOwnerComplaints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.citizen(t, "owner@x.rw")
	other := f.citizen(t, "other@x.rw")
	waterAdmin := f.admin(t, "water@x.rw", "water_utility")
	f.submit(t, owner, "public_works")
	f.submit(t, other, "water_utility")

	mine, err := f.complaint.ListForOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	dept, err := f.complaint.ListDepartmentComplaints(ctx, waterAdmin)
	require.NoError(t, err)
	require.Len(t, dept, 1)
	assert.Equal(t, "water_utility", dept[0].Department)

	_, err = f.complaint.ListDepartmentComplaints(ctx, owner)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestTrackIsPublic(t *testing.T) {
	f := newFixture(t)
	owner := f.citizen(t, "owner@x.rw")
	c := f.submit(t, owner, "public_works")

	found, err := f.complaint.Track(context.Background(), " "+c.TrackingID+" ")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	_, err = f.complaint.Track(context.Background(), "CMP-00000")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}
