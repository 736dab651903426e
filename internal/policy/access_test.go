package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/publicvoice/internal/domain"
)

func actors() (owner, stranger, worksAdmin, waterAdmin, super *domain.Actor) {
	owner = domain.NewCitizen("Owner", "owner@x.rw", "", "")
	owner.ID = "owner"
	stranger = domain.NewCitizen("Stranger", "stranger@x.rw", "", "")
	stranger.ID = "stranger"
	worksAdmin = domain.NewAdmin("Works", "works@x.rw", "public_works", "")
	worksAdmin.ID = "works"
	waterAdmin = domain.NewAdmin("Water", "water@x.rw", "water_utility", "")
	waterAdmin.ID = "water"
	super = domain.NewSuperAdmin("Super", "super@x.rw")
	super.ID = "super"
	return
}

func TestCanView(t *testing.T) {
	owner, stranger, worksAdmin, waterAdmin, super := actors()
	complaint := &domain.Complaint{OwnerID: owner.ID, Department: "public_works"}

	assert.True(t, CanView(owner, complaint))
	assert.False(t, CanView(stranger, complaint))
	assert.True(t, CanView(worksAdmin, complaint))
	assert.False(t, CanView(waterAdmin, complaint))
	assert.True(t, CanView(super, complaint))
	assert.False(t, CanView(nil, complaint))
}

func TestCanCommentMatchesView(t *testing.T) {
	owner, stranger, worksAdmin, waterAdmin, super := actors()
	complaint := &domain.Complaint{OwnerID: owner.ID, Department: "public_works"}

	for _, a := range []*domain.Actor{owner, stranger, worksAdmin, waterAdmin, super} {
		assert.Equal(t, CanView(a, complaint), CanComment(a, complaint), a.ID)
	}
}

func TestMutationRequiresStaffAndScope(t *testing.T) {
	owner, _, worksAdmin, waterAdmin, super := actors()
	complaint := &domain.Complaint{OwnerID: owner.ID, Department: "public_works"}

	assert.False(t, CanMutateStatus(owner))
	assert.True(t, CanMutateStatus(waterAdmin))
	assert.False(t, CanUpdate(owner, complaint))
	assert.True(t, CanUpdate(worksAdmin, complaint))
	assert.False(t, CanUpdate(waterAdmin, complaint))
	assert.True(t, CanUpdate(super, complaint))

	assert.False(t, CanAssign(owner))
	assert.False(t, CanAssignComplaint(waterAdmin, complaint))
	assert.True(t, CanAssignComplaint(super, complaint))
}

func TestListScope(t *testing.T) {
	owner, _, worksAdmin, _, super := actors()

	dept, ok := ListScope(worksAdmin)
	assert.True(t, ok)
	assert.Equal(t, "public_works", dept)

	dept, ok = ListScope(super)
	assert.True(t, ok)
	assert.Empty(t, dept)

	_, ok = ListScope(owner)
	assert.False(t, ok)
}
