package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/publicvoice/internal/domain"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.citizen(t, "owner@x.rw")
	super := f.superAdmin(t)

	a := f.submit(t, owner, "public_works")
	b := f.submit(t, owner, "water_utility")
	f.submit(t, owner, "public_works")
	_, err := f.complaint.UpdateStatus(ctx, super, a.ID, domain.StatusResolved, "")
	require.NoError(t, err)
	_, err = f.complaint.UpdateStatus(ctx, super, b.ID, domain.StatusInProgress, "")
	require.NoError(t, err)

	stats, err := f.reports.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{Total: 3, Pending: 1, InProgress: 1, Resolved: 1}, *stats)
}

func TestAdminStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	super := f.superAdmin(t)
	f.admin(t, "a@x.rw", "public_works")
	b := f.admin(t, "b@x.rw", "water_utility")
	_, err := f.directory.SetAdminActive(ctx, super, b.ID, false)
	require.NoError(t, err)

	stats, err := f.reports.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, AdminStats{TotalAdmins: 2, TotalDepartments: 2, ActiveAdmins: 1}, *stats)
}
