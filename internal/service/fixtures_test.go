package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/publicvoice/internal/config"
	"github.com/spec-kit/publicvoice/internal/domain"
	"github.com/spec-kit/publicvoice/internal/events"
	"github.com/spec-kit/publicvoice/internal/repository/memory"
)

type fixture struct {
	cfg         config.Config
	actors      *memory.ActorStore
	departments *memory.DepartmentStore
	complaints  *memory.ComplaintStore
	dispatcher  events.Dispatcher
	mu          sync.Mutex
	published   []events.Event
	directory   *DirectoryService
	complaint   *ComplaintService
	auth        *AuthService
	reports     *ReportService
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 168, BcryptCost: bcrypt.MinCost},
		Complaint: config.ComplaintConfig{
			DefaultPriority:     "medium",
			TrackingPrefix:      "CMP",
			TrackingMaxAttempts: 5,
			DepartmentCacheTTL:  60,
		},
		Seed: config.SeedConfig{
			SuperAdminEmail:    "superadmin@publicvoice.rw",
			SuperAdminPassword: "superadmin123",
			AdminPassword:      "admin123",
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		cfg:         testConfig(),
		actors:      memory.NewActorStore(),
		departments: memory.NewDepartmentStore(),
		complaints:  memory.NewComplaintStore(),
		dispatcher:  events.NewInMemoryDispatcher(nil),
	}
	for _, evtType := range []events.EventType{
		events.EventComplaintSubmitted,
		events.EventComplaintStatusChanged,
		events.EventComplaintAssigned,
		events.EventComplaintCommentAdded,
	} {
		f.dispatcher.Subscribe(evtType, func(_ context.Context, e events.Event) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.published = append(f.published, e)
			return nil
		})
	}

	f.directory = NewDirectoryService(f.cfg, DirectoryDependencies{DepartmentRepo: f.departments, ActorRepo: f.actors})
	f.auth = NewAuthService(f.cfg, AuthDependencies{ActorRepo: f.actors})
	f.complaint = NewComplaintService(f.cfg.Complaint, ComplaintDependencies{
		ComplaintRepo: f.complaints,
		ActorRepo:     f.actors,
		Directory:     f.directory,
		Dispatcher:    f.dispatcher,
	})
	f.reports = NewReportService(f.complaints, f.actors, f.departments)

	ctx := context.Background()
	for _, code := range []string{"public_works", "water_utility"} {
		require.NoError(t, f.departments.Create(ctx, &domain.Department{Name: code, Code: code, IsActive: true}))
	}
	return f
}

func (f *fixture) citizen(t *testing.T, email string) *domain.Actor {
	t.Helper()
	a := domain.NewCitizen("Citizen "+email, email, "", "")
	a.PasswordHash = "x"
	require.NoError(t, f.actors.Create(context.Background(), a))
	return a
}

func (f *fixture) admin(t *testing.T, email, department string) *domain.Actor {
	t.Helper()
	a := domain.NewAdmin("Admin "+email, email, department, "")
	a.PasswordHash = "x"
	require.NoError(t, f.actors.Create(context.Background(), a))
	return a
}

func (f *fixture) superAdmin(t *testing.T) *domain.Actor {
	t.Helper()
	a := domain.NewSuperAdmin("Super Admin", "super@publicvoice.rw")
	a.PasswordHash = "x"
	require.NoError(t, f.actors.Create(context.Background(), a))
	return a
}

func (f *fixture) submit(t *testing.T, owner *domain.Actor, department string) *domain.Complaint {
	t.Helper()
	c, err := f.complaint.Submit(context.Background(), owner, SubmitInput{
		Title:       "Broken streetlight",
		Description: "Dark at night",
		Category:    "roads",
		Location:    "Main St",
		Department:  department,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) eventTypes() []events.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]events.EventType, 0, len(f.published))
	for _, e := range f.published {
		out = append(out, e.Type)
	}
	return out
}
