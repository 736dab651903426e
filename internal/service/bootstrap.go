package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/publicvoice/internal/auth"
	"github.com/spec-kit/publicvoice/internal/config"
	"github.com/spec-kit/publicvoice/internal/domain"
	"github.com/spec-kit/publicvoice/internal/repository"
)

var seedDepartments = []domain.Department{
	{Name: "Public Works Department", Code: "public_works", Description: "Handles infrastructure and maintenance"},
	{Name: "Water Utility", Code: "water_utility", Description: "Manages water supply and quality"},
	{Name: "Electricity Utility", Code: "electricity_utility", Description: "Manages power distribution"},
	{Name: "Sanitation Department", Code: "sanitation", Description: "Handles waste management and cleaning"},
	{Name: "Transportation Department", Code: "transportation", Description: "Manages public transport and traffic"},
	{Name: "Parks & Recreation", Code: "parks_recreation", Description: "Maintains parks and recreational facilities"},
	{Name: "Police Department", Code: "police", Description: "Handles law enforcement and public safety"},
	{Name: "Animal Control", Code: "animal_control", Description: "Manages animal-related issues"},
}

type seedAdmin struct {
	name       string
	email      string
	department string
}

var seedAdmins = []seedAdmin{
	{name: "Public Works Admin", email: "works@publicvoice.rw", department: "public_works"},
	{name: "Water Utility Admin", email: "water@publicvoice.rw", department: "water_utility"},
}

// Bootstrapper seeds an empty installation with departments, the superadmin and initial admins.
type Bootstrapper struct {
	departments repository.DepartmentRepository
	actors      repository.ActorRepository
	seed        config.SeedConfig
	hash        func(string) (string, error)
	logger      *zap.Logger
}

// NewBootstrapper constructs the seeder.
func NewBootstrapper(cfg config.Config, departments repository.DepartmentRepository, actors repository.ActorRepository, logger *zap.Logger) *Bootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrapper{
		departments: departments,
		actors:      actors,
		seed:        cfg.Seed,
		hash:        auth.Hasher(cfg.Auth.BcryptCost),
		logger:      logger,
	}
}

// Bootstrap is a no-op once a superadmin exists. Individual seeding failures are logged
// and skipped; only the superadmin existence check can return an error.
func (b *Bootstrapper) Bootstrap(ctx context.Context) error {
	existing, err := b.actors.CountByRole(ctx, domain.RoleSuperAdmin, false)
	if err != nil {
		return err
	}
	if existing > 0 {
		b.logger.Info("bootstrap skipped; superadmin already present")
		return nil
	}

	for _, seed := range seedDepartments {
		dept := seed
		dept.IsActive = true
		if err := b.departments.Create(ctx, &dept); err != nil {
			b.logger.Warn("seed department failed", zap.String("code", dept.Code), zap.Error(err))
			continue
		}
		b.logger.Info("seeded department", zap.String("code", dept.Code))
	}

	super := domain.NewSuperAdmin("Super Admin", normalizeEmail(b.seed.SuperAdminEmail))
	b.createActor(ctx, super, b.seed.SuperAdminPassword)

	for _, seed := range seedAdmins {
		admin := domain.NewAdmin(seed.name, seed.email, seed.department, "")
		b.createActor(ctx, admin, b.seed.AdminPassword)
	}
	return nil
}

func (b *Bootstrapper) createActor(ctx context.Context, actor *domain.Actor, password string) {
	actor.SetPassword(password)
	if err := actor.SealCredential(b.hash); err != nil {
		b.logger.Warn("seed credential hashing failed", zap.String("email", actor.Email), zap.Error(err))
		return
	}
	if err := b.actors.Create(ctx, actor); err != nil {
		b.logger.Warn("seed actor failed", zap.String("email", actor.Email), zap.Error(err))
		return
	}
	b.logger.Info("seeded actor", zap.String("email", actor.Email), zap.String("role", string(actor.Role)))
}
