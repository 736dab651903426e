package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/spec-kit/publicvoice/internal/auth"
	"github.com/spec-kit/publicvoice/internal/config"
	"github.com/spec-kit/publicvoice/internal/domain"
	"github.com/spec-kit/publicvoice/internal/repository"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

// DepartmentInput describes a new department.
type DepartmentInput struct {
	Name        string
	Code        string
	Description string
}

// CreateAdminInput describes a department admin account.
type CreateAdminInput struct {
	Name       string
	Email      string
	Password   string
	Department string
	Phone      string
}

// DirectoryService owns the department registry and admin provisioning.
type DirectoryService struct {
	departments repository.DepartmentRepository
	actors      repository.ActorRepository
	hash        func(string) (string, error)
	cache       *cache.Cache
	logger      *zap.Logger
}

// DirectoryDependencies bundles repositories for the directory service.
type DirectoryDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	ActorRepo      repository.ActorRepository
	Logger         *zap.Logger
}

// NewDirectoryService constructs the service.
func NewDirectoryService(cfg config.Config, deps DirectoryDependencies) *DirectoryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.Complaint.DepartmentCacheDuration()
	return &DirectoryService{
		departments: deps.DepartmentRepo,
		actors:      deps.ActorRepo,
		hash:        auth.Hasher(cfg.Auth.BcryptCost),
		cache:       cache.New(ttl, 2*ttl),
		logger:      logger,
	}
}

// CreateDepartment registers a department. Name and code must both be unused.
func (s *DirectoryService) CreateDepartment(ctx context.Context, requester *domain.Actor, in DepartmentInput) (*domain.Department, error) {
	if err := requireSuperAdmin(requester); err != nil {
		return nil, err
	}
	if err := requireFields(map[string]string{"name": in.Name, "code": in.Code}); err != nil {
		return nil, err
	}
	dept := &domain.Department{
		Name:        strings.TrimSpace(in.Name),
		Code:        strings.TrimSpace(in.Code),
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		if errors.Is(err, repository.ErrDepartmentTaken) {
			return nil, apperrors.NewDuplicateDepartment(dept.Name, dept.Code)
		}
		return nil, err
	}
	s.cache.Delete(departmentKey(dept.Code))
	s.logger.Info("department created", zap.String("code", dept.Code))
	return dept, nil
}

// ListDepartments returns departments in insertion order.
func (s *DirectoryService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.departments.List(ctx)
}

// ActiveDepartment resolves code to an active department, or fails with UnknownDepartment.
func (s *DirectoryService) ActiveDepartment(ctx context.Context, code string) (*domain.Department, error) {
	key := departmentKey(code)
	if cached, found := s.cache.Get(key); found {
		dept := cached.(domain.Department)
		return &dept, nil
	}
	dept, err := s.departments.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnknownDepartment(code)
		}
		return nil, err
	}
	if !dept.IsActive {
		return nil, apperrors.NewUnknownDepartment(code)
	}
	s.cache.SetDefault(key, *dept)
	return dept, nil
}

// CreateAdmin provisions a department admin. The role is always admin.
func (s *DirectoryService) CreateAdmin(ctx context.Context, requester *domain.Actor, in CreateAdminInput) (*domain.Actor, error) {
	if err := requireSuperAdmin(requester); err != nil {
		return nil, err
	}
	if err := requireFields(map[string]string{
		"name": in.Name, "email": in.Email, "password": in.Password, "department": in.Department,
	}); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	if _, err := s.actors.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateEmail(email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	dept, err := s.ActiveDepartment(ctx, strings.TrimSpace(in.Department))
	if err != nil {
		return nil, err
	}

	admin := domain.NewAdmin(strings.TrimSpace(in.Name), email, dept.Code, in.Phone)
	admin.SetPassword(in.Password)
	if err := admin.SealCredential(s.hash); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.actors.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewDuplicateEmail(email)
		}
		return nil, err
	}
	s.logger.Info("admin created", zap.String("actor_id", admin.ID), zap.String("department", admin.Department))
	return admin, nil
}

// ListAdmins returns admins newest first.
func (s *DirectoryService) ListAdmins(ctx context.Context, requester *domain.Actor) ([]domain.Actor, error) {
	if err := requireSuperAdmin(requester); err != nil {
		return nil, err
	}
	return s.actors.ListByRole(ctx, domain.RoleAdmin)
}

// SetAdminActive activates or deactivates an admin account.
func (s *DirectoryService) SetAdminActive(ctx context.Context, requester *domain.Actor, adminID string, active bool) (*domain.Actor, error) {
	if err := requireSuperAdmin(requester); err != nil {
		return nil, err
	}
	admin, err := s.actors.GetByID(ctx, adminID)
	if err != nil {
		return nil, notFoundAs(err, "admin")
	}
	if admin.Role != domain.RoleAdmin {
		return nil, apperrors.NewNotFound("admin", nil)
	}
	admin.IsActive = active
	if err := s.actors.Update(ctx, admin); err != nil {
		return nil, err
	}
	s.logger.Info("admin status changed", zap.String("actor_id", admin.ID), zap.Bool("active", active))
	return admin, nil
}

func requireSuperAdmin(actor *domain.Actor) error {
	if !actor.IsSuperAdmin() {
		return apperrors.NewForbidden("Super admin access required")
	}
	return nil
}

func departmentKey(code string) string {
	return "department:" + code
}
