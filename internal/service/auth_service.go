package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/publicvoice/internal/auth"
	"github.com/spec-kit/publicvoice/internal/config"
	"github.com/spec-kit/publicvoice/internal/domain"
	"github.com/spec-kit/publicvoice/internal/repository"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

// Session is the result of a successful registration or login.
type Session struct {
	Actor     *domain.Actor
	Token     string
	ExpiresAt time.Time
}

// RegisterInput describes citizen self-registration. Any role supplied by the caller is ignored.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	actors   repository.ActorRepository
	tokenMgr *auth.TokenManager
	hash     func(string) (string, error)
	limiter  auth.LoginLimiter
	logger   *zap.Logger
	now      func() time.Time
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	ActorRepo repository.ActorRepository
	Limiter   auth.LoginLimiter
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		actors:   deps.ActorRepo,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		hash:     auth.Hasher(cfg.Auth.BcryptCost),
		limiter:  deps.Limiter,
		logger:   logger,
		now:      time.Now,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a citizen account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := requireFields(map[string]string{"name": in.Name, "email": in.Email, "password": in.Password}); err != nil {
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

	actor := domain.NewCitizen(in.Name, email, in.Phone, in.Address)
	actor.SetPassword(in.Password)
	if err := actor.SealCredential(s.hash); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.actors.Create(ctx, actor); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewDuplicateEmail(email)
		}
		return nil, err
	}

	s.logger.Info("citizen registered", zap.String("actor_id", actor.ID))
	return s.issue(actor)
}

// Authenticate verifies credentials, records the login time and issues a token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	if err := requireFields(map[string]string{"email": email, "password": password}); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)

	if s.limiter != nil && !s.limiter.Allow(ctx, email) {
		return nil, apperrors.NewTooManyAttempts("too many login attempts, try again later")
	}

	actor, err := s.actors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}
	if !actor.IsActive {
		return nil, apperrors.NewAccountDeactivated()
	}
	if err := auth.ComparePassword(actor.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	if s.limiter != nil {
		s.limiter.Reset(ctx, email)
	}

	now := s.now()
	actor.LastLogin = &now
	if err := s.actors.Update(ctx, actor); err != nil {
		return nil, err
	}
	return s.issue(actor)
}

// Me returns the current profile.
func (s *AuthService) Me(ctx context.Context, actorID string) (*domain.Actor, error) {
	actor, err := s.actors.GetByID(ctx, actorID)
	if err != nil {
		return nil, notFoundAs(err, "user")
	}
	return actor, nil
}

func (s *AuthService) issue(actor *domain.Actor) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(actor)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{Actor: actor, Token: token, ExpiresAt: exp}, nil
}
