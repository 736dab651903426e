package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/publicvoice/internal/domain"
	apperrors "github.com/spec-kit/publicvoice/pkg/util/errorutil"
)

type stubLimiter struct {
	allow  bool
	resets int
}

func (l *stubLimiter) Allow(context.Context, string) bool { return l.allow }
func (l *stubLimiter) Reset(context.Context, string)      { l.resets++ }

func TestRegisterCreatesCitizenAndRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: " A@X.com ", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCitizen, session.Actor.Role)
	assert.Equal(t, "a@x.com", session.Actor.Email)
	assert.NotEmpty(t, session.Token)
	assert.NotEqual(t, "pw123456", session.Actor.PasswordHash)

	claims, err := f.auth.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Actor.ID, claims.ActorID)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "B", Email: "a@x.com", Password: "pw123456"})
	assert.Equal(t, apperrors.CodeDuplicateEmail, apperrors.CodeOf(err))

	_, err = f.auth.Register(ctx, RegisterInput{Email: "c@x.com"})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: strings.Repeat("p", 80)})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)

	_, err = f.actors.GetByEmail(ctx, "a@x.com")
	assert.Error(t, err)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: strings.Repeat("p", 72)})
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	session, err := f.auth.Authenticate(ctx, "A@x.com", "pw123456")
	require.NoError(t, err)
	require.NotNil(t, session.Actor.LastLogin)

	_, err = f.auth.Authenticate(ctx, "a@x.com", "wrong")
	assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.CodeOf(err))

	_, err = f.auth.Authenticate(ctx, "nobody@x.com", "pw123456")
	assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.CodeOf(err))

	me, err := f.auth.Me(ctx, session.Actor.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)
}

func TestAuthenticateDeactivatedLeavesLastLoginUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	actor, err := f.actors.GetByID(ctx, session.Actor.ID)
	require.NoError(t, err)
	actor.IsActive = false
	require.NoError(t, f.actors.Update(ctx, actor))

	_, err = f.auth.Authenticate(ctx, "a@x.com", "pw123456")
	assert.Equal(t, apperrors.CodeAccountDeactivated, apperrors.CodeOf(err))

	stored, err := f.actors.GetByID(ctx, actor.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastLogin)
}

func TestAuthenticateHonoursLimiter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	limiter := &stubLimiter{allow: false}
	f.auth.limiter = limiter
	_, err := f.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = f.auth.Authenticate(ctx, "a@x.com", "pw123456")
	assert.Equal(t, apperrors.CodeTooManyAttempts, apperrors.CodeOf(err))

	limiter.allow = true
	_, err = f.auth.Authenticate(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, 1, limiter.resets)
}
