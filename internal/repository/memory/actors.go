// Package memory provides mutex-guarded implementations of the repository interfaces.
// Values are copied on the way in and out so callers never share state with the store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/publicvoice/internal/domain"
	"github.com/spec-kit/publicvoice/internal/repository"
)

// ActorStore implements repository.ActorRepository.
type ActorStore struct {
	mu      sync.RWMutex
	byID    map[string]domain.Actor
	byEmail map[string]string
	order   []string
	now     func() time.Time
}

// NewActorStore returns an empty store.
func NewActorStore() *ActorStore {
	return &ActorStore{
		byID:    make(map[string]domain.Actor),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

var _ repository.ActorRepository = (*ActorStore)(nil)

func (s *ActorStore) Create(_ context.Context, actor *domain.Actor) error {
	if actor.CredentialPending() {
		return domain.ErrCredentialNotSealed
	}
	if err := actor.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[actor.Email]; taken {
		return repository.ErrEmailTaken
	}
	now := s.now()
	actor.ID = uuid.NewString()
	actor.CreatedAt = now
	actor.UpdatedAt = now
	s.byID[actor.ID] = copyActor(actor)
	s.byEmail[actor.Email] = actor.ID
	s.order = append(s.order, actor.ID)
	return nil
}

func (s *ActorStore) Update(_ context.Context, actor *domain.Actor) error {
	if actor.CredentialPending() {
		return domain.ErrCredentialNotSealed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[actor.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if current.Email != actor.Email {
		if _, taken := s.byEmail[actor.Email]; taken {
			return repository.ErrEmailTaken
		}
		delete(s.byEmail, current.Email)
		s.byEmail[actor.Email] = actor.ID
	}
	actor.UpdatedAt = s.now()
	actor.Role = current.Role
	actor.CreatedAt = current.CreatedAt
	s.byID[actor.ID] = copyActor(actor)
	return nil
}

func (s *ActorStore) GetByID(_ context.Context, id string) (*domain.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actor, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := copyActor(&actor)
	return &cp, nil
}

func (s *ActorStore) GetByEmail(ctx context.Context, email string) (*domain.Actor, error) {
	s.mu.RLock()
	id, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s.GetByID(ctx, id)
}

// ListByRole returns newest first.
func (s *ActorStore) ListByRole(_ context.Context, role domain.Role) ([]domain.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []domain.Actor{}
	for i := len(s.order) - 1; i >= 0; i-- {
		actor := s.byID[s.order[i]]
		if actor.Role == role {
			result = append(result, copyActor(&actor))
		}
	}
	return result, nil
}

func (s *ActorStore) CountByRole(_ context.Context, role domain.Role, activeOnly bool) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, actor := range s.byID {
		if actor.Role == role && (!activeOnly || actor.IsActive) {
			count++
		}
	}
	return count, nil
}

func copyActor(a *domain.Actor) domain.Actor {
	cp := *a
	if a.LastLogin != nil {
		at := *a.LastLogin
		cp.LastLogin = &at
	}
	return cp
}
