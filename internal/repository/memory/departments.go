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

// DepartmentStore implements repository.DepartmentRepository.
type DepartmentStore struct {
	mu    sync.RWMutex
	items []domain.Department
}

// NewDepartmentStore returns an empty store.
func NewDepartmentStore() *DepartmentStore {
	return &DepartmentStore{}
}

var _ repository.DepartmentRepository = (*DepartmentStore)(nil)

func (s *DepartmentStore) Create(_ context.Context, dept *domain.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.Name == dept.Name || existing.Code == dept.Code {
			return repository.ErrDepartmentTaken
		}
	}
	dept.ID = uuid.NewString()
	dept.CreatedAt = time.Now()
	s.items = append(s.items, *dept)
	return nil
}

func (s *DepartmentStore) GetByCode(_ context.Context, code string) (*domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, dept := range s.items {
		if dept.Code == code {
			cp := dept
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *DepartmentStore) List(_ context.Context) ([]domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Department{}, s.items...), nil
}

func (s *DepartmentStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}
