package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/publicvoice/internal/domain"
	"github.com/spec-kit/publicvoice/internal/repository"
)

// ComplaintStore implements repository.ComplaintRepository with the same
// tracking-id uniqueness and version semantics as the Postgres table.
type ComplaintStore struct {
	mu         sync.RWMutex
	byID       map[string]*domain.Complaint
	byTracking map[string]string
}

// NewComplaintStore returns an empty store.
func NewComplaintStore() *ComplaintStore {
	return &ComplaintStore{
		byID:       make(map[string]*domain.Complaint),
		byTracking: make(map[string]string),
	}
}

var _ repository.ComplaintRepository = (*ComplaintStore)(nil)

func (s *ComplaintStore) Create(_ context.Context, complaint *domain.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byTracking[complaint.TrackingID]; taken {
		return repository.ErrTrackingIDTaken
	}
	complaint.ID = uuid.NewString()
	complaint.Version = 1
	s.byID[complaint.ID] = complaint.Clone()
	s.byTracking[complaint.TrackingID] = complaint.ID
	return nil
}

func (s *ComplaintStore) Update(_ context.Context, complaint *domain.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[complaint.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if current.Version != complaint.Version {
		return repository.ErrVersionConflict
	}
	complaint.Version++
	s.byID[complaint.ID] = complaint.Clone()
	return nil
}

func (s *ComplaintStore) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	complaint, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return complaint.Clone(), nil
}

func (s *ComplaintStore) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Complaint, error) {
	s.mu.RLock()
	id, ok := s.byTracking[trackingID]
	s.mu.RUnlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s.GetByID(ctx, id)
}

func (s *ComplaintStore) List(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, int, error) {
	s.mu.RLock()
	matched := make([]*domain.Complaint, 0, len(s.byID))
	for _, c := range s.byID {
		if matches(c, filter) {
			matched = append(matched, c.Clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := filter.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}

	result := make([]domain.Complaint, 0, end-start)
	for _, c := range matched[start:end] {
		result = append(result, *c)
	}
	return result, total, nil
}

func (s *ComplaintStore) CountByStatus(_ context.Context) (map[domain.ComplaintStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[domain.ComplaintStatus]int, len(domain.ComplaintStatuses))
	for _, c := range s.byID {
		counts[c.Status]++
	}
	return counts, nil
}

func matches(c *domain.Complaint, f repository.ComplaintFilter) bool {
	if f.OwnerID != "" && c.OwnerID != f.OwnerID {
		return false
	}
	if f.Department != "" && c.Department != f.Department {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Priority != "" && c.Priority != f.Priority {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(c.Title), term) && !strings.Contains(strings.ToLower(c.Description), term) {
			return false
		}
	}
	return true
}
