package service

import (
	"context"

	"github.com/spec-kit/publicvoice/internal/domain"
	"github.com/spec-kit/publicvoice/internal/repository"
)

// DashboardStats are the status tallies over every complaint.
type DashboardStats struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
	Rejected   int
}

// AdminStats are the staff directory tallies.
type AdminStats struct {
	TotalAdmins      int
	TotalDepartments int
	ActiveAdmins     int
}

// ReportService computes aggregate counts at request time.
type ReportService struct {
	complaints  repository.ComplaintRepository
	actors      repository.ActorRepository
	departments repository.DepartmentRepository
}

// NewReportService constructs the service.
func NewReportService(complaints repository.ComplaintRepository, actors repository.ActorRepository, departments repository.DepartmentRepository) *ReportService {
	return &ReportService{complaints: complaints, actors: actors, departments: departments}
}

// DashboardStats counts complaints by status.
func (s *ReportService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.complaints.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{
		Pending:    counts[domain.StatusPending],
		InProgress: counts[domain.StatusInProgress],
		Resolved:   counts[domain.StatusResolved],
		Rejected:   counts[domain.StatusRejected],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// AdminStats counts admins and departments.
func (s *ReportService) AdminStats(ctx context.Context) (*AdminStats, error) {
	total, err := s.actors.CountByRole(ctx, domain.RoleAdmin, false)
	if err != nil {
		return nil, err
	}
	active, err := s.actors.CountByRole(ctx, domain.RoleAdmin, true)
	if err != nil {
		return nil, err
	}
	departments, err := s.departments.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminStats{TotalAdmins: total, TotalDepartments: departments, ActiveAdmins: active}, nil
}
