package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/publicvoice/internal/domain"
)

// ComplaintFilter captures listing predicates. Zero values mean "no filter"; Limit <= 0 means unbounded.
type ComplaintFilter struct {
	OwnerID    string
	Department string
	Status     domain.ComplaintStatus
	Category   string
	Priority   domain.Priority
	Search     string
	Limit      int
	Offset     int
}

// ComplaintRepository persists complaints together with their embedded lists.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	// Update writes the whole aggregate if complaint.Version still matches the stored row,
	// then bumps complaint.Version.
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*domain.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, int, error)
	CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id::text, tracking_id, title, description, category, location, status, priority,
        department, owner_id::text, assigned_to::text, estimated_resolution_time,
        attachments, comments, status_updates, public_display, version, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	normalizeLists(complaint)
	const query = `
        INSERT INTO complaints (tracking_id, title, description, category, location, status, priority,
            department, owner_id, assigned_to, estimated_resolution_time,
            attachments, comments, status_updates, public_display, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$16)
        RETURNING id::text, version`
	err := r.pool.QueryRow(ctx, query,
		complaint.TrackingID,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Location,
		complaint.Status,
		complaint.Priority,
		complaint.Department,
		complaint.OwnerID,
		complaint.AssignedTo,
		complaint.EstimatedResolutionTime,
		complaint.Attachments,
		complaint.Comments,
		complaint.StatusUpdates,
		complaint.PublicDisplay,
		complaint.CreatedAt,
	).Scan(&complaint.ID, &complaint.Version)
	if isUniqueViolation(err) {
		return ErrTrackingIDTaken
	}
	return err
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	if !validID(complaint.ID) {
		return pgx.ErrNoRows
	}
	normalizeLists(complaint)
	const query = `
        UPDATE complaints SET status=$1, priority=$2, department=$3, assigned_to=$4,
            estimated_resolution_time=$5, comments=$6, status_updates=$7, updated_at=$8,
            version = version + 1
        WHERE id=$9 AND version=$10`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Status,
		complaint.Priority,
		complaint.Department,
		complaint.AssignedTo,
		complaint.EstimatedResolutionTime,
		complaint.Comments,
		complaint.StatusUpdates,
		complaint.UpdatedAt,
		complaint.ID,
		complaint.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM complaints WHERE id=$1)`, complaint.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}
		return ErrVersionConflict
	}
	complaint.Version++
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	return scanComplaint(r.pool.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id=$1`, id))
}

func (r *complaintRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Complaint, error) {
	return scanComplaint(r.pool.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE tracking_id=$1`, trackingID))
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != "" {
		if !validID(filter.OwnerID) {
			return []domain.Complaint{}, 0, nil
		}
		args = append(args, filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, containsPattern(term))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(`(LOWER(title) LIKE %s ESCAPE '\' OR LOWER(description) LIKE %s ESCAPE '\')`, placeholder, placeholder))
	}
	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY created_at DESC`, complaintColumns, where)
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := []domain.Complaint{}
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *complaint)
	}
	return result, total, rows.Err()
}

func (r *complaintRepository) CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM complaints GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ComplaintStatus]int, len(domain.ComplaintStatuses))
	for rows.Next() {
		var status domain.ComplaintStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// normalizeLists keeps JSONB columns as arrays rather than null.
func normalizeLists(c *domain.Complaint) {
	if c.Attachments == nil {
		c.Attachments = []domain.Attachment{}
	}
	if c.Comments == nil {
		c.Comments = []domain.Comment{}
	}
	if c.StatusUpdates == nil {
		c.StatusUpdates = []domain.StatusUpdate{}
	}
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var c domain.Complaint
	if err := row.Scan(
		&c.ID,
		&c.TrackingID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Location,
		&c.Status,
		&c.Priority,
		&c.Department,
		&c.OwnerID,
		&c.AssignedTo,
		&c.EstimatedResolutionTime,
		&c.Attachments,
		&c.Comments,
		&c.StatusUpdates,
		&c.PublicDisplay,
		&c.Version,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern matching term literally as a substring.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
