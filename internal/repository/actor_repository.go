package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/publicvoice/internal/domain"
)

// ActorRepository defines persistence access for citizens, admins and the superadmin.
type ActorRepository interface {
	Create(ctx context.Context, actor *domain.Actor) error
	Update(ctx context.Context, actor *domain.Actor) error
	GetByID(ctx context.Context, id string) (*domain.Actor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Actor, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.Actor, error)
	CountByRole(ctx context.Context, role domain.Role, activeOnly bool) (int, error)
}

type actorRepository struct {
	pool *pgxpool.Pool
}

// NewActorRepository returns a Postgres-backed implementation.
func NewActorRepository(pool *pgxpool.Pool) ActorRepository {
	return &actorRepository{pool: pool}
}

const actorColumns = `id::text, name, email, password_hash, phone, address, role,
        COALESCE(department, ''), is_active, last_login, created_at, updated_at`

func (r *actorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	if actor.CredentialPending() {
		return domain.ErrCredentialNotSealed
	}
	if err := actor.Validate(); err != nil {
		return err
	}
	const query = `
        INSERT INTO users (name, email, password_hash, phone, address, role, department, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
        RETURNING id::text, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		actor.Name,
		actor.Email,
		actor.PasswordHash,
		actor.Phone,
		actor.Address,
		actor.Role,
		actor.Department,
		actor.IsActive,
	).Scan(&actor.ID, &actor.CreatedAt, &actor.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *actorRepository) Update(ctx context.Context, actor *domain.Actor) error {
	if actor.CredentialPending() {
		return domain.ErrCredentialNotSealed
	}
	if !validID(actor.ID) {
		return pgx.ErrNoRows
	}
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, phone=$4, address=$5,
            department=NULLIF($6, ''), is_active=$7, last_login=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		actor.Name,
		actor.Email,
		actor.PasswordHash,
		actor.Phone,
		actor.Address,
		actor.Department,
		actor.IsActive,
		actor.LastLogin,
		actor.ID,
	).Scan(&actor.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *actorRepository) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	return r.fetchSingle(ctx, `SELECT `+actorColumns+` FROM users WHERE id=$1`, id)
}

func (r *actorRepository) GetByEmail(ctx context.Context, email string) (*domain.Actor, error) {
	return r.fetchSingle(ctx, `SELECT `+actorColumns+` FROM users WHERE email=$1`, email)
}

func (r *actorRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.Actor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+actorColumns+` FROM users WHERE role=$1 ORDER BY created_at DESC`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Actor{}
	for rows.Next() {
		actor, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *actor)
	}
	return result, rows.Err()
}

func (r *actorRepository) CountByRole(ctx context.Context, role domain.Role, activeOnly bool) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE role=$1 AND ($2 = FALSE OR is_active)`
	var count int
	if err := r.pool.QueryRow(ctx, query, role, activeOnly).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *actorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Actor, error) {
	return scanActor(r.pool.QueryRow(ctx, query, arg))
}

func scanActor(row pgx.Row) (*domain.Actor, error) {
	var actor domain.Actor
	if err := row.Scan(
		&actor.ID,
		&actor.Name,
		&actor.Email,
		&actor.PasswordHash,
		&actor.Phone,
		&actor.Address,
		&actor.Role,
		&actor.Department,
		&actor.IsActive,
		&actor.LastLogin,
		&actor.CreatedAt,
		&actor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &actor, nil
}
