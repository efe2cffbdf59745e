package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dental-solution/internal/domain"
	"github.com/spec-kit/dental-solution/internal/persistence"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	// Create inserts the user unless the email is taken. It reports whether
	// a row was written.
	Create(ctx context.Context, user *domain.User) (bool, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, role string, status *domain.UserStatus) ([]domain.User, error)
	// UpdateStatus reports whether the stored status actually changed and
	// returns pgx.ErrNoRows when no user has the id.
	UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (bool, error)
}

type userRepository struct {
	db persistence.DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db persistence.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (bool, error) {
	const query = `
        INSERT INTO users (id, email, password, role, status, extra)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (email) DO NOTHING
        RETURNING id`

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	extra := user.Extra
	if extra == nil {
		extra = map[string]any{}
	}

	var id string
	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		int(user.Status),
		extra,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	return true, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, password, role, status, extra
        FROM users WHERE email=$1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context, role string, status *domain.UserStatus) ([]domain.User, error) {
	query := `
        SELECT id, email, password, role, status, extra
        FROM users WHERE role=$1`
	args := []any{role}
	if status != nil {
		query += ` AND status=$2`
		args = append(args, int(*status))
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *userRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) (bool, error) {
	const query = `
        WITH prev AS (SELECT id, status FROM users WHERE id=$1 FOR UPDATE)
        UPDATE users SET status=$2
        FROM prev WHERE users.id = prev.id
        RETURNING prev.status <> $2`

	var changed bool
	if err := r.db.QueryRow(ctx, query, id, int(status)).Scan(&changed); err != nil {
		return false, err
	}
	return changed, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user   domain.User
		status int
		extra  map[string]any
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&status,
		&extra,
	); err != nil {
		return nil, err
	}
	user.Status = domain.UserStatus(status)
	user.Extra = extra
	return &user, nil
}
