package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dental-solution/internal/domain"
	"github.com/spec-kit/dental-solution/internal/persistence"
)

// ErrNotInserted is returned when an insert completes without storing a row.
var ErrNotInserted = errors.New("insert did not store a row")

// PostRepository persists posts with their inline image and comments.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	// Approve reports whether the status actually changed and returns
	// pgx.ErrNoRows when no post has the id.
	Approve(ctx context.Context, id string) (bool, error)
	AddComment(ctx context.Context, id string, comment domain.Comment) error
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	db persistence.DB
}

// NewPostRepository constructs repository.
func NewPostRepository(db persistence.DB) PostRepository {
	return &postRepository{db: db}
}

const (
	postColumns      = `id, user_name, email, text_post, status, created_at, comments`
	postImageColumns = `image_content_type, image_size, image_data`
)

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (id, user_name, email, text_post, image_content_type, image_size, image_data, status, created_at, comments)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'[]'::jsonb)`

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	var image domain.PostImage
	if post.Image != nil {
		image = *post.Image
	}

	cmd, err := r.db.Exec(ctx, query,
		post.ID,
		post.UserName,
		post.Email,
		post.TextPost,
		image.ContentType,
		image.Size,
		image.Data,
		int(post.Status),
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotInserted
	}
	return nil
}

func (r *postRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	columns := postColumns
	if !filter.OmitImage {
		columns += ", " + postImageColumns
	}

	var (
		conditions []string
		args       []any
	)
	if filter.ApprovedExcludingEmail {
		args = append(args, int(domain.PostStatusApproved))
		conditions = append(conditions, fmt.Sprintf("status=$%d", len(args)))
		var exclude any
		if filter.ExcludeEmail != "" {
			exclude = filter.ExcludeEmail
		}
		args = append(args, exclude)
		conditions = append(conditions, fmt.Sprintf("email IS DISTINCT FROM $%d::text", len(args)))
	}
	if filter.ID != "" {
		args = append(args, filter.ID)
		conditions = append(conditions, fmt.Sprintf("id=$%d", len(args)))
	}

	query := "SELECT " + columns + " FROM posts"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	result := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows, !filter.OmitImage)
		if err != nil {
			return nil, err
		}
		result = append(result, *post)
	}
	return result, rows.Err()
}

func (r *postRepository) Approve(ctx context.Context, id string) (bool, error) {
	const query = `
        WITH prev AS (SELECT id, status FROM posts WHERE id=$1 FOR UPDATE)
        UPDATE posts SET status=$2
        FROM prev WHERE posts.id = prev.id
        RETURNING prev.status <> $2`

	var changed bool
	if err := r.db.QueryRow(ctx, query, id, int(domain.PostStatusApproved)).Scan(&changed); err != nil {
		return false, err
	}
	return changed, nil
}

func (r *postRepository) AddComment(ctx context.Context, id string, comment domain.Comment) error {
	const query = `
        UPDATE posts
        SET comments = comments || jsonb_build_array(jsonb_build_object('author', $2::text, 'text', $3::text))
        WHERE id=$1`

	cmd, err := r.db.Exec(ctx, query, id, comment.Author, comment.Text)
	if err != nil {
		return fmt.Errorf("append comment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanPost(row pgx.Row, withImage bool) (*domain.Post, error) {
	var (
		post     domain.Post
		status   int
		comments []domain.Comment
	)
	dest := []any{
		&post.ID,
		&post.UserName,
		&post.Email,
		&post.TextPost,
		&status,
		&post.CreatedAt,
		&comments,
	}
	var image domain.PostImage
	if withImage {
		dest = append(dest, &image.ContentType, &image.Size, &image.Data)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	post.Status = domain.PostStatus(status)
	if comments == nil {
		comments = []domain.Comment{}
	}
	post.Comments = comments
	if withImage {
		post.Image = &image
	}
	return &post, nil
}
