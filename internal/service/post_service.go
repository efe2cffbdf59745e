package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/dental-solution/internal/domain"
	"github.com/spec-kit/dental-solution/internal/events"
	"github.com/spec-kit/dental-solution/internal/repository"
	apperrors "github.com/spec-kit/dental-solution/pkg/util/errorutil"
)

const commentPreviewLen = 80

// Values of the withImage query parameter that change a listing.
const (
	WithImageTrue  = "true"
	WithImageFalse = "false"
)

// PostService coordinates posting, moderation and comments.
type PostService struct {
	posts      repository.PostRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// PostDependencies bundles collaborators for the post service.
type PostDependencies struct {
	PostRepo   repository.PostRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// CreatePostInput describes a new post and its uploaded image.
type CreatePostInput struct {
	UserName string
	Email    string
	TextPost string
	Image    *domain.PostImage
}

// ListPostsInput mirrors the getPosts request: the viewer's email, the raw
// withImage flag and an optional post id.
type ListPostsInput struct {
	Email     string
	WithImage string
	ID        string
}

// NewPostService constructs the service.
func NewPostService(deps PostDependencies) *PostService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &PostService{
		posts:      deps.PostRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// CreatePost stores a pending post with no comments.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	if input.Image == nil {
		return nil, apperrors.NewBadRequest("image file required", nil)
	}

	post := &domain.Post{
		UserName:  input.UserName,
		Email:     input.Email,
		TextPost:  input.TextPost,
		Image:     input.Image,
		Status:    domain.PostStatusPending,
		CreatedAt: s.now().UTC(),
		Comments:  []domain.Comment{},
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("post insert failed", zap.String("email", input.Email), zap.Error(err))
		return nil, apperrors.NewBadRequest("post not stored", err)
	}

	emit(ctx, s.dispatcher, s.logger, events.EventPostCreated, post.ID, events.PostCreatedPayload{
		UserName:  post.UserName,
		Email:     post.Email,
		ImageSize: post.Image.Size,
	})
	return post, nil
}

// ListPosts returns posts newest first. withImage "true" restricts to
// approved posts of other authors, "false" drops the image; an id narrows
// to one post. An empty result is not an error.
func (s *PostService) ListPosts(ctx context.Context, input ListPostsInput) ([]domain.Post, error) {
	filter := domain.PostFilter{
		ApprovedExcludingEmail: input.WithImage == WithImageTrue,
		ExcludeEmail:           input.Email,
		ID:                     input.ID,
		OmitImage:              input.WithImage == WithImageFalse,
	}

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		s.logger.Error("post listing failed", zap.Error(err))
		return nil, apperrors.NewNotFound("posts", nil)
	}
	return posts, nil
}

// ApprovePost marks the post approved. It reports whether the status
// changed; approving an approved post is not an error.
func (s *PostService) ApprovePost(ctx context.Context, id string) (bool, error) {
	changed, err := s.posts.Approve(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, apperrors.NewNotFound("post", map[string]any{"id": id})
	}
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}

	emit(ctx, s.dispatcher, s.logger, events.EventPostApproved, id, events.PostApprovedPayload{Changed: changed})
	return changed, nil
}

// AddComment appends a comment to the post.
func (s *PostService) AddComment(ctx context.Context, id, author, text string) error {
	err := s.posts.AddComment(ctx, id, domain.Comment{Author: author, Text: text})
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("post", map[string]any{"id": id})
	}
	if err != nil {
		s.logger.Error("comment append failed", zap.String("post_id", id), zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	emit(ctx, s.dispatcher, s.logger, events.EventPostCommented, id, events.PostCommentedPayload{
		Author:      author,
		TextPreview: preview(text, commentPreviewLen),
	})
	return nil
}

// DeletePost removes the post.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	err := s.posts.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("post", map[string]any{"id": id})
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	emit(ctx, s.dispatcher, s.logger, events.EventPostDeleted, id, nil)
	return nil
}

func preview(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "…"
}
