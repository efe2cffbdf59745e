package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/spec-kit/dental-solution/internal/api/dto"
	"github.com/spec-kit/dental-solution/internal/domain"
	"github.com/spec-kit/dental-solution/internal/service"
	apperrors "github.com/spec-kit/dental-solution/pkg/util/errorutil"
)

const imageField = "image"

// PostsHandler exposes posting, moderation and comment endpoints.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{posts: postService}
}

// LeavePost handles the multipart POST /leavePost upload.
func (h *PostsHandler) LeavePost(c *fiber.Ctx) error {
	var req dto.PostCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	image, err := readImage(c)
	if err != nil {
		return err
	}

	_, err = h.posts.CreatePost(c.UserContext(), service.CreatePostInput{
		UserName: req.UserName,
		Email:    req.Email,
		TextPost: req.TextPost,
		Image:    image,
	})
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

// readImage buffers the uploaded file. A multipart request without one
// yields nil.
func readImage(c *fiber.Ctx) (*domain.PostImage, error) {
	header, err := c.FormFile(imageField)
	if errors.Is(err, fasthttp.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid upload", err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, apperrors.NewBadRequest("unreadable image", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewBadRequest("unreadable image", err)
	}
	return &domain.PostImage{
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Data:        data,
	}, nil
}

// GetPosts handles POST /getPosts?withImage=true|false.
func (h *PostsHandler) GetPosts(c *fiber.Ctx) error {
	var req dto.PostListRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	posts, err := h.posts.ListPosts(c.UserContext(), service.ListPostsInput{
		Email:     req.Email,
		WithImage: c.Query("withImage"),
		ID:        req.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// UpdatePost handles POST /updatePost, approving the post.
func (h *PostsHandler) UpdatePost(c *fiber.Ctx) error {
	var req dto.PostIDRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	changed, err := h.posts.ApprovePost(c.UserContext(), req.ID)
	if err != nil {
		return err
	}
	return c.JSON(changed)
}

// LeaveComment handles POST /leaveComment.
func (h *PostsHandler) LeaveComment(c *fiber.Ctx) error {
	var req dto.CommentCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.posts.AddComment(c.UserContext(), req.ID, req.Author, req.Text); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

// DeletePost handles DELETE /deletePost/:id.
func (h *PostsHandler) DeletePost(c *fiber.Ctx) error {
	if err := h.posts.DeletePost(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}
