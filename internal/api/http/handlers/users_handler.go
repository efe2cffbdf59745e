package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dental-solution/internal/api/dto"
	"github.com/spec-kit/dental-solution/internal/domain"
	"github.com/spec-kit/dental-solution/internal/service"
	apperrors "github.com/spec-kit/dental-solution/pkg/util/errorutil"
)

// UsersHandler exposes registration, login and account administration.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Register handles POST /register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	fields, err := bodyFields(c)
	if err != nil {
		return err
	}

	req := dto.UserRegisterRequest{
		Email:    stringField(fields, "email"),
		Password: stringField(fields, "password"),
		Role:     stringField(fields, "role"),
	}
	if details, err := dto.Validate(&req); err != nil {
		return apperrors.NewValidationError("email and password required", details)
	}

	_, err = h.users.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Extra:    fields,
	})
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

// Login handles POST /login and echoes the stored account document.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(user.Document(true))
}

// Users handles POST /users.
func (h *UsersHandler) Users(c *fiber.Ctx) error {
	var req dto.UserListRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	var status *domain.UserStatus
	if req.Status != nil {
		s := domain.UserStatus(*req.Status)
		status = &s
	}

	users, err := h.users.ListUsers(c.UserContext(), req.Role, status)
	if err != nil {
		return err
	}

	docs := make([]map[string]any, 0, len(users))
	for i := range users {
		docs = append(docs, users[i].Document(false))
	}
	return c.JSON(docs)
}

// UpdateUser handles POST /updateUser and reports whether the status changed.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UserStatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	changed, err := h.users.UpdateStatus(c.UserContext(), req.ID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(changed)
}
