package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password"`
}

// UserListRequest payload for listing users by role.
type UserListRequest struct {
	Role   string       `json:"role" form:"role"`
	Status *StatusValue `json:"status" form:"status"`
}

// UserStatusUpdateRequest payload for locking or unlocking an account.
type UserStatusUpdateRequest struct {
	ID     string `json:"id" form:"id" validate:"required"`
	Status string `json:"status" form:"status"`
}

// StatusValue accepts a status as a JSON number, a numeric string or a
// form value.
type StatusValue int

// UnmarshalJSON implements json.Unmarshaler.
func (s *StatusValue) UnmarshalJSON(data []byte) error {
	return s.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StatusValue) UnmarshalText(text []byte) error {
	v, err := strconv.Atoi(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("status must be an integer: %w", err)
	}
	*s = StatusValue(v)
	return nil
}

// UserRegisterRequest holds the fields registration requires. Any other
// submitted field is stored alongside the account.
type UserRegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}
