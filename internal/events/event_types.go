package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered    EventType = "user_registered"
	EventUserStatusChanged EventType = "user_status_changed"
	EventPostCreated       EventType = "post_created"
	EventPostApproved      EventType = "post_approved"
	EventPostCommented     EventType = "post_commented"
	EventPostDeleted       EventType = "post_deleted"
)

// AllEventTypes lists every event the services emit.
var AllEventTypes = []EventType{
	EventUserRegistered,
	EventUserStatusChanged,
	EventPostCreated,
	EventPostApproved,
	EventPostCommented,
	EventPostDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	Status  int  `json:"status"`
	Changed bool `json:"changed"`
}

// PostCreatedPayload payload.
type PostCreatedPayload struct {
	UserName  string `json:"user_name"`
	Email     string `json:"email"`
	ImageSize int64  `json:"image_size"`
}

// PostApprovedPayload payload.
type PostApprovedPayload struct {
	Changed bool `json:"changed"`
}

// PostCommentedPayload payload.
type PostCommentedPayload struct {
	Author      string `json:"author"`
	TextPreview string `json:"text_preview"`
}
