package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/hrms-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserLoggedIn       EventType = "user_logged_in"
	EventUserLockedOut      EventType = "user_locked_out"
	EventPasswordChanged    EventType = "password_changed"
	EventPasswordResetAsked EventType = "password_reset_requested"
	EventUserCreated        EventType = "user_created"
	EventUserStatusChanged  EventType = "user_status_changed"
	EventDepartmentChanged  EventType = "department_changed"
	EventEmployeeChanged    EventType = "employee_changed"
	EventDocumentChanged    EventType = "employee_document_changed"
)

// Change actions carried by *Changed payloads.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Actor identifies who caused an event. Empty for anonymous flows.
type Actor struct {
	UserID string      `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// ActorFrom converts a request identity, tolerating nil.
func ActorFrom(id *domain.Identity) Actor {
	if id == nil {
		return Actor{}
	}
	return Actor{UserID: id.UserID, Role: id.Role}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, subjectID string, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// LoginPayload payload.
type LoginPayload struct {
	Username string `json:"username"`
	Extended bool   `json:"extended"`
}

// LockoutPayload payload.
type LockoutPayload struct {
	Identifier string `json:"identifier"`
}

// PasswordResetPayload carries the raw reset token to the delivery channel only.
type PasswordResetPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	OldStatus domain.UserStatus `json:"old_status"`
	NewStatus domain.UserStatus `json:"new_status"`
}

// ChangePayload describes a create, update or delete of a record.
type ChangePayload struct {
	Action string `json:"action"`
	Name   string `json:"name,omitempty"`
}
