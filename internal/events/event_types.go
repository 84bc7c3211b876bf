package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventClientDeleted  EventType = "client_deleted"
	EventTicketCreated  EventType = "ticket_created"
	EventTicketUpdated  EventType = "ticket_updated"
	EventTicketDeleted  EventType = "ticket_deleted"
)

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
}

// TicketPayload is attached to ticket lifecycle events.
type TicketPayload struct {
	ClientID string `json:"client_id"`
	Subject  string `json:"subject"`
	Status   string `json:"status"`
}

// ClientDeletedPayload payload.
type ClientDeletedPayload struct {
	Name string `json:"name"`
}
