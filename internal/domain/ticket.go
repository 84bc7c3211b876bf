package domain

import "time"

// Ticket is a support request raised for a client. Status is free text.
type Ticket struct {
	ID          string
	ClientID    string
	Subject     string
	Status      string
	Description string
	CreatedAt   time.Time
}

// TicketWithClient is a ticket with its client reference expanded.
// Client is nil when the referenced client no longer exists.
type TicketWithClient struct {
	Ticket
	Client *Client
}
