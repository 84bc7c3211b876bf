package dto

import (
	"time"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// TicketRequest is used for create and full update.
type TicketRequest struct {
	Client      string `json:"client"`
	Subject     string `json:"subject"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// TicketResponse carries the client reference as an id.
type TicketResponse struct {
	ID          string    `json:"id"`
	Client      string    `json:"client"`
	Subject     string    `json:"subject"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TicketDetailResponse carries the expanded client; Client is null when the
// reference dangles.
type TicketDetailResponse struct {
	ID          string          `json:"id"`
	Client      *ClientResponse `json:"client"`
	Subject     string          `json:"subject"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		Client:      t.ClientID,
		Subject:     t.Subject,
		Status:      t.Status,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

// NewTicketDetailResponse maps a ticket with its expanded client.
func NewTicketDetailResponse(t *domain.TicketWithClient) TicketDetailResponse {
	resp := TicketDetailResponse{
		ID:          t.ID,
		Subject:     t.Subject,
		Status:      t.Status,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
	if t.Client != nil {
		client := NewClientResponse(t.Client)
		resp.Client = &client
	}
	return resp
}

// NewTicketDetailResponses maps a slice of expanded tickets.
func NewTicketDetailResponses(tickets []domain.TicketWithClient) []TicketDetailResponse {
	resp := make([]TicketDetailResponse, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, NewTicketDetailResponse(&tickets[i]))
	}
	return resp
}
