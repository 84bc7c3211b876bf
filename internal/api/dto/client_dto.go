package dto

import (
	"time"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// ClientRequest is used for both create and full replace.
type ClientRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
}

// ClientResponse represents a client document.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewClientResponse maps a domain client.
func NewClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewClientResponses maps a slice of domain clients.
func NewClientResponses(clients []domain.Client) []ClientResponse {
	resp := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, NewClientResponse(&clients[i]))
	}
	return resp
}
