package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/repository"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util/errorutil"
)

// TicketInput carries the four business fields of a ticket.
type TicketInput struct {
	ClientID    string
	Subject     string
	Status      string
	Description string
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets repository.TicketRepository
	clients repository.ClientRepository
	deps    Dependencies
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, clients repository.ClientRepository, deps Dependencies) *TicketService {
	return &TicketService{tickets: tickets, clients: clients, deps: deps.withDefaults()}
}

// Create opens a ticket for an existing client.
func (s *TicketService) Create(ctx context.Context, in TicketInput) (*domain.Ticket, error) {
	client, err := s.requireClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:          newID(),
		ClientID:    client.ID,
		Subject:     in.Subject,
		Status:      in.Status,
		Description: in.Description,
		CreatedAt:   s.deps.Clock(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.deps.Logger.Info("ticket created", zap.String("ticket_id", ticket.ID), zap.String("client_id", client.ID))
	s.deps.publish(ctx, events.EventTicketCreated, ticket.ID, ticketPayload(ticket))
	return ticket, nil
}

// List returns every ticket with its client expanded.
func (s *TicketService) List(ctx context.Context) ([]domain.TicketWithClient, error) {
	tickets, err := s.tickets.ListWithClient(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tickets, nil
}

// Get returns one ticket with its client expanded.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.TicketWithClient, error) {
	ticket, err := s.tickets.GetWithClient(ctx, id)
	if err != nil {
		return nil, translate(err, "ticket")
	}
	return ticket, nil
}

// Update replaces the four business fields. The creation time never changes.
func (s *TicketService) Update(ctx context.Context, id string, in TicketInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "ticket")
	}
	client, err := s.requireClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}

	ticket.ClientID = client.ID
	ticket.Subject = in.Subject
	ticket.Status = in.Status
	ticket.Description = in.Description
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, translate(err, "ticket")
	}

	s.deps.publish(ctx, events.EventTicketUpdated, ticket.ID, ticketPayload(ticket))
	return ticket, nil
}

// Delete removes a ticket.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return translate(err, "ticket")
	}
	s.deps.publish(ctx, events.EventTicketDeleted, id, nil)
	return nil
}

func (s *TicketService) requireClient(ctx context.Context, clientID string) (*domain.Client, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, apperrors.NewValidationError("client required", nil)
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NewBadRequest("CLIENT_NOT_FOUND", "client not found")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return client, nil
}

func ticketPayload(t *domain.Ticket) events.TicketPayload {
	return events.TicketPayload{ClientID: t.ClientID, Subject: t.Subject, Status: t.Status}
}
