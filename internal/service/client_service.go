package service

import (
	"context"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/repository"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util/errorutil"
)

// ClientInput holds the client document fields.
type ClientInput struct {
	Name    string
	TaxID   string
	Address string
}

// ClientService manages clients.
type ClientService struct {
	clients repository.ClientRepository
	deps    Dependencies
}

// NewClientService constructs the service.
func NewClientService(clients repository.ClientRepository, deps Dependencies) *ClientService {
	return &ClientService{clients: clients, deps: deps.withDefaults()}
}

// Create stores a new client.
func (s *ClientService) Create(ctx context.Context, in ClientInput) (*domain.Client, error) {
	now := s.deps.Clock()
	client := &domain.Client{
		ID:        newID(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return client, nil
}

// List returns every client.
func (s *ClientService) List(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return clients, nil
}

// Get returns a single client.
func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "client")
	}
	return client, nil
}

// Replace overwrites the whole client document with in. Fields missing from
// in are cleared, unlike the partial user update.
func (s *ClientService) Replace(ctx context.Context, id string, in ClientInput) (*domain.Client, error) {
	client := &domain.Client{
		ID:        id,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Address:   in.Address,
		UpdatedAt: s.deps.Clock(),
	}
	if err := s.clients.Replace(ctx, client); err != nil {
		return nil, translate(err, "client")
	}
	return client, nil
}

// Delete removes the client. Tickets that reference it keep the dangling id.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return translate(err, "client")
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return translate(err, "client")
	}
	s.deps.publish(ctx, events.EventClientDeleted, id, events.ClientDeletedPayload{Name: client.Name})
	return nil
}
