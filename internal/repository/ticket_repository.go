package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketWithClientQuery = `
        SELECT t.id, t.client_id, t.subject, t.status, t.description, t.created_at,
               c.id, c.name, c.tax_id, c.address, c.created_at, c.updated_at
        FROM tickets t
        LEFT JOIN clients c ON c.id = t.client_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, client_id, subject, status, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.ClientID,
		ticket.Subject,
		ticket.Status,
		ticket.Description,
		ticket.CreatedAt,
	)
	return err
}

// Update rewrites the business fields. created_at is never written.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	if !ValidID(ticket.ID) {
		return domain.ErrNotFound
	}
	const query = `
        UPDATE tickets SET client_id=$1, subject=$2, status=$3, description=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.ClientID,
		ticket.Subject,
		ticket.Status,
		ticket.Description,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if !ValidID(id) {
		return nil, domain.ErrNotFound
	}
	const query = `
        SELECT id, client_id, subject, status, description, created_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.ClientID,
		&ticket.Subject,
		&ticket.Status,
		&ticket.Description,
		&ticket.CreatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) GetWithClient(ctx context.Context, id string) (*domain.TicketWithClient, error) {
	if !ValidID(id) {
		return nil, domain.ErrNotFound
	}
	ticket, err := scanTicketWithClient(r.pool.QueryRow(ctx, ticketWithClientQuery+` WHERE t.id=$1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return ticket, nil
}

func (r *ticketRepository) ListWithClient(ctx context.Context) ([]domain.TicketWithClient, error) {
	rows, err := r.pool.Query(ctx, ticketWithClientQuery+` ORDER BY t.created_at, t.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.TicketWithClient{}
	for rows.Next() {
		ticket, err := scanTicketWithClient(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

func scanTicketWithClient(row pgx.Row) (*domain.TicketWithClient, error) {
	var (
		ticket          domain.TicketWithClient
		clientID        *string
		clientName      *string
		clientTaxID     *string
		clientAddress   *string
		clientCreatedAt *time.Time
		clientUpdatedAt *time.Time
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.ClientID,
		&ticket.Subject,
		&ticket.Status,
		&ticket.Description,
		&ticket.CreatedAt,
		&clientID,
		&clientName,
		&clientTaxID,
		&clientAddress,
		&clientCreatedAt,
		&clientUpdatedAt,
	); err != nil {
		return nil, err
	}
	if clientID != nil {
		ticket.Client = &domain.Client{
			ID:        *clientID,
			Name:      deref(clientName),
			TaxID:     deref(clientTaxID),
			Address:   deref(clientAddress),
			CreatedAt: derefTime(clientCreatedAt),
			UpdatedAt: derefTime(clientUpdatedAt),
		}
	}
	return &ticket, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
