package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

// TicketRepository implements repository.TicketRepository using SQLite.
type TicketRepository struct {
	db *sql.DB
}

var _ repository.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new SQLite-backed TicketRepository.
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketWithClientQuery = `
	SELECT t.id, t.client_id, t.subject, t.status, t.description, t.created_at,
	       c.id, c.name, c.tax_id, c.address, c.created_at, c.updated_at
	FROM tickets t
	LEFT JOIN clients c ON c.id = t.client_id`

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (id, client_id, subject, status, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ticket.ID, ticket.ClientID, ticket.Subject, ticket.Status, ticket.Description, ticket.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET client_id = ?, subject = ?, status = ?, description = ? WHERE id = ?`,
		ticket.ClientID, ticket.Subject, ticket.Status, ticket.Description, ticket.ID,
	)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, client_id, subject, status, description, created_at FROM tickets WHERE id = ?`, id,
	).Scan(&t.ID, &t.ClientID, &t.Subject, &t.Status, &t.Description, &t.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *TicketRepository) GetWithClient(ctx context.Context, id string) (*domain.TicketWithClient, error) {
	t, err := scanTicketWithClient(r.db.QueryRowContext(ctx, ticketWithClientQuery+` WHERE t.id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *TicketRepository) ListWithClient(ctx context.Context) ([]domain.TicketWithClient, error) {
	rows, err := r.db.QueryContext(ctx, ticketWithClientQuery+` ORDER BY t.created_at, t.id`)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []domain.TicketWithClient{}
	for rows.Next() {
		t, err := scanTicketWithClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func scanTicketWithClient(row scanner) (*domain.TicketWithClient, error) {
	var (
		t                       domain.TicketWithClient
		cID, cName, cTax, cAddr sql.NullString
		cCreatedAt, cUpdatedAt  sql.NullTime
	)
	if err := row.Scan(
		&t.ID, &t.ClientID, &t.Subject, &t.Status, &t.Description, &t.CreatedAt,
		&cID, &cName, &cTax, &cAddr, &cCreatedAt, &cUpdatedAt,
	); err != nil {
		return nil, err
	}
	if cID.Valid {
		t.Client = &domain.Client{
			ID:        cID.String,
			Name:      cName.String,
			TaxID:     cTax.String,
			Address:   cAddr.String,
			CreatedAt: cCreatedAt.Time,
			UpdatedAt: cUpdatedAt.Time,
		}
	}
	return &t, nil
}
