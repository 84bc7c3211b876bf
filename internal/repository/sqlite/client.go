package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

// ClientRepository implements repository.ClientRepository using SQLite.
type ClientRepository struct {
	db *sql.DB
}

var _ repository.ClientRepository = (*ClientRepository)(nil)

// NewClientRepository creates a new SQLite-backed ClientRepository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, tax_id, address, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		client.ID, client.Name, client.TaxID, client.Address, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepository) Replace(ctx context.Context, client *domain.Client) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE clients SET name = ?, tax_id = ?, address = ?, updated_at = ?
		 WHERE id = ? RETURNING created_at`,
		client.Name, client.TaxID, client.Address, client.UpdatedAt, client.ID,
	).Scan(&client.CreatedAt)
	return notFound(err)
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	client := &domain.Client{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, tax_id, address, created_at, updated_at FROM clients WHERE id = ?`, id,
	).Scan(&client.ID, &client.Name, &client.TaxID, &client.Address, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return client, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, tax_id, address, created_at, updated_at FROM clients ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
