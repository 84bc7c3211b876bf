package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a Postgres-backed implementation.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (id, name, tax_id, address, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		client.ID,
		client.Name,
		client.TaxID,
		client.Address,
		client.CreatedAt,
		client.UpdatedAt,
	)
	return err
}

// Replace overwrites every mutable column and reloads created_at.
func (r *clientRepository) Replace(ctx context.Context, client *domain.Client) error {
	if !ValidID(client.ID) {
		return domain.ErrNotFound
	}
	const query = `
        UPDATE clients SET name=$1, tax_id=$2, address=$3, updated_at=$4
        WHERE id=$5
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		client.Name,
		client.TaxID,
		client.Address,
		client.UpdatedAt,
		client.ID,
	).Scan(&client.CreatedAt)
	return notFound(err)
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if !ValidID(id) {
		return nil, domain.ErrNotFound
	}
	const query = `
        SELECT id, name, tax_id, address, created_at, updated_at
        FROM clients WHERE id=$1`
	client, err := scanClient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	const query = `
        SELECT id, name, tax_id, address, created_at, updated_at
        FROM clients ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *client)
	}
	return clients, rows.Err()
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var client domain.Client
	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.TaxID,
		&client.Address,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}
