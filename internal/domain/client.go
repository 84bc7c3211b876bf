package domain

import "time"

// Client is a customer organisation that tickets are raised for.
type Client struct {
	ID        string
	Name      string
	TaxID     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
