package client

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Client, int, error)
}

type ContactRepository interface {
	Create(ctx context.Context, e *ContactEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*ContactEntry, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*ContactEntry, int, error)
	// UpdateStatus changes one entry's status; ErrNotFound for unknown ids.
	UpdateStatus(ctx context.Context, id uuid.UUID, status ContactStatus) error
}
