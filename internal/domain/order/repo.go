package order

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows order listings.
type ListFilter struct {
	ClientID *uuid.UUID
	Status   *OrderStatus
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByOrderNumber(ctx context.Context, number string) (*Order, error)
	// Update persists the order row with a version check and bumps the
	// version on success. Items are not touched.
	Update(ctx context.Context, o *Order) error
	// ReplaceItems persists the order row and swaps its items in one
	// transaction, with the same version check as Update.
	ReplaceItems(ctx context.Context, o *Order) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Order, int, error)
	ListReadyForBilling(ctx context.Context, limit, offset int) ([]*Order, int, error)
}
