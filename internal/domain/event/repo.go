package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows event listings.
type ListFilter struct {
	ClinicID *uuid.UUID
	From     *time.Time
	To       *time.Time
}

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Event, int, error)
}
