package insurance

import (
	"context"

	"github.com/google/uuid"
)

type PayerRepository interface {
	Create(ctx context.Context, p *Payer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payer, error)
	Update(ctx context.Context, p *Payer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Payer, int, error)
}

type PlanRepository interface {
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	Update(ctx context.Context, p *Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPayer(ctx context.Context, payerID uuid.UUID, limit, offset int) ([]*Plan, int, error)
	List(ctx context.Context, limit, offset int) ([]*Plan, int, error)
}
