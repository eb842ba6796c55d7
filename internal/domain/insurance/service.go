package insurance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	payers PayerRepository
	plans  PlanRepository
}

func NewService(payers PayerRepository, plans PlanRepository) *Service {
	return &Service{payers: payers, plans: plans}
}

// -- Payers --

func (s *Service) CreatePayer(ctx context.Context, p *Payer) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.PayerCode == "" {
		return fmt.Errorf("payer_code is required")
	}
	return s.payers.Create(ctx, p)
}

func (s *Service) GetPayer(ctx context.Context, id uuid.UUID) (*Payer, error) {
	return s.payers.GetByID(ctx, id)
}

func (s *Service) UpdatePayer(ctx context.Context, p *Payer) error {
	return s.payers.Update(ctx, p)
}

func (s *Service) DeletePayer(ctx context.Context, id uuid.UUID) error {
	return s.payers.Delete(ctx, id)
}

func (s *Service) ListPayers(ctx context.Context, limit, offset int) ([]*Payer, int, error) {
	return s.payers.List(ctx, limit, offset)
}

// -- Plans --

func (s *Service) CreatePlan(ctx context.Context, p *Plan) error {
	if err := s.validatePlan(ctx, p); err != nil {
		return err
	}
	return s.plans.Create(ctx, p)
}

func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (*Plan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *Service) UpdatePlan(ctx context.Context, p *Plan) error {
	if err := s.validatePlan(ctx, p); err != nil {
		return err
	}
	return s.plans.Update(ctx, p)
}

func (s *Service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return s.plans.Delete(ctx, id)
}

func (s *Service) ListPlans(ctx context.Context, payerID *uuid.UUID, limit, offset int) ([]*Plan, int, error) {
	if payerID != nil {
		return s.plans.ListByPayer(ctx, *payerID, limit, offset)
	}
	return s.plans.List(ctx, limit, offset)
}

func (s *Service) validatePlan(ctx context.Context, p *Plan) error {
	if p.PayerID == uuid.Nil {
		return fmt.Errorf("payer_id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.CopayAmount != nil && p.CopayPercentage != nil {
		return fmt.Errorf("copay_amount and copay_percentage are mutually exclusive")
	}
	if p.CopayAmount != nil && *p.CopayAmount < 0 {
		return fmt.Errorf("copay_amount must not be negative")
	}
	if p.CopayPercentage != nil && (*p.CopayPercentage < 0 || *p.CopayPercentage > 100) {
		return fmt.Errorf("copay_percentage must be between 0 and 100")
	}
	if p.COBOrder < 0 {
		return fmt.Errorf("cob_order must not be negative")
	}
	if _, err := s.payers.GetByID(ctx, p.PayerID); err != nil {
		return err
	}
	return nil
}
