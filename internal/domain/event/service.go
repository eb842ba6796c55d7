package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	events Repository
}

func NewService(events Repository) *Service {
	return &Service{events: events}
}

func (s *Service) Create(ctx context.Context, e *Event) error {
	if err := validate(e); err != nil {
		return err
	}
	return s.events.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, e *Event) error {
	if err := validate(e); err != nil {
		return err
	}
	return s.events.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.events.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Event, int, error) {
	return s.events.List(ctx, filter, limit, offset)
}

func validate(e *Event) error {
	if e.ClinicID == uuid.Nil {
		return fmt.Errorf("clinic_id is required")
	}
	if e.Title == "" {
		return fmt.Errorf("title is required")
	}
	if e.StartsAt.IsZero() || e.EndsAt.IsZero() {
		return fmt.Errorf("starts_at and ends_at are required")
	}
	if e.EndsAt.Before(e.StartsAt) {
		return fmt.Errorf("ends_at must not precede starts_at")
	}
	return nil
}
