package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/internal/domain/order"
)

// OrderPlacer creates orders from fulfilled appointments.
type OrderPlacer interface {
	Create(ctx context.Context, o *order.Order) error
}

type Service struct {
	appointments Repository
	orders       OrderPlacer
}

func NewService(appointments Repository, orders OrderPlacer) *Service {
	return &Service{appointments: appointments, orders: orders}
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.ClientID == uuid.Nil {
		return fmt.Errorf("client_id is required")
	}
	if a.ClientName == "" {
		return fmt.Errorf("client_name is required")
	}
	if a.ServiceKey == "" {
		return fmt.Errorf("service_key is required")
	}
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return fmt.Errorf("start_time and end_time are required")
	}
	if !a.EndTime.After(a.StartTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	if a.Status == "" {
		a.Status = StatusBooked
	}
	if !a.Status.Valid() {
		return fmt.Errorf("invalid appointment status: %s", a.Status)
	}
	return s.appointments.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.List(ctx, filter, limit, offset)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid appointment status: %s", status)
	}
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = status
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	if a.Status != "" && !a.Status.Valid() {
		return fmt.Errorf("invalid appointment status: %s", a.Status)
	}
	return s.appointments.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

// ConvertToOrder turns a fulfilled appointment into a scheduled order. The
// order takes its line item from the appointment's service key, its dates
// from the appointment window, and its number from the appointment id. Each
// appointment converts at most once.
func (s *Service) ConvertToOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusFulfilled {
		return nil, fmt.Errorf("%w: status is %s", ErrNotFulfilled, a.Status)
	}
	if a.OrderID != nil {
		return nil, fmt.Errorf("%w: order %s", ErrAlreadyConverted, a.OrderID)
	}

	duration := int(a.EndTime.Sub(a.StartTime).Minutes())
	o := &order.Order{
		AppointmentID: &a.ID,
		ClientID:      a.ClientID,
		ClientName:    a.ClientName,
		ClinicName:    a.ClinicName,
		ServiceDate:   &a.StartTime,
		EndDate:       &a.EndTime,
		Items: []order.OrderItem{
			{ProductKey: a.ServiceKey, Quantity: 1, DurationMinutes: duration},
		},
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	a.OrderID = &o.ID
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return o, nil
}
